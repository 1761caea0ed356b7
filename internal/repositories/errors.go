package repositories

import (
	"errors"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"gorm.io/gorm"
)

// translate maps GORM sentinel errors onto application error kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, what+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Wrap(apperrors.KindConflict, what+" already exists", err)
	default:
		return err
	}
}

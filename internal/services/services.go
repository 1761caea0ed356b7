// Package services holds the application's use cases on top of the repositories.
package services

import (
	"github.com/anonto42/blogfeed/backend/internal/pagination"
)

// Validator checks tagged form structs. validators.CustomValidator satisfies it.
type Validator interface {
	Validate(i interface{}) error
}

func pageOf(count int64, raw string) pagination.Page {
	return pagination.New(int(count), pagination.PerPage).Page(raw)
}

// Package firebase connects the optional Firebase sign-in.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewTokenVerifier returns the Firebase auth client that verifies ID tokens
// for /auth/firebase-login/. Without FIREBASE_CREDENTIALS_PATH, Firebase
// login is disabled and both results are nil.
func NewTokenVerifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (middleware.TokenVerifier, error) {
	path := cfg.FirebaseCredentialsPath
	if path == "" {
		log.Info("Firebase login disabled, FIREBASE_CREDENTIALS_PATH not set")
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", path)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info("Firebase login enabled", zap.String("credentials", path))
	return client, nil
}

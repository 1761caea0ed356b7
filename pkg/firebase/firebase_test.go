package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/anonto42/blogfeed/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTokenVerifierDisabledWithoutCredentials(t *testing.T) {
	verifier, err := NewTokenVerifier(context.Background(), &config.Config{}, zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, verifier)
}

func TestNewTokenVerifierMissingFile(t *testing.T) {
	cfg := &config.Config{FirebaseCredentialsPath: filepath.Join(t.TempDir(), "missing.json")}

	verifier, err := NewTokenVerifier(context.Background(), cfg, zap.NewNop())

	assert.ErrorContains(t, err, "not found")
	assert.Nil(t, verifier)
}

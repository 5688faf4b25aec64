package errors_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/deppmann/biocards/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "card",
			ID:       "curie_marie",
		}
		assert.Equal(t, "card with ID curie_marie not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("card", "plato")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "sort",
			Message: "unknown order",
		}
		assert.Equal(t, "validation failed for field sort: unknown order", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file", func(t *testing.T) {
		err := pkgerrors.WrapParse("json", "cards.json", errors.New("unexpected EOF"))
		assert.Equal(t, "parse error in json file cards.json: unexpected EOF", err.Error())
	})

	t.Run("with position", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "csv", File: "responses.csv", Line: 3, Column: 2, Message: "bare quote"}
		assert.Equal(t, "parse error in csv at responses.csv:3:2: bare quote", err.Error())
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "cards.json", base)
	require.Error(t, err)
	assert.Equal(t, "IO error during write of cards.json: permission denied", err.Error())
	assert.ErrorIs(t, err, base)

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Operation)
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("google-drive", "oauth", "credentials.json not found", nil)
	assert.Equal(t, "authentication error for google-drive (oauth): credentials.json not found", err.Error())
	assert.True(t, pkgerrors.IsAuthError(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestConflictError(t *testing.T) {
	err := &pkgerrors.ConflictError{Path: "cards.json", Expected: "a", Actual: "b"}
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "cards.json")
}

func TestResourceAndSyncErrors(t *testing.T) {
	base := errors.New("boom")

	res := pkgerrors.WrapResource("upsert", "card", "curie_marie", base)
	assert.Equal(t, "failed to upsert card curie_marie: boom", res.Error())
	assert.ErrorIs(t, res, base)

	syncErr := pkgerrors.NewSyncError("google-drive", "curie_marie_front.png", base)
	assert.Contains(t, syncErr.Error(), "curie_marie_front.png")
	assert.ErrorIs(t, syncErr, base)

	cfg := pkgerrors.NewConfigError("drive", "folder id not set", nil)
	assert.Equal(t, "configuration error in drive: folder id not set", cfg.Error())
}

func TestWrapCanceled(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapCanceled("sync", nil))

	err := pkgerrors.WrapCanceled("sync", context.DeadlineExceeded)
	assert.True(t, pkgerrors.IsCanceled(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "sync: operation canceled: context deadline exceeded", err.Error())

	wrapped := pkgerrors.NewSyncError("drive", "a_front.png", err)
	assert.True(t, pkgerrors.IsCanceled(wrapped))
}

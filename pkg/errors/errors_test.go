package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/sizer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("model", "org/missing")
	assert.Equal(t, "model org/missing not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.False(t, pkgerrors.IsGated(err))

	wrapped := errors.Join(errors.New("lookup failed"), err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestGatedAccessError(t *testing.T) {
	err := pkgerrors.NewGatedAccessError("meta-llama/Llama-3.1-405B", 403)
	assert.Contains(t, err.Error(), "meta-llama/Llama-3.1-405B")
	assert.Contains(t, err.Error(), "403")
	assert.True(t, pkgerrors.IsGated(err))
	assert.False(t, pkgerrors.IsTransient(err))
}

func TestTransientFetchError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := pkgerrors.NewTransientFetchError("org/m", "https://hub/org/m", 502, nil)
		assert.Equal(t, "fetch org/m from https://hub/org/m: status 502", err.Error())
		assert.True(t, pkgerrors.IsTransient(err))
	})

	t.Run("with wrapped error", func(t *testing.T) {
		base := errors.New("connection reset")
		err := pkgerrors.NewTransientFetchError("org/m", "https://hub/org/m", 0, base)
		assert.Contains(t, err.Error(), "connection reset")
		assert.ErrorIs(t, err, base)
		assert.True(t, pkgerrors.IsTransient(fmt.Errorf("derive: %w", err)))
	})
}

func TestMalformedArtifactError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.NewMalformedArtifactError("staging.json", base)
	assert.Contains(t, err.Error(), "staging.json")
	assert.True(t, pkgerrors.IsMalformedArtifact(err))
	assert.ErrorIs(t, err, base)
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ValidationError
		want string
	}{
		{
			name: "identity and field",
			err:  pkgerrors.NewValidationError("X", "moe_active_ratio", 1.5, "must be within [0, 1]"),
			want: "validation failed for X field moe_active_ratio: must be within [0, 1]",
		},
		{
			name: "field only",
			err:  &pkgerrors.ValidationError{Field: "layers", Message: "must be non-negative"},
			want: "validation failed for field layers: must be non-negative",
		},
		{
			name: "message only",
			err:  &pkgerrors.ValidationError{Message: "empty record"},
			want: "validation failed: empty record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, pkgerrors.IsValidationError(tt.err))
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("write", "out.json", nil))
	assert.Nil(t, pkgerrors.WrapParse("json", "out.json", nil))

	base := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "out.json", base)
	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Operation)
	assert.Equal(t, "IO error during write of out.json: disk full", err.Error())

	perr := pkgerrors.WrapParse("yaml", "catalog.yaml", base)
	assert.Equal(t, "parse error in yaml file catalog.yaml: disk full", perr.Error())
	assert.ErrorIs(t, perr, base)
}

func TestConfigError(t *testing.T) {
	err := &pkgerrors.ConfigError{Component: "derive", Message: "concurrency must be positive"}
	assert.Equal(t, "configuration error in derive: concurrency must be positive", err.Error())
}

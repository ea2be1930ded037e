package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	var v Validator
	require.NoError(t, v.Err())

	v.Positive("timeout", 0)
	v.Positive("ok", 1)
	v.NonNegative("retries", -1)
	v.NonNegative("zero", 0)
	v.OneOf("format", "xml", "json", "text")
	v.OneOf("level", "INFO", "debug", "info")

	err := v.Err()
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "timeout", ve.Field)

	msg := err.Error()
	assert.Contains(t, msg, "validation error for field 'timeout': must be positive")
	assert.Contains(t, msg, "validation error for field 'retries': must not be negative")
	assert.Contains(t, msg, "validation error for field 'format': must be one of json, text")
	assert.NotContains(t, msg, "'level'")
	assert.NotContains(t, msg, "'ok'")
}

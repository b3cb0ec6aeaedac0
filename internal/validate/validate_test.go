// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid http", "http://example.com", false},
		{"valid https with path", "https://example.com/api", false},
		{"empty", "", true},
		{"no host", "http://", true},
		{"bad scheme", "ftp://example.com", true},
		{"no scheme", "example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("url", tt.value, []string{"http", "https"})
			assert.Equal(t, tt.wantErr, !v.IsValid(), "err: %v", v.Err())
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	for addr, ok := range map[string]bool{
		"127.0.0.1:8730": true,
		":8730":          true,
		"localhost:0":    true,
		"8730":           false,
		"host:99999":     false,
		"host:http":      false,
	} {
		v := New()
		v.ListenAddr("listen", addr)
		assert.Equal(t, ok, v.IsValid(), addr)
	}
}

func TestValidator_Ranges(t *testing.T) {
	v := New()
	v.Range("attempts", 3, 1, 10)
	v.FloatRange("rate", 0.5, 0, 1)
	v.DurationRange("interval", time.Minute, time.Second, time.Hour)
	require.NoError(t, v.Err())

	v.Range("attempts", 0, 1, 10)
	v.FloatRange("rate", 1.5, 0, 1)
	v.DurationRange("interval", time.Millisecond, time.Second, time.Hour)
	err := v.Err()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Errors()))
	for _, e := range verr.Errors() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"attempts", "rate", "interval"}, fields)
	assert.Contains(t, err.Error(), "; ")
}

func TestValidator_OneOfAndNotEmpty(t *testing.T) {
	v := New()
	v.OneOf("backend", "sqlite", []string{"sqlite", "redis"})
	v.NotEmpty("user", "u1")
	require.NoError(t, v.Err())

	v.OneOf("backend", "mysql", []string{"sqlite", "redis"})
	v.NotEmpty("user", "   ")
	assert.Len(t, v.Err().(ValidationError).Errors(), 2)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, level)

	_, err = ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

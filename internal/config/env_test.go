// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("RAKSHAK_T_STR", "hello")
	t.Setenv("RAKSHAK_T_EMPTY", "")
	t.Setenv("RAKSHAK_T_INT", "42")
	t.Setenv("RAKSHAK_T_BADINT", "forty")
	t.Setenv("RAKSHAK_T_DUR", "90s")
	t.Setenv("RAKSHAK_T_BADDUR", "soon")
	t.Setenv("RAKSHAK_T_BOOL", "YES")
	t.Setenv("RAKSHAK_T_BADBOOL", "maybe")
	t.Setenv("RAKSHAK_T_FLOAT", "28.61")

	assert.Equal(t, "hello", ParseString("RAKSHAK_T_STR", "d"))
	assert.Equal(t, "d", ParseString("RAKSHAK_T_EMPTY", "d"))
	assert.Equal(t, "d", ParseString("RAKSHAK_T_UNSET", "d"))

	assert.Equal(t, 42, ParseInt("RAKSHAK_T_INT", 1))
	assert.Equal(t, 1, ParseInt("RAKSHAK_T_BADINT", 1))

	assert.Equal(t, 90*time.Second, ParseDuration("RAKSHAK_T_DUR", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("RAKSHAK_T_BADDUR", time.Minute))

	assert.True(t, ParseBool("RAKSHAK_T_BOOL", false))
	assert.False(t, ParseBool("RAKSHAK_T_BADBOOL", false))

	assert.InDelta(t, 28.61, ParseFloat("RAKSHAK_T_FLOAT", 0), 1e-9)
	assert.InDelta(t, 1.5, ParseFloat("RAKSHAK_T_UNSET", 1.5), 1e-9)
}

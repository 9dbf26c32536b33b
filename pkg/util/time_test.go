package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"1h", time.Hour},
		{"45s", 45 * time.Second},
		{"2d", 48 * time.Hour},
		{"90", 90 * time.Second},
		{" 10m ", 10 * time.Minute},
	}

	for _, c := range cases {
		got, err := ParseDuration(c.input)
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "xd"} {
		_, err := ParseDuration(input)
		assert.Error(t, err, "input %q", input)
	}
}

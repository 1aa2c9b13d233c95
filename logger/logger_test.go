package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "console default", cfg: Config{}},
		{name: "json debug", cfg: Config{JSON: true, Level: "debug"}},
		{name: "console warn", cfg: Config{Level: "WARN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("error")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)

	_, err = ParseLevel("loud")
	assert.True(t, errors.Is(err, ErrBadLevel))

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}

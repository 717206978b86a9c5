package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	l, err := CommonLogger(&Config{
		Name:   "tests",
		Level:  slog.LevelInfo,
		Writer: buf,
	})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("visible", slog.String(KeyGuild, "123"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "visible", got["msg"])
	require.Equal(t, "tests", got[KeyApp])
	require.Equal(t, "123", got[KeyGuild])
}

func TestCommonLogger_NilConfig(t *testing.T) {
	_, err := CommonLogger(nil)
	require.Error(t, err)
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, levelFromString(tt.in))
		})
	}
}

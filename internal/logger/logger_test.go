package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Info().Str("window", "month").Msg("summary built")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "summary built", entry["message"])
	assert.Equal(t, "month", entry["window"])
	assert.Contains(t, entry, "time")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, New(Options{Level: "warn"}).GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	l := FromContext(ctx)
	l.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_Missing(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := WithFields(NewWithWriter(buf), map[string]any{"account_id": "acc-1", "attempt": 2})
	l.Info().Msg("refresh")

	out := buf.String()
	assert.Contains(t, out, `"account_id":"acc-1"`)
	assert.Contains(t, out, `"attempt":2`)
}

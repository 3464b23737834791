package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ComponentFields(t *testing.T) {
	buf := new(bytes.Buffer)
	root, err := New(Conf{Level: "debug", Format: FormatJSON}, buf)
	require.NoError(t, err)

	root.NewLogger("transport", "abc").Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transport", entry["component"])
	assert.Equal(t, "abc", entry["instance"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	buf := new(bytes.Buffer)
	root, err := New(Conf{Level: "warn"}, buf)
	require.NoError(t, err)

	root.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
	root.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_RejectsBadConf(t *testing.T) {
	_, err := New(Conf{Level: "loud"}, new(bytes.Buffer))
	assert.Error(t, err)

	_, err = New(Conf{Format: "xml"}, new(bytes.Buffer))
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	root, err := New(DefaultConf(), buf)
	require.NoError(t, err)

	ctx := root.NewLogger("dispatch", "1").WithContext(context.Background())
	FromContext(ctx).Info().Str("request_id", "7").Msg("call")
	assert.Contains(t, buf.String(), `"request_id":"7"`)

	// a bare context yields a disabled logger instead of panicking
	FromContext(context.Background()).Info().Msg("nowhere")
}

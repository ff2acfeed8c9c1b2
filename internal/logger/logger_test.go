package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatFromEnvironment(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf, Environment: "production"}).Info("catalog written", "products", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "catalog written", line["msg"])
	assert.Equal(t, float64(3), line["products"])

	buf.Reset()
	New(Config{Writer: &buf, Environment: "development", NoColor: true}).Info("catalog written", "products", 3)
	assert.Contains(t, buf.String(), "INF catalog written products=3")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))

	assert.True(t, ValidLevel("warn"))
	assert.False(t, ValidLevel("verbose"))
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatPretty, Level: slog.LevelWarn, NoColor: true})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN shown")
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil, false)
	log := slog.New(h).With("component", "sync").WithGroup("run")

	log.Info("variant stored", "index", 2, slog.Group("product", "id", "boca-1"))

	out := buf.String()
	assert.Contains(t, out, "component=sync")
	assert.Contains(t, out, "run.index=2")
	assert.Contains(t, out, "run.product.id=boca-1")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_QuotesStringsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil, false)).Info("x", "name", "Boca Juniors")

	assert.Contains(t, buf.String(), `name="Boca Juniors"`)
}

func TestPrettyHandler_Color(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil, true)).Error("boom", "error", "disk full")

	assert.Contains(t, buf.String(), ansiRed+"ERR"+ansiReset)
	assert.Contains(t, buf.String(), ansiRed+"error=\"disk full\""+ansiReset)
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON})

	log.Component("store").Info("catalog loaded", "products", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, float64(2), line["products"])
}

package observability

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codec8.log")
	lg := NewLogger(LogConfig{Level: "debug", File: path})
	lg.Debug("frame decoded", "imei", "356307042441013")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"imei":"356307042441013"`)
}

func TestMetricsHandler(t *testing.T) {
	FramesDecoded.Inc()
	DecodeErrors.WithLabelValues("truncated").Inc()

	srv := httptest.NewServer(MetricsHandler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "ok", string(body))

	res, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.True(t, strings.Contains(string(body), "codec8_frames_decoded_total"))
	assert.Contains(t, string(body), `codec8_decode_errors_total{kind="truncated"} 1`)
}

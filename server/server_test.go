package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loov.dev/recordview/host"
	"loov.dev/recordview/render"
	"loov.dev/recordview/server"
	"loov.dev/recordview/trace"
)

const fixture = "../import/trulens/testdata/record.json"

func init() { gin.SetMode(gin.TestMode) }

func newServer(t *testing.T) (*server.Server, *host.Hub, *httptest.Server) {
	t.Helper()
	hub := host.NewHub(nil, 4)
	srv := server.New(nil, hub)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return srv, hub, ts
}

func renderBody(t *testing.T) []byte {
	t.Helper()
	record, err := os.ReadFile(fixture)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"record_json": json.RawMessage(record),
		"app_json":    map[string]string{"app_id": "rag"},
	})
	require.NoError(t, err)
	return body
}

func post(t *testing.T, url string, body []byte) (int, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealthz(t *testing.T) {
	_, _, ts := newServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCurrentBeforeRender(t *testing.T) {
	_, _, ts := newServer(t)

	resp, err := http.Get(ts.URL + "/api/current")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	status, _ := post(t, ts.URL+"/api/select", []byte(`{"node_id":"root-root-root"}`))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRenderAndSelect(t *testing.T) {
	srv, hub, ts := newServer(t)

	status, data := post(t, ts.URL+"/api/render", renderBody(t))
	require.Equal(t, http.StatusOK, status, string(data))

	var view render.View
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, trace.RootID, view.Tree.ID)
	assert.Equal(t, "rag", view.Tree.Name)
	assert.Equal(t, 5, view.Nodes)
	assert.Len(t, view.Layout, 4)
	require.NotNil(t, srv.Current())

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/selection", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)

	target := view.Layout[len(view.Layout)-1]
	status, data = post(t, ts.URL+"/api/select", []byte(`{"node_id":"`+string(target.ID)+`"}`))
	require.Equal(t, http.StatusAccepted, status, string(data))

	var selected struct {
		Timestamp string `json:"timestamp"`
		Selector  string `json:"selector"`
	}
	require.NoError(t, json.Unmarshal(data, &selected))
	assert.NotEmpty(t, selected.Timestamp)
	assert.True(t, strings.HasPrefix(selected.Selector, "Select.Record"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var pushed host.Selection
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, selected.Timestamp, pushed.Timestamp)
}

func TestSelectUnknownNode(t *testing.T) {
	_, _, ts := newServer(t)

	status, _ := post(t, ts.URL+"/api/render", renderBody(t))
	require.Equal(t, http.StatusOK, status)

	status, _ = post(t, ts.URL+"/api/select", []byte(`{"node_id":"nope"}`))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = post(t, ts.URL+"/api/select", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRenderInvalid(t *testing.T) {
	_, _, ts := newServer(t)

	status, _ := post(t, ts.URL+"/api/render", []byte(`{"app_json":{"app_id":"rag"}}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = post(t, ts.URL+"/api/render", []byte(`{"record_json": 5}`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoadFile(t *testing.T) {
	srv, _, _ := newServer(t)

	require.NoError(t, srv.LoadFile(t.Context(), fixture, render.Trulens, "rag"))
	require.NotNil(t, srv.Current())
	assert.Equal(t, "rag", srv.Current().Tree.Root.Class)

	err := srv.LoadFile(t.Context(), filepath.Join(t.TempDir(), "missing.json"), render.Trulens, "rag")
	require.Error(t, err)
}

func TestMetrics(t *testing.T) {
	_, _, ts := newServer(t)

	status, _ := post(t, ts.URL+"/api/render", renderBody(t))
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `recordview_renders_total{source="http"}`)
	assert.Contains(t, string(data), "recordview_render_duration_seconds")
}

func TestHandlerGinMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })
	hub := host.NewHub(nil, 1)
	defer hub.Close()

	gin.SetMode(gin.DebugMode)
	info := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	server.New(info, hub).Handler()
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	gin.SetMode(gin.DebugMode)
	debug := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	server.New(debug, hub).Handler()
	assert.Equal(t, gin.DebugMode, gin.Mode())

	gin.SetMode(gin.TestMode)
	server.New(info, hub).Handler()
	assert.Equal(t, gin.TestMode, gin.Mode())
}

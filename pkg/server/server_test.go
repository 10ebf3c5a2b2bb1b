package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rfdraw/pkg/observability"
	"github.com/matzehuels/rfdraw/pkg/pipeline"
	"github.com/matzehuels/rfdraw/pkg/renderer"
	"github.com/matzehuels/rfdraw/pkg/style"
)

const stubEnv = "RFDRAW_STUB_RENDERER"

func TestMain(m *testing.M) {
	switch os.Getenv(stubEnv) {
	case "":
		os.Exit(m.Run())
	case "ok":
		for i, arg := range os.Args {
			if arg == "-o" && i+1 < len(os.Args) {
				_ = os.WriteFile(os.Args[i+1], []byte("stub image"), 0644)
			}
		}
		os.Exit(0)
	default:
		fmt.Fprint(os.Stderr, "Error: bad graph\n")
		os.Exit(1)
	}
}

type stubLocator struct {
	path string
	err  error
}

func (l stubLocator) Locate() (string, error) { return l.path, l.err }

func fakeLocator() *renderer.Locator {
	return &renderer.Locator{
		Env:      renderer.Env{Family: renderer.FamilyOther, Packaging: renderer.Source, Anchor: "/src"},
		Stat:     func(name string) (fs.FileInfo, error) { return nil, nil },
		LookPath: func(string) (string, error) { return "/usr/bin/dot", nil },
	}
}

func setupServer(t *testing.T, mode string, loc renderer.ExecutableLocator) http.Handler {
	t.Helper()
	if loc == nil {
		t.Setenv(stubEnv, mode)
		exe, err := os.Executable()
		require.NoError(t, err)
		loc = stubLocator{path: exe}
	}
	runner := pipeline.NewRunner(
		pipeline.WithStyle(style.Default()),
		pipeline.WithInvoker(&renderer.Invoker{Engine: &renderer.ExecEngine{Locator: loc}}),
	)
	srv, err := New(Options{
		Runner:  runner,
		Locator: fakeLocator(),
		Metrics: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	})
	require.NoError(t, err)
	return srv.Handler()
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "risk.json")
	body := `{"Nodes":[{"NodeID":"H1","Label":"Flood","Category":"Hazard"}],"Edges":[{"FromNode":"H1","ToNode":"H1"}]}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	h := setupServer(t, "ok", nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := setupServer(t, "ok", nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestExport(t *testing.T) {
	h := setupServer(t, "ok", nil)
	input := writeWorkbook(t)

	w := post(t, h, "/v1/export", ExportRequest{Input: input})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res renderer.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, filepath.Join(filepath.Dir(input), "risk.dot"), res.DescriptionPath)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "risk.png"), res.ImagePath)
	assert.FileExists(t, res.ImagePath)
}

func TestExportOutputDir(t *testing.T) {
	h := setupServer(t, "ok", nil)
	out := filepath.Join(t.TempDir(), "out")

	w := post(t, h, "/v1/export", ExportRequest{Input: writeWorkbook(t), OutputDir: out})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.FileExists(t, filepath.Join(out, "risk.dot"))
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		loc    renderer.ExecutableLocator
		body   any
		status int
		code   string
	}{
		{
			name:   "missing input",
			mode:   "ok",
			body:   map[string]string{},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "unknown field",
			mode:   "ok",
			body:   map[string]string{"input": "a.xlsx", "format": "png"},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "unsupported extension",
			mode:   "ok",
			body:   ExportRequest{Input: "/tmp/model.csv"},
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name:   "missing workbook",
			mode:   "ok",
			body:   ExportRequest{Input: "/nonexistent/model.xlsx"},
			status: http.StatusUnprocessableEntity,
			code:   "DATA_SOURCE",
		},
		{
			name: "renderer not found",
			loc: stubLocator{err: &renderer.ExecutableNotFoundError{
				Env:      renderer.Env{Family: renderer.FamilyOther, Packaging: renderer.Source},
				Searched: []renderer.Candidate{{Path: "dot", Intent: "system PATH: dot"}},
			}},
			status: http.StatusServiceUnavailable,
			code:   "EXECUTABLE_NOT_FOUND",
		},
		{
			name:   "renderer fails",
			mode:   "fail",
			status: http.StatusInternalServerError,
			code:   "RENDER_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupServer(t, tt.mode, tt.loc)
			body := tt.body
			if body == nil {
				body = ExportRequest{Input: writeWorkbook(t)}
			}

			w := post(t, h, "/v1/export", body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestExportRenderFailureDetail(t *testing.T) {
	h := setupServer(t, "fail", nil)
	w := post(t, h, "/v1/export", ExportRequest{Input: writeWorkbook(t)})

	resp := decodeError(t, w)
	assert.Equal(t, "graphviz exited with code 1", resp.Message)
	assert.Contains(t, resp.Detail, "Error: bad graph")
}

func TestCompile(t *testing.T) {
	h := setupServer(t, "ok", nil)
	w := post(t, h, "/v1/compile", ExportRequest{Input: writeWorkbook(t)})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/vnd.graphviz"))
	assert.Contains(t, w.Body.String(), `H1 [label="Flood" style="filled" fillcolor="#AECBFA"];`)
	assert.Contains(t, w.Body.String(), "    H1 -> H1;")
}

func TestLocate(t *testing.T) {
	h := setupServer(t, "ok", nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/locate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp LocateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "other", resp.Platform)
	assert.Equal(t, "source", resp.Packaging)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "/usr/bin/dot", resp.Resolved)
}

func TestMetrics(t *testing.T) {
	h := setupServer(t, "ok", nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

type routeRecorder struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (h *routeRecorder) OnResponse(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

func TestResponseRouteLabel(t *testing.T) {
	rec := &routeRecorder{}
	observability.SetServerHooks(rec)
	t.Cleanup(observability.Reset)

	h := setupServer(t, "ok", nil)
	for _, path := range []string{"/healthz", "/a1", "/b2/c3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"/healthz", unmatchedRoute, unmatchedRoute}, rec.routes)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor("DATA_SOURCE"))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor("EXECUTABLE_NOT_FOUND"))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("RENDER_FAILED"))
	assert.Equal(t, http.StatusNotFound, StatusFor("FILE_NOT_FOUND"))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(""))
}

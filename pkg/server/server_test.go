package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenegraph/pkg/cache"
	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/pipeline"
	"github.com/matzehuels/scenegraph/pkg/storage"
)

const demoDoc = `{
  "root": "root",
  "nodes": [
    {"id": "grandchild", "parent": "child1", "x": 0.5, "y": 0.5, "rotation": 45},
    {"id": "child1", "parent": "root", "x": 1, "y": 0, "rotation": 30},
    {"id": "child2", "parent": "root", "x": 0, "y": 2, "rotation": -15}
  ]
}`

type recordedRequest struct {
	method, route string
	status        int
}

type recordingHTTPHooks struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}
func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, recordedRequest{method, route, status})
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Repository == nil {
		cfg.Repository = storage.NewMemoryRepository()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func checkGlobals(t *testing.T, got GlobalsResponse) {
	t.Helper()
	want := map[string][3]float64{
		"root":       {0, 0, 0},
		"child1":     {1, 0, 30},
		"child2":     {0, 2, -15},
		"grandchild": {1.5, 0.5, 75},
	}
	if got.Root != "root" || len(got.Globals) != len(want) {
		t.Fatalf("globals = %+v", got)
	}
	for _, g := range got.Globals {
		w := want[g.ID]
		if g.X != w[0] || g.Y != w[1] || g.Rotation != w[2] {
			t.Errorf("%s = (%g, %g, %g), want %v", g.ID, g.X, g.Y, g.Rotation, w)
		}
	}
	if got.Globals[0].ID != "child1" {
		t.Errorf("globals should be sorted by ID, first is %s", got.Globals[0].ID)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestComputeGlobals(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, ts.URL+"/v1/globals", demoDoc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	checkGlobals(t, decode[GlobalsResponse](t, resp))
}

func TestComputeGlobalsErrors(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name   string
		body   string
		status int
		code   scerrors.Code
	}{
		{"malformed", `{"root":`, http.StatusBadRequest, scerrors.ErrCodeInvalidFormat},
		{"unknown field", `{"root":"r","extra":1}`, http.StatusBadRequest, scerrors.ErrCodeInvalidFormat},
		{"missing parent", `{"root":"r","nodes":[{"id":"a","parent":"ghost"}]}`, http.StatusUnprocessableEntity, scerrors.ErrCodeMissingParent},
		{"duplicate", `{"root":"r","nodes":[{"id":"a","parent":"r"},{"id":"a","parent":"r"}]}`, http.StatusConflict, scerrors.ErrCodeDuplicateNode},
		{"cycle", `{"root":"r","nodes":[{"id":"a","parent":"b"},{"id":"b","parent":"a"}]}`, http.StatusUnprocessableEntity, scerrors.ErrCodeCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/globals", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decode[ErrorResponse](t, resp); e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

func TestSceneLifecycle(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/scenes", `{"name":"demo","document":`+demoDoc+`}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	rec := decode[storage.Record](t, resp)
	if rec.ID == "" || rec.Name != "demo" {
		t.Fatalf("created record = %+v", rec)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/scenes/"+rec.ID {
		t.Errorf("Location = %q", loc)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/scenes", "")
	if list := decode[[]storage.Record](t, resp); len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("list = %+v", list)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/scenes/"+rec.ID, "")
	if got := decode[storage.Record](t, resp); len(got.Document.Nodes) != 3 {
		t.Errorf("get = %+v", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/scenes/"+rec.ID+"/globals", "")
	checkGlobals(t, decode[GlobalsResponse](t, resp))

	resp = do(t, http.MethodGet, ts.URL+"/v1/scenes/"+rec.ID+"/dot?detailed=true", "")
	dot, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(dot), `"child1" -> "grandchild"`) || !strings.Contains(string(dot), "global:") {
		t.Errorf("dot = %s", dot)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/v1/scenes/"+rec.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/v1/scenes/"+rec.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
	if e := decode[ErrorResponse](t, resp); e.Code != scerrors.ErrCodeSceneNotFound {
		t.Errorf("code = %s", e.Code)
	}
}

func TestCreateSceneRejectsUnbuildable(t *testing.T) {
	repo := storage.NewMemoryRepository()
	ts := newTestServer(t, Config{Repository: repo})

	resp := do(t, http.MethodPost, ts.URL+"/v1/scenes", `{"document":{"root":"r","nodes":[{"id":"a","parent":"nope"}]}}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if list, _ := repo.List(context.Background()); len(list) != 0 {
		t.Error("unbuildable scene should not be stored")
	}
}

func TestCreateSceneWithID(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/scenes", `{"id":"robot-arm","document":`+demoDoc+`}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, ts.URL+"/v1/scenes", `{"id":"../etc","document":`+demoDoc+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid id status = %d", resp.StatusCode)
	}
}

func TestRenderThroughCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, cache.Scoped("api:"), log.New(io.Discard))
	ts := newTestServer(t, Config{Runner: runner})

	resp := do(t, http.MethodPost, ts.URL+"/v1/scenes", `{"id":"demo","document":`+demoDoc+`}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	first := do(t, http.MethodGet, ts.URL+"/v1/scenes/demo/render?format=DOT", "")
	if first.StatusCode != http.StatusOK || first.Header.Get("X-Cache") != "MISS" {
		t.Fatalf("first render: status %d, X-Cache %q", first.StatusCode, first.Header.Get("X-Cache"))
	}
	if ct := first.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	second := do(t, http.MethodGet, ts.URL+"/v1/scenes/demo/render?format=dot", "")
	if second.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second render X-Cache = %q", second.Header.Get("X-Cache"))
	}
	if first.Header.Get("ETag") != second.Header.Get("ETag") {
		t.Error("ETag should be stable for an unchanged scene")
	}

	bad := do(t, http.MethodGet, ts.URL+"/v1/scenes/demo/render?format=gif", "")
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported format status = %d", bad.StatusCode)
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 16})
	resp := do(t, http.MethodPost, ts.URL+"/v1/globals", demoDoc)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestHTTPHooksUseRoutePattern(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	ts := newTestServer(t, Config{HTTPHooks: hooks})

	do(t, http.MethodGet, ts.URL+"/v1/scenes/abc/globals", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.seen) != 1 {
		t.Fatalf("hooks saw %d requests", len(hooks.seen))
	}
	got := hooks.seen[0]
	if got.route != "/v1/scenes/{id}/globals" || got.status != http.StatusNotFound {
		t.Errorf("hook saw %+v", got)
	}
}

func TestNewRequiresRepository(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New without repository should fail")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code scerrors.Code
		want int
	}{
		{scerrors.ErrCodeInvalidInput, http.StatusBadRequest},
		{scerrors.ErrCodeMissingParent, http.StatusUnprocessableEntity},
		{scerrors.ErrCodeDuplicateNode, http.StatusConflict},
		{scerrors.ErrCodeSceneNotFound, http.StatusNotFound},
		{scerrors.ErrCodeUnsupported, http.StatusNotImplemented},
		{scerrors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

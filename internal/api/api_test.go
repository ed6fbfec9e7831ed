package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowschem/pkg/cache"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

const plant = `@layout
[boiler][turbine]

@nodes
boiler-1
Burner/gas > Drum
boiler-2
Drum > Turbine
turbine-1
Turbine
`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	cfg.Logger = logger
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	ts := httptest.NewServer(New(runner, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if strings.TrimSpace(string(body)) != `{"status":"ok"}` {
		t.Errorf("body = %s", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRenderID)); err != nil {
		t.Errorf("%s = %q, want a UUID", HeaderRenderID, resp.Header.Get(HeaderRenderID))
	}
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, body := do(t, http.MethodGet, ts.URL+"/v1/version", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var info map[string]string
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("version info = %v", info)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/layout", "text/plain", plant)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	l, err := graph.UnmarshalLayout(body)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if l.ID != resp.Header.Get(HeaderRenderID) {
		t.Errorf("layout ID = %q, want the render ID %q", l.ID, resp.Header.Get(HeaderRenderID))
	}
	if len(l.Nodes) != 3 || len(l.Wires) != 2 {
		t.Errorf("layout has %d nodes and %d wires, want 3 and 2", len(l.Nodes), len(l.Wires))
	}
	if got := resp.Header.Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderCache, got)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/layout", "text/plain", plant)
	if got := resp.Header.Get(HeaderCache); got != "hit" {
		t.Errorf("second %s = %q, want hit", HeaderCache, got)
	}
}

func TestLayoutJSONBody(t *testing.T) {
	ts := newTestServer(t, Config{})
	req, _ := json.Marshal(map[string]any{
		"source": plant,
		"style":  map[string]any{"theme": "warm", "node-min-width": 200, "font-weight": 400},
	})
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/layout", "application/json; charset=utf-8", string(req))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	l, err := graph.UnmarshalLayout(body)
	if err != nil {
		t.Fatal(err)
	}
	if l.Theme != "warm" {
		t.Errorf("Theme = %q, want warm", l.Theme)
	}
	for _, n := range l.Nodes {
		if n.Width < 200 {
			t.Errorf("node %s width = %v, want at least 200", n.ID, n.Width)
		}
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, Config{})
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"", "image/svg+xml", "<svg"},
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", "{"},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			url := ts.URL + "/v1/render"
			if tt.format != "" {
				url += "?format=" + tt.format
			}
			resp, body := do(t, http.MethodPost, url, "", plant)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.HasPrefix(string(body), tt.prefix) {
				t.Errorf("body = %.40q, want prefix %q", body, tt.prefix)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 256})
	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		status      int
		code        fserr.Code
	}{
		{"bad format", http.MethodPost, "/v1/render?format=gif", "", plant, http.StatusBadRequest, fserr.ErrCodeInvalidFormat},
		{"bad scale", http.MethodPost, "/v1/render?format=png&scale=big", "", plant, http.StatusBadRequest, fserr.ErrCodeInvalidInput},
		{"empty body", http.MethodPost, "/v1/render", "", "", http.StatusBadRequest, fserr.ErrCodeInvalidInput},
		{"empty layout body", http.MethodPost, "/v1/layout", "", " \n", http.StatusBadRequest, fserr.ErrCodeInvalidInput},
		{"bad brackets", http.MethodPost, "/v1/layout", "", "@layout\n[a[b]\n", http.StatusBadRequest, fserr.ErrCodeInvalidLayout},
		{"no layout block", http.MethodPost, "/v1/layout", "", "@nodes\na-1\nX\n", http.StatusBadRequest, fserr.ErrCodeInvalidLayout},
		{"bad json", http.MethodPost, "/v1/layout", "application/json", "{", http.StatusBadRequest, fserr.ErrCodeInvalidInput},
		{"bad style", http.MethodPost, "/v1/layout", "application/json", `{"source":"@layout\n[a]\n","style":{"theme":"neon"}}`, http.StatusBadRequest, fserr.ErrCodeInvalidStyle},
		{"too large", http.MethodPost, "/v1/layout", "", strings.Repeat("#", 1024), http.StatusRequestEntityTooLarge, fserr.ErrCodeTooLarge},
		{"unknown route", http.MethodGet, "/v1/nothing", "", "", http.StatusNotFound, fserr.ErrCodeNotFound},
		{"wrong method", http.MethodGet, "/v1/layout", "", "", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			var e errorBody
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("error body %s: %v", body, err)
			}
			if e.Code != tt.code || e.Message == "" {
				t.Errorf("error = %+v, want code %s with a message", e, tt.code)
			}
			if resp.Header.Get(HeaderRenderID) == "" {
				t.Errorf("missing %s on error response", HeaderRenderID)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, Config{AllowedOrigins: []string{"https://example.com"}})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/render", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want https://example.com", got)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin without Origin = %q, want empty", got)
	}
}

func TestEncodeStyle(t *testing.T) {
	data, err := encodeStyle(map[string]any{"font-weight": float64(400), "line-thickness": 1.5, "uppercase": false})
	if err != nil {
		t.Fatalf("encodeStyle() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{"font-weight = 400", "line-thickness = 1.5", "uppercase = false"} {
		if !strings.Contains(s, want) {
			t.Errorf("encodeStyle() = %q, missing %q", s, want)
		}
	}
}

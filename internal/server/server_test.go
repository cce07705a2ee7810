package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

const testGraph = `{
  "nodes": [
    {"id": "a", "category": "module", "fx": 400, "fy": 300},
    {"id": "b", "category": "contact", "x": 550, "y": 300}
  ],
  "edges": [{"source": "a", "target": "b"}]
}`

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := New(opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
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
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func createView(t *testing.T, base string) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, base+"/views", "application/json", testGraph)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /views status = %d, body %s", resp.StatusCode, body)
	}
	var out createResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Nodes != 2 || out.Edges != 1 {
		t.Errorf("created nodes/edges = %d/%d, want 2/1", out.Nodes, out.Edges)
	}
	return out.ID
}

func TestCreateView(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	id := createView(t, ts.URL)
	if id == "" {
		t.Fatal("empty view id")
	}
	if s.Views() != 1 {
		t.Errorf("Views() = %d, want 1", s.Views())
	}
}

func TestCreateViewErrors(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"malformed json", "", "application/json", `{"nodes": [`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"duplicate ids", "", "application/json", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad width", "?width=-3", "application/json", testGraph, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown format", "?format=xml", "", testGraph, http.StatusUnsupportedMediaType, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/views"+tt.query, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			var e errorBody
			_ = json.Unmarshal(body, &e)
			if e.Error != tt.code {
				t.Errorf("error code = %q, want %q", e.Error, tt.code)
			}
		})
	}
}

func TestCreateViewYAML(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	doc := "nodes:\n  - id: a\n  - id: b\nedges:\n  - source: a\n    target: b\n"
	resp, body := do(t, http.MethodPost, ts.URL+"/views?width=320&height=240", "application/yaml", doc)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var out createResponse
	_ = json.Unmarshal(body, &out)
	if out.Width != 320 || out.Height != 240 {
		t.Errorf("canvas = %dx%d, want 320x240", out.Width, out.Height)
	}
}

func TestMaxViews(t *testing.T) {
	_, ts := newTestServer(t, Options{MaxViews: 1})
	createView(t, ts.URL)
	resp, _ := do(t, http.MethodPost, ts.URL+"/views", "application/json", testGraph)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestFrames(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	id := createView(t, ts.URL)

	resp, body := do(t, http.MethodGet, ts.URL+"/views/"+id+"/frame.svg", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame.svg status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q", got)
	}
	if !bytes.HasPrefix(body, []byte("<svg")) || !bytes.Contains(body, []byte("<circle")) {
		t.Errorf("frame.svg is not a drawn svg document: %.80s", body)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/views/"+id+"/frame.png", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame.png status = %d", resp.StatusCode)
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("frame.png is not a PNG")
	}
}

func TestPointerClickEvents(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	id := createView(t, ts.URL)
	base := ts.URL + "/views/" + id

	for _, ev := range []string{
		`{"type": "move", "x": 400, "y": 300}`,
		`{"type": "down", "x": 400, "y": 300}`,
		`{"type": "up", "x": 400, "y": 300}`,
	} {
		resp, body := do(t, http.MethodPost, base+"/pointer", "application/json", ev)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("pointer %s status = %d, body %s", ev, resp.StatusCode, body)
		}
	}

	resp, body := do(t, http.MethodGet, base+"/events", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events status = %d", resp.StatusCode)
	}
	var out struct{ Events []Event }
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	var clicks, hovers int
	for _, e := range out.Events {
		switch e.Type {
		case "click":
			clicks++
			if e.Node != "a" {
				t.Errorf("click node = %q, want a", e.Node)
			}
		case "hover":
			hovers++
		}
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1 (events %+v)", clicks, out.Events)
	}
	if hovers == 0 {
		t.Error("no hover event recorded")
	}

	// Events are drained.
	_, body = do(t, http.MethodGet, base+"/events", "", "")
	if !strings.Contains(string(body), `"events":[]`) {
		t.Errorf("second events call = %s, want empty", body)
	}
}

func TestInputErrors(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	id := createView(t, ts.URL)
	base := ts.URL + "/views/" + id

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown pointer type", "/pointer", `{"type": "tap"}`, http.StatusBadRequest},
		{"bad pointer json", "/pointer", `{`, http.StatusBadRequest},
		{"bad wheel json", "/wheel", `nope`, http.StatusBadRequest},
		{"wheel", "/wheel", `{"delta": -1}`, http.StatusNoContent},
		{"leave", "/pointer", `{"type": "leave"}`, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, base+tt.path, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	id := createView(t, ts.URL)

	resp, body := do(t, http.MethodGet, ts.URL+"/views/"+id+"/layout", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout status = %d", resp.StatusCode)
	}
	var layout struct {
		Width float64
		Nodes []struct {
			ID string
			X  *float64
		}
	}
	if err := json.Unmarshal(body, &layout); err != nil {
		t.Fatal(err)
	}
	if layout.Width != 800 || len(layout.Nodes) != 2 {
		t.Errorf("layout width/nodes = %v/%d, want 800/2", layout.Width, len(layout.Nodes))
	}
	if layout.Nodes[0].X == nil || *layout.Nodes[0].X != 400 {
		t.Errorf("pinned node x = %v, want 400", layout.Nodes[0].X)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/views/"+id+"/layout?format=yaml", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "nodes:") {
		t.Errorf("yaml layout = %d %s", resp.StatusCode, body)
	}
}

func TestDeleteView(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	id := createView(t, ts.URL)

	resp, _ := do(t, http.MethodDelete, ts.URL+"/views/"+id, "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}
	if s.Views() != 0 {
		t.Errorf("Views() = %d, want 0", s.Views())
	}

	for _, method := range []string{http.MethodDelete, http.MethodGet} {
		path := "/views/" + id
		if method == http.MethodGet {
			path += "/frame.svg"
		}
		resp, _ := do(t, method, ts.URL+path, "", "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s after delete status = %d, want 404", method, path, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	createView(t, ts.URL)

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"views":1`) {
		t.Errorf("healthz body = %s", body)
	}
}

func TestCloseStopsViews(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	createView(t, ts.URL)
	createView(t, ts.URL)

	s.Close()
	if s.Views() != 0 {
		t.Errorf("Views() after Close = %d, want 0", s.Views())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeClosed, "x"), http.StatusGone},
		{errs.New(errs.ErrCodeUnsupported, "x"), http.StatusUnsupportedMediaType},
		{context.Canceled, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

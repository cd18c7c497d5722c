package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/tablescape/foodweb/pkg/layout"
	"github.com/tablescape/foodweb/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := NewServer(
		testGraph(),
		layout.New(layout.DefaultFrame(), layout.DefaultSeed),
		session.NewMemoryStore(),
		charmlog.New(io.Discard),
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

// newTestClient returns a client that keeps cookies between requests.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeState(t *testing.T, resp *http.Response) stateResponse {
	t.Helper()
	defer resp.Body.Close()
	var st stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestServerStateStartsCollapsed(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp, err := client.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	st := decodeState(t, resp)
	if st.Phase != "collapsed" {
		t.Errorf("phase = %q, want collapsed", st.Phase)
	}
	if st.Visible != 1 {
		t.Errorf("visible = %d, want 1", st.Visible)
	}
}

func TestServerSessionCookie(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp, err := client.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("first request should set the session cookie")
	}
}

func TestServerContinueAdvancesPerSession(t *testing.T) {
	ts := newTestServer(t)
	alice := newTestClient(t)
	bob := newTestClient(t)

	resp := postJSON(t, alice, ts.URL+"/api/continue", nil)
	st := decodeState(t, resp)
	if st.Phase != "stage1" {
		t.Errorf("alice phase = %q, want stage1", st.Phase)
	}

	// Bob's session is untouched by Alice's click.
	resp2, err := bob.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	st2 := decodeState(t, resp2)
	if st2.Phase != "collapsed" {
		t.Errorf("bob phase = %q, want collapsed", st2.Phase)
	}
}

func TestServerClick(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := postJSON(t, client, ts.URL+"/api/click/production", nil)
	st := decodeState(t, resp)
	if st.Focus != "production" {
		t.Errorf("focus = %q, want production", st.Focus)
	}

	resp = postJSON(t, client, ts.URL+"/api/background", nil)
	st = decodeState(t, resp)
	if st.Focus != "" {
		t.Errorf("focus after background = %q, want empty", st.Focus)
	}
}

func TestServerClickUnknownNode(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := postJSON(t, client, ts.URL+"/api/click/nope", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServerMode(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := postJSON(t, client, ts.URL+"/api/mode/regen", nil)
	st := decodeState(t, resp)
	if st.Mode != "regen" {
		t.Errorf("mode = %q, want regen", st.Mode)
	}

	resp = postJSON(t, client, ts.URL+"/api/mode/bogus", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status for bad mode = %d, want 400", resp.StatusCode)
	}
}

func TestServerCategories(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := postJSON(t, client, ts.URL+"/api/categories", map[string]any{"group": "factor"})
	st := decodeState(t, resp)
	if st.Categories["factor"] {
		t.Error("factor should be toggled off")
	}

	resp = postJSON(t, client, ts.URL+"/api/categories", map[string]any{"all": false})
	st = decodeState(t, resp)
	for group, on := range st.Categories {
		if on {
			t.Errorf("category %s still on after all=false", group)
		}
	}

	resp = postJSON(t, client, ts.URL+"/api/categories", map[string]any{"group": "plastics"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status for unknown category = %d, want 400", resp.StatusCode)
	}
}

func TestServerSVG(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp, err := client.Get(ts.URL + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	svg := string(body)
	if !strings.Contains(svg, "<svg") {
		t.Error("response should be an SVG document")
	}
	// Collapsed session: only the environment root is drawn.
	if !strings.Contains(svg, "Environment") {
		t.Error("collapsed SVG should contain the environment root")
	}
	if strings.Contains(svg, "Policy Board") {
		t.Error("collapsed SVG should not contain undisclosed nodes")
	}
}

func TestServerResizeValidation(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := postJSON(t, client, ts.URL+"/api/resize", map[string]float64{"width": -10, "height": 0})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServerDrag(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	// Dragging without focus releases the pin again.
	resp := postJSON(t, client, ts.URL+"/api/drag", map[string]any{"id": "production", "x": 10.0, "y": 20.0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Unknown node is a 404.
	resp = postJSON(t, client, ts.URL+"/api/drag", map[string]any{"id": "nope", "x": 1.0, "y": 2.0})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServerDragPinSurvivesRender(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := postJSON(t, client, ts.URL+"/api/click/production", nil)
	resp.Body.Close()
	resp = postJSON(t, client, ts.URL+"/api/drag", map[string]any{"id": "production", "x": 111.0, "y": 222.0})
	resp.Body.Close()

	svgResp, err := client.Get(ts.URL + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	defer svgResp.Body.Close()
	body, err := io.ReadAll(svgResp.Body)
	if err != nil {
		t.Fatal(err)
	}

	// The dragged focus node renders at its held position, not back at
	// the frame center.
	group := string(body)
	idx := strings.Index(group, `id="node-production"`)
	if idx < 0 {
		t.Fatal("focused node missing from rendered SVG")
	}
	group = group[idx:]
	if end := strings.Index(group, "</g>"); end >= 0 {
		group = group[:end]
	}
	if !strings.Contains(group, `cx="111.0" cy="222.0"`) {
		t.Errorf("dragged node not rendered at its held position:\n%s", group)
	}

	// A fresh session is untouched by the drag.
	other := newTestClient(t)
	resp = postJSON(t, other, ts.URL+"/api/click/production", nil)
	resp.Body.Close()
	otherResp, err := other.Get(ts.URL + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	defer otherResp.Body.Close()
	otherBody, _ := io.ReadAll(otherResp.Body)
	if strings.Contains(string(otherBody), `cx="111.0" cy="222.0"`) {
		t.Error("another session must not see the drag pin")
	}
}

func TestServerHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	cfgpkg "github.com/rubberove/switflake/internal/config"
	"github.com/rubberove/switflake/internal/runtime"
	idsvc "github.com/rubberove/switflake/internal/services/ids"
	pebblestore "github.com/rubberove/switflake/internal/storage/pebble"
	logpkg "github.com/rubberove/switflake/pkg/log"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.NodeID = 12
	cfg.ClaimOwner = "test:1"
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfg,
	})
	if err != nil {
		t.Fatalf("runtime open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	svc := idsvc.New(rt)
	t.Cleanup(svc.Close)

	srv := NewWithService(rt, svc, logpkg.NewLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", resp.StatusCode, body)
	}
}

func TestGenerateAndDecode(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/ids/generate", map[string]int{"count": 3})
	var gen struct {
		IDs []string `json:"ids"`
	}
	decodeBody(t, resp, &gen)
	if resp.StatusCode != http.StatusOK || len(gen.IDs) != 3 {
		t.Fatalf("unexpected generate response: %d %v", resp.StatusCode, gen)
	}

	resp = postJSON(t, ts.URL+"/v1/ids/decode", map[string]string{"id": gen.IDs[0]})
	var dec struct {
		ID     string `json:"id"`
		NodeID uint16 `json:"nodeId"`
	}
	decodeBody(t, resp, &dec)
	if dec.ID != gen.IDs[0] || dec.NodeID != 12 {
		t.Fatalf("unexpected decode response: %+v", dec)
	}
}

func TestGenerateDefaultsToOne(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/v1/ids/generate", map[string]any{})
	var gen struct {
		IDs []string `json:"ids"`
	}
	decodeBody(t, resp, &gen)
	if len(gen.IDs) != 1 {
		t.Fatalf("expected 1 id, got %d", len(gen.IDs))
	}
}

func TestGenerateRejectsOversizedBatch(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/v1/ids/generate", map[string]int{"count": 1 << 20})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDecodeRejectsBadID(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/v1/ids/decode", map[string]string{"id": "not-a-number"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestInspectWithFilter(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/ids/generate", map[string]int{"count": 8})
	var gen struct {
		IDs []string `json:"ids"`
	}
	decodeBody(t, resp, &gen)

	resp = postJSON(t, ts.URL+"/v1/ids/inspect", map[string]any{
		"ids":    gen.IDs,
		"filter": "node == 12",
	})
	var insp struct {
		Results []struct {
			ID      string `json:"id"`
			Counter uint8  `json:"counter"`
		} `json:"results"`
	}
	decodeBody(t, resp, &insp)
	if len(insp.Results) != len(gen.IDs) {
		t.Fatalf("expected all %d to match, got %d", len(gen.IDs), len(insp.Results))
	}

	resp = postJSON(t, ts.URL+"/v1/ids/inspect", map[string]any{
		"ids":    gen.IDs,
		"filter": "node == 13",
	})
	decodeBody(t, resp, &insp)
	if len(insp.Results) != 0 {
		t.Fatalf("expected no matches, got %d", len(insp.Results))
	}
}

func TestInspectRejectsBadFilter(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/v1/ids/inspect", map[string]any{
		"ids":    []string{"1"},
		"filter": "node ==",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNodeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/node")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body struct {
		NodeID uint32 `json:"nodeId"`
		Owner  string `json:"owner"`
	}
	decodeBody(t, resp, &body)
	if body.NodeID != 12 || body.Owner != "test:1" {
		t.Fatalf("unexpected node response: %+v", body)
	}
}

func TestMetricsExposition(t *testing.T) {
	ts := newTestServer(t)
	// Generate something so counters are nonzero.
	postJSON(t, ts.URL+"/v1/ids/generate", map[string]int{"count": 2}).Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(body, []byte("switflake_ids_generated_total")) {
		t.Fatalf("metrics output missing generated counter")
	}
}

func TestGeneratedIDsAreSortableStrings(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/v1/ids/generate", map[string]int{"count": 50})
	var gen struct {
		IDs []string `json:"ids"`
	}
	decodeBody(t, resp, &gen)

	var prev uint64
	for _, s := range gen.IDs {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			t.Fatalf("non-numeric id %q", s)
		}
		if id <= prev {
			t.Fatalf("ids not increasing: %d then %d", prev, id)
		}
		prev = id
	}
}

// HTTP API integration tests exercising the full stack in-process:
// gin handlers over a real SQLite backend.
package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukaforge/paintline/internal/server"
	"github.com/dukaforge/paintline/pkg/sqlite"
	"github.com/dukaforge/paintline/pkg/types"
)

func setupAPI(t *testing.T) http.Handler {
	t.Helper()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	ledger := sqlite.NewBackend()
	if err := ledger.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { ledger.Detach() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return server.New(ledger, cfg, log).Handler()
}

func apiCall(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("parse response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, decoded
}

// TestProductionPipelineScenario walks one type through the whole pipeline
// over the API: create, seed, several moves, grouped history, export.
func TestProductionPipelineScenario(t *testing.T) {
	h := setupAPI(t)

	status, body := apiCall(t, h, http.MethodPost, "/api/v1/types", `{"name":"Chaos Cultist"}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, body %v", status, body)
	}
	id := body["id"].(string)

	seed := `{"types":[{"name":"Chaos Cultist","stage_counts":[
		{"stage":"UNBUILT","count":10},
		{"stage":"ASSEMBLING","count":0},
		{"stage":"PRIMING","count":0},
		{"stage":"PAINTING","count":0},
		{"stage":"FINISHED","count":0}],"history":[]}]}`
	status, body = apiCall(t, h, http.MethodPost, "/api/v1/import", seed)
	if status != http.StatusOK {
		t.Fatalf("import status = %d, body %v", status, body)
	}

	moves := []struct {
		from, to string
		qty      int
	}{
		{"UNBUILT", "ASSEMBLING", 6},
		{"ASSEMBLING", "PRIMING", 4},
		{"PRIMING", "PAINTING", 4},
		{"PAINTING", "FINISHED", 2},
	}
	for _, mv := range moves {
		payload := fmt.Sprintf(`{"from_stage":%q,"to_stage":%q,"qty":%d}`, mv.from, mv.to, mv.qty)
		status, body = apiCall(t, h, http.MethodPost, "/api/v1/types/"+id+"/move", payload)
		if status != http.StatusOK {
			t.Fatalf("move %s->%s status = %d, body %v", mv.from, mv.to, status, body)
		}
	}

	counts := body["counts"].(map[string]any)
	want := map[string]float64{
		"UNBUILT": 4, "ASSEMBLING": 2, "PRIMING": 0, "PAINTING": 2, "FINISHED": 2,
	}
	for stage, n := range want {
		if counts[stage] != n {
			t.Errorf("counts[%s] = %v, want %v", stage, counts[stage], n)
		}
	}

	// Each move is a distinct transition, so grouping leaves them alone.
	status, body = apiCall(t, h, http.MethodGet, "/api/v1/types/"+id+"/history", "")
	if status != http.StatusOK {
		t.Fatalf("history status = %d", status)
	}
	items := body["items"].([]any)
	if len(items) != len(moves) {
		t.Fatalf("history has %d groups, want %d", len(items), len(moves))
	}
	first := items[0].(map[string]any)
	if first["from_stage"] != "UNBUILT" || first["to_stage"] != "ASSEMBLING" {
		t.Errorf("first group = %v", first)
	}

	// Export carries everything.
	status, body = apiCall(t, h, http.MethodGet, "/api/v1/export", "")
	if status != http.StatusOK {
		t.Fatalf("export status = %d", status)
	}
	exported := body["types"].([]any)
	if len(exported) != 1 {
		t.Fatalf("exported %d types, want 1", len(exported))
	}
	entry := exported[0].(map[string]any)
	if len(entry["history"].([]any)) != len(moves) {
		t.Errorf("exported history has %d entries, want %d",
			len(entry["history"].([]any)), len(moves))
	}
}

// TestImportAtomicityOverAPI confirms a bad batch leaves earlier good items
// unapplied.
func TestImportAtomicityOverAPI(t *testing.T) {
	h := setupAPI(t)

	payload := `{"types":[
		{"name":"Good","stage_counts":[
			{"stage":"UNBUILT","count":3},
			{"stage":"ASSEMBLING","count":0},
			{"stage":"PRIMING","count":0},
			{"stage":"PAINTING","count":0},
			{"stage":"FINISHED","count":0}],"history":[]},
		{"name":"Bad","stage_counts":[
			{"stage":"UNBUILT","count":-1},
			{"stage":"ASSEMBLING","count":0},
			{"stage":"PRIMING","count":0},
			{"stage":"PAINTING","count":0},
			{"stage":"FINISHED","count":0}],"history":[]}]}`
	status, body := apiCall(t, h, http.MethodPost, "/api/v1/import", payload)
	if status != http.StatusBadRequest {
		t.Fatalf("import status = %d, body %v", status, body)
	}
	if body["code"] != types.CodeInvalidImportFormat {
		t.Errorf("code = %v", body["code"])
	}

	status, body = apiCall(t, h, http.MethodGet, "/api/v1/types", "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if items := body["items"].([]any); len(items) != 0 {
		t.Errorf("bad batch created %d types", len(items))
	}
}

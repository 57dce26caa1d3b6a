package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/paintline/pkg/sqlite"
	"github.com/dukaforge/paintline/pkg/types"
)

func newTestServer(t *testing.T, cfg types.Config) http.Handler {
	t.Helper()
	if cfg.Backend == "" {
		cfg.Backend = types.BackendSQLite
	}
	if cfg.DataDir == "" {
		cfg.DataDir = t.TempDir()
	}
	ledger := sqlite.NewBackend()
	require.NoError(t, ledger.Attach(cfg))
	t.Cleanup(func() { _ = ledger.Detach() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(ledger, cfg, log).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded),
			"body: %s", rec.Body.String())
	}
	return rec, decoded
}

func createType(t *testing.T, h http.Handler, name string) string {
	t.Helper()
	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/types",
		fmt.Sprintf(`{"name":%q}`, name))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %v", body)
	return body["id"].(string)
}

// seedPayload builds an import body granting one type the given number of
// unbuilt units.
func seedPayload(name string, unbuilt int) string {
	return fmt.Sprintf(`{"types":[{"name":%q,"stage_counts":[
		{"stage":"UNBUILT","count":%d},
		{"stage":"ASSEMBLING","count":0},
		{"stage":"PRIMING","count":0},
		{"stage":"PAINTING","count":0},
		{"stage":"FINISHED","count":0}],"history":[]}]}`, name, unbuilt)
}

func TestStatusEndpoint(t *testing.T) {
	h := newTestServer(t, types.Config{})

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, types.Config{})

	rec, body := doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	h.ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "paintline_http_requests_total")
	assert.Contains(t, mrec.Body.String(), "paintline_moves_total")
}

func TestCreateAndGetType(t *testing.T) {
	h := newTestServer(t, types.Config{})

	id := createType(t, h, "Space Marine")

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/types/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "Space Marine", body["name"])

	counts := body["counts"].(map[string]any)
	require.Len(t, counts, types.StageCount)
	for _, stage := range types.Stages() {
		assert.Equal(t, float64(0), counts[stage.String()], "stage %s", stage)
	}
}

func TestGetTypeNotFound(t *testing.T) {
	h := newTestServer(t, types.Config{})

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/types/no-such-id", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, types.CodeNotFound, body["code"])
}

func TestCreateTypeRejections(t *testing.T) {
	h := newTestServer(t, types.Config{})
	createType(t, h, "Dreadnought")

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"empty name", `{"name":""}`, types.CodeValidation},
		{"malformed json", `{"name":`, types.CodeValidation},
		{"duplicate name", `{"name":"Dreadnought"}`, types.CodeDuplicateTypeName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, h, http.MethodPost, "/api/v1/types", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestListTypesOrdered(t *testing.T) {
	h := newTestServer(t, types.Config{})
	createType(t, h, "Terminator")
	createType(t, h, "Assault Marine")

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/types", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Assault Marine", items[0].(map[string]any)["name"])
	assert.Equal(t, "Terminator", items[1].(map[string]any)["name"])
}

func TestMoveEndpoint(t *testing.T) {
	h := newTestServer(t, types.Config{})
	id := createType(t, h, "Ork Boy")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/import", seedPayload("Ork Boy", 10))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/types/"+id+"/move",
		`{"from_stage":"UNBUILT","to_stage":"PRIMING","qty":3}`)
	require.Equal(t, http.StatusOK, rec.Code, "body: %v", body)

	counts := body["counts"].(map[string]any)
	assert.Equal(t, float64(7), counts["UNBUILT"])
	assert.Equal(t, float64(3), counts["PRIMING"])
}

func TestMoveEndpointRejections(t *testing.T) {
	h := newTestServer(t, types.Config{})
	id := createType(t, h, "Ork Boy")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/import", seedPayload("Ork Boy", 5))
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			"unknown stage token",
			"/api/v1/types/" + id + "/move",
			`{"from_stage":"IN_BOX","to_stage":"PRIMING","qty":1}`,
			http.StatusBadRequest, types.CodeInvalidStage,
		},
		{
			"backward transition",
			"/api/v1/types/" + id + "/move",
			`{"from_stage":"PAINTING","to_stage":"UNBUILT","qty":1}`,
			http.StatusBadRequest, types.CodeInvalidStageTransition,
		},
		{
			"insufficient quantity",
			"/api/v1/types/" + id + "/move",
			`{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":6}`,
			http.StatusBadRequest, types.CodeInsufficientQty,
		},
		{
			"zero quantity",
			"/api/v1/types/" + id + "/move",
			`{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":0}`,
			http.StatusBadRequest, types.CodeValidation,
		},
		{
			"unknown type",
			"/api/v1/types/no-such-id/move",
			`{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":1}`,
			http.StatusNotFound, types.CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}

	// None of the rejected moves touched the counters.
	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/types/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	counts := body["counts"].(map[string]any)
	assert.Equal(t, float64(5), counts["UNBUILT"])
	assert.Equal(t, float64(0), counts["FINISHED"])
}

func TestHistoryGrouped(t *testing.T) {
	h := newTestServer(t, types.Config{})
	id := createType(t, h, "Necron Warrior")

	payload := `{"types":[{"name":"Necron Warrior","stage_counts":[
		{"stage":"UNBUILT","count":0},
		{"stage":"ASSEMBLING","count":0},
		{"stage":"PRIMING","count":0},
		{"stage":"PAINTING","count":0},
		{"stage":"FINISHED","count":6}],"history":[
		{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":2,"created_at":"2026-02-25T08:00:00Z"},
		{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":1,"created_at":"2026-02-25T08:04:00Z"},
		{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":3,"created_at":"2026-02-25T09:00:00Z"}]}]}`
	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/import", payload)
	require.Equal(t, http.StatusOK, rec.Code, "body: %v", body)

	rec, body = doJSON(t, h, http.MethodGet, "/api/v1/types/"+id+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := body["items"].([]any)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, "UNBUILT", first["from_stage"])
	assert.Equal(t, "FINISHED", first["to_stage"])
	assert.Equal(t, float64(3), first["qty"])
	assert.Equal(t, "2026-02-25T08:00:00Z", first["timestamp"])

	second := items[1].(map[string]any)
	assert.Equal(t, float64(3), second["qty"])
	assert.Equal(t, "2026-02-25T09:00:00Z", second["timestamp"])
}

func TestExportReflectsImport(t *testing.T) {
	h := newTestServer(t, types.Config{})

	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/import", seedPayload("Zombie", 4))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	exported := body["types"].([]any)
	require.Len(t, exported, 1)
	entry := exported[0].(map[string]any)
	assert.Equal(t, "Zombie", entry["name"])

	stageCounts := entry["stage_counts"].([]any)
	require.Len(t, stageCounts, types.StageCount)
	first := stageCounts[0].(map[string]any)
	assert.Equal(t, "UNBUILT", first["stage"])
	assert.Equal(t, float64(4), first["count"])
}

func TestExportEmptyLedger(t *testing.T) {
	h := newTestServer(t, types.Config{})

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["types"])
}

func TestImportRejectsMalformedBatch(t *testing.T) {
	h := newTestServer(t, types.Config{})

	// Second item is short one stage, so the whole batch must be refused.
	payload := `{"types":[
		{"name":"Good","stage_counts":[
			{"stage":"UNBUILT","count":1},
			{"stage":"ASSEMBLING","count":0},
			{"stage":"PRIMING","count":0},
			{"stage":"PAINTING","count":0},
			{"stage":"FINISHED","count":0}],"history":[]},
		{"name":"Bad","stage_counts":[
			{"stage":"UNBUILT","count":1}],"history":[]}]}`
	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/import", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.CodeInvalidImportFormat, body["code"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/v1/types", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["items"])
}

func TestImportRejectsUnknownFields(t *testing.T) {
	h := newTestServer(t, types.Config{})

	tests := []struct {
		name    string
		payload string
	}{
		{
			"unknown item field",
			`{"types":[{"name":"Good","unexpected_field":42,"stage_counts":[
				{"stage":"UNBUILT","count":1},
				{"stage":"ASSEMBLING","count":0},
				{"stage":"PRIMING","count":0},
				{"stage":"PAINTING","count":0},
				{"stage":"FINISHED","count":0}],"history":[]}]}`,
		},
		{
			"unknown top-level field",
			`{"types":[],"extra":true}`,
		},
		{
			"unknown history field",
			`{"types":[{"name":"Good","stage_counts":[
				{"stage":"UNBUILT","count":1},
				{"stage":"ASSEMBLING","count":0},
				{"stage":"PRIMING","count":0},
				{"stage":"PAINTING","count":0},
				{"stage":"FINISHED","count":0}],"history":[
				{"from_stage":"UNBUILT","to_stage":"FINISHED","qty":1,
				 "created_at":"2026-02-25T08:00:00Z","note":"x"}]}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, h, http.MethodPost, "/api/v1/import", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, types.CodeInvalidImportFormat, body["code"])
		})
	}

	// Nothing from the rejected payloads was applied.
	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/types", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["items"])
}

func TestDeleteTypeEndpoint(t *testing.T) {
	h := newTestServer(t, types.Config{})
	id := createType(t, h, "Gretchin")

	rec, _ := doJSON(t, h, http.MethodDelete, "/api/v1/types/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/types/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, types.CodeNotFound, body["code"])

	rec, body = doJSON(t, h, http.MethodDelete, "/api/v1/types/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, types.CodeNotFound, body["code"])
}

func TestCORSHeaders(t *testing.T) {
	h := newTestServer(t, types.Config{
		CORSAllowedOrigins: []string{"http://example.test"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://example.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://other.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/types", nil)
	req.Header.Set("Origin", "http://example.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

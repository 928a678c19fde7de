package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/ayushparser/entities"
	"github.com/ayushsync/terminology-api/config"
	"github.com/ayushsync/terminology-api/data"
	"github.com/ayushsync/terminology-api/handlers"
	"github.com/ayushsync/terminology-api/logging"
	"github.com/ayushsync/terminology-api/server"
	"github.com/ayushsync/terminology-api/validation"
)

var setupOnce sync.Once

// stubGateway stands in for the WHO API so integration tests never leave the
// process. The zero value fails every call.
type stubGateway struct {
	entities []entities.ICDEntity
}

func (g *stubGateway) GetToken(ctx context.Context) (string, error) {
	return "stub-token", nil
}

func (g *stubGateway) SearchICD(ctx context.Context, term string) ([]entities.ICDEntity, error) {
	if g.entities == nil {
		return nil, errors.New("upstream unavailable")
	}
	return g.entities, nil
}

func (g *stubGateway) GetEntity(ctx context.Context, id string) (json.RawMessage, error) {
	if g.entities == nil {
		return nil, errors.New("upstream unavailable")
	}
	return json.RawMessage(`{"@id":"` + id + `","title":{"@value":"Fever"},"code":"MG26"}`), nil
}

func (g *stubGateway) GetRoot(ctx context.Context) (json.RawMessage, error) {
	if g.entities == nil {
		return nil, errors.New("upstream unavailable")
	}
	return json.RawMessage(`{"title":{"@value":"ICD-11 MMS"}}`), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8000",
		Address:            "127.0.0.1",
		Env:                "test",
		LogLevel:           "error",
		DataDir:            "files",
		WHOManualToken:     "test-token",
		ICDTimeoutSeconds:  8,
		ICDCacheTTLMinutes: 10,
		MaxRequestBody:     1048576,
		MaxHeaderSize:      1048576,
	}
}

// newTestServer wires the full stack against the shipped reference datasets,
// swapping only the WHO gateway for a stub.
func newTestServer(t *testing.T, gateway *stubGateway) http.Handler {
	t.Helper()
	setupOnce.Do(func() {
		logging.InitLogger("error")
	})

	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())

	corpus, err := ayushparser.NewParser("files").ParseAll()
	if err != nil {
		t.Fatalf("Failed to load reference datasets: %v", err)
	}
	container.UpdateData(corpus)

	handler := handlers.NewHTTPHandler(container, validation.NewDataValidator(), gateway)
	return server.NewServer(testConfig(), handler).Router()
}

func getJSON(t *testing.T, router http.Handler, target string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if len(rec.Body.Bytes()) > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("Failed to decode %s response: %v", target, err)
		}
	}
	return rec.Code, payload
}

func TestIntegrationDiseaseLookup(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	code, payload := getJSON(t, router, "/disease?term=fever")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}

	for _, system := range []string{"ayurveda", "siddha", "unani"} {
		hits := payload[system].([]interface{})
		if len(hits) == 0 {
			t.Errorf("Expected a fever hit in %s", system)
		}
	}
}

func TestIntegrationIntelligentSearchRanking(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	code, payload := getJSON(t, router, "/api/intelligent-search?term=fever")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}

	topMatch := payload["top_match"].(map[string]interface{})
	entry := topMatch["entry"].(map[string]interface{})
	if entry["code"] != "EH001" {
		t.Errorf("Expected EH001 as top match for fever, got %v", entry["code"])
	}

	questions := payload["guided_questions"].([]interface{})
	if len(questions) == 0 || len(questions) > 2 {
		t.Errorf("Expected 1-2 guided questions, got %d", len(questions))
	}
}

func TestIntegrationIntelligentSearchFilters(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	// EH008 is female-only; a male filter must penalize it below the
	// unfiltered run.
	_, unfiltered := getJSON(t, router, "/api/intelligent-search?term=irregular+periods")
	_, filtered := getJSON(t, router, "/api/intelligent-search?term=irregular+periods&gender=male")

	topUnfiltered := unfiltered["top_match"].(map[string]interface{})
	topFiltered := filtered["top_match"].(map[string]interface{})

	before := topUnfiltered["relevance_score"].(float64)
	after := topFiltered["relevance_score"].(float64)
	if after >= before {
		t.Errorf("Gender mismatch should penalize the score: %v -> %v", before, after)
	}
}

func TestIntegrationGuidedQuestionRound(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	body := `{"search_term":"fever","answers":{"q_onset":"sudden"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/guided-questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if payload["answers_processed"].(float64) != 1 {
		t.Errorf("Expected 1 answer processed, got %v", payload["answers_processed"])
	}
	refined := payload["refined_results"].([]interface{})
	if len(refined) == 0 || len(refined) > 3 {
		t.Errorf("Expected 1-3 refined results, got %d", len(refined))
	}
	for _, raw := range payload["next_questions"].([]interface{}) {
		if q := raw.(map[string]interface{}); q["id"] == "q_onset" {
			t.Error("Answered question proposed again")
		}
	}
}

func TestIntegrationICDSearchWithReferences(t *testing.T) {
	gateway := &stubGateway{entities: []entities.ICDEntity{
		{ID: "1", Title: "Fever, unspecified", Code: "MG26"},
	}}
	router := newTestServer(t, gateway)

	code, payload := getJSON(t, router, "/icd/search?q=fever")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if payload["icd_available"] != true {
		t.Error("Expected icd_available=true")
	}

	results := payload["results"].([]interface{})
	first := results[0].(map[string]interface{})
	refs, ok := first["ayush_references"].([]interface{})
	if !ok || len(refs) == 0 {
		t.Fatalf("Expected editorial AYUSH references on MG26, got %v", first["ayush_references"])
	}
}

func TestIntegrationGatewayOutageDegrades(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	code, payload := getJSON(t, router, "/api/intelligent-search?term=fever&include_icd=true")
	if code != http.StatusOK {
		t.Fatalf("Outage must degrade to AYUSH-only results, got %d", code)
	}
	if payload["top_match"] == nil {
		t.Error("Expected AYUSH results despite gateway outage")
	}

	code, payload = getJSON(t, router, "/icd/search?q=fever")
	if code != http.StatusOK {
		t.Fatalf("ICD proxy must answer 200 during outage, got %d", code)
	}
	if payload["icd_available"] != false {
		t.Error("Expected icd_available=false during outage")
	}
}

func TestIntegrationClinicalPathway(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	code, payload := getJSON(t, router, "/api/clinical-pathway/EH001")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if payload["namc_code"] != "EH001" {
		t.Errorf("Expected pathway for EH001, got %v", payload["namc_code"])
	}

	code, _ = getJSON(t, router, "/api/clinical-pathway/NOPE-1")
	if code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown pathway, got %d", code)
	}
}

func TestIntegrationHealthAndMetrics(t *testing.T) {
	router := newTestServer(t, &stubGateway{})

	code, payload := getJSON(t, router, "/health")
	if code != http.StatusOK {
		t.Fatalf("Expected 200 from /health, got %d", code)
	}
	if payload["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", payload["status"])
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("Expected prometheus exposition output")
	}
}

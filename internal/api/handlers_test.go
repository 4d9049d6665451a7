package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ekurt/qurancorpus/core/corpus"
	"github.com/ekurt/qurancorpus/core/engine"
	"github.com/ekurt/qurancorpus/core/ratelimit"
)

func testServer(rl ratelimit.Config) *Server {
	ds := corpus.Datasets{
		PrimaryTranslator: "diyanet",
		Verses: []corpus.Verse{
			{Ref: corpus.VerseRef{Sura: 1, Verse: 1}, Arabic: "بسم الله الرحمن الرحيم"},
			{Ref: corpus.VerseRef{Sura: 1, Verse: 2}, Arabic: "الحمد لله رب العالمين"},
		},
		Surahs: []corpus.SurahInfo{
			{Number: 1, Name: "Fatiha", VerseCount: 7},
		},
		Translation: map[corpus.VerseRef]string{
			{Sura: 1, Verse: 1}: "Rahmân ve rahîm olan Allah'ın adıyla.",
		},
		Morphology: map[corpus.VerseRef][]corpus.MorphologySegment{
			{Sura: 1, Verse: 1}: {
				{Position: 1, Surface: "بسم", Root: "سمو", POSTag: "N"},
			},
		},
		Roots: map[string][]corpus.VerseRef{
			"سمو": {{Sura: 1, Verse: 1}},
		},
		Frequency: []corpus.WordCount{
			{Word: "الله", Count: 2153},
		},
	}
	c, _ := corpus.New(ds)
	eng := engine.New(c, ratelimit.New(rl))
	return NewServer(eng, Config{Port: 8080, RateLimit: rl})
}

func doRequest(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response for %s is not valid JSON: %v\n%s", path, err, rec.Body.String())
	}
	return rec, resp
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q, want success", resp.Status)
	}
	if resp.Timestamp == "" {
		t.Error("envelope timestamp missing")
	}
}

func TestGetVerseEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/verses/1/1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %v", resp.Data)
	}
	if data["reference"] != "1:1" {
		t.Errorf("reference = %v, want 1:1", data["reference"])
	}
	if data["surah_name"] != "Fatiha" {
		t.Errorf("surah_name = %v", data["surah_name"])
	}
}

func TestGetSurahEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/verses/1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	verses, ok := data["verses"].([]interface{})
	if !ok || len(verses) != 2 {
		t.Errorf("verses = %v, want 2 entries", data["verses"])
	}
}

func TestVerseNotFound(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/verses/1/999")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Status != "error" || resp.ErrorCode != "NOT_FOUND" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestInvalidSuraIs400(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/verses/200/1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.ErrorCode != "INVALID_INPUT" {
		t.Errorf("error_code = %q, want INVALID_INPUT", resp.ErrorCode)
	}
}

func TestBadVersePathIs400(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	for _, path := range []string{"/api/verses/abc", "/api/verses/1/2/3", "/api/verses/1/x"} {
		rec, resp := doRequest(t, s, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
		if resp.ErrorCode != "INVALID_INPUT" {
			t.Errorf("%s: error_code = %q", path, resp.ErrorCode)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/search?q=Allah")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["search_type"] != "word" {
		t.Errorf("search_type = %v, want word", data["search_type"])
	}
	if data["result_count"].(float64) != 1 {
		t.Errorf("result_count = %v, want 1", data["result_count"])
	}
}

func TestSearchShortQueryIs400(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/search?q=a")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.ErrorCode != "INVALID_INPUT" {
		t.Errorf("error_code = %q, want INVALID_INPUT", resp.ErrorCode)
	}
}

func TestSearchNoMatchesIs200(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/search?q=zzzzz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["result_count"].(float64) != 0 {
		t.Errorf("result_count = %v, want 0", data["result_count"])
	}
	if _, ok := data["results"].([]interface{}); !ok {
		t.Errorf("results should be an empty array, got %v", data["results"])
	}
}

func TestMorphologyEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/morphology/1/1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["segment_count"].(float64) != 1 {
		t.Errorf("segment_count = %v, want 1", data["segment_count"])
	}

	rec, resp = doRequest(t, s, "/api/morphology/1/2")
	if rec.Code != http.StatusNotFound {
		t.Errorf("verse without segments: status = %d, want 404", rec.Code)
	}
	if resp.ErrorCode != "NOT_FOUND" {
		t.Errorf("error_code = %q", resp.ErrorCode)
	}
}

func TestMorphologySearchEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/morphology/search?pos=N")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if data["result_count"].(float64) != 1 {
		t.Errorf("result_count = %v, want 1", data["result_count"])
	}
}

func TestRootsEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})

	rec, resp := doRequest(t, s, "/api/roots")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["result_count"].(float64) != 1 {
		t.Errorf("result_count = %v, want 1", data["result_count"])
	}

	rec, _ = doRequest(t, s, "/api/roots/سمو")
	if rec.Code != http.StatusOK {
		t.Errorf("specific root: status = %d, want 200", rec.Code)
	}

	rec, resp = doRequest(t, s, "/api/roots/غفر")
	if rec.Code != http.StatusNotFound || resp.ErrorCode != "NOT_FOUND" {
		t.Errorf("unknown root: status = %d, code = %q", rec.Code, resp.ErrorCode)
	}
}

func TestFrequencyEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/frequency?limit=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	words := data["words"].([]interface{})
	if len(words) != 1 {
		t.Errorf("word count = %d, want 1", len(words))
	}
}

func TestExportEndpoint(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})

	rec, resp := doRequest(t, s, "/api/export/json?surah=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["record_count"].(float64) != 2 {
		t.Errorf("record_count = %v, want 2", data["record_count"])
	}

	rec, _ = doRequest(t, s, "/api/export/json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing surah: status = %d, want 400", rec.Code)
	}
}

func TestAnalyticsIs503(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/api/analytics/statistics")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if resp.ErrorCode != "FEATURE_NOT_AVAILABLE" {
		t.Errorf("error_code = %q, want FEATURE_NOT_AVAILABLE", resp.ErrorCode)
	}
}

func TestUnknownEndpointIs404(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, resp := doRequest(t, s, "/nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.ErrorCode != "NOT_FOUND" {
		t.Errorf("error_code = %q", resp.ErrorCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRateLimitRejection(t *testing.T) {
	rl := ratelimit.Config{
		Enabled:     true,
		MaxRequests: 2,
		Window:      time.Hour,
	}
	s := testServer(rl)
	handler := s.Handler()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.ErrorCode != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error_code = %q, want RATE_LIMIT_EXCEEDED", resp.ErrorCode)
	}

	// A different client is unaffected.
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := testServer(ratelimit.Config{Enabled: false})
	rec, _ := doRequest(t, s, "/api/health")

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("X-Content-Type-Options missing")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy missing")
	}
}

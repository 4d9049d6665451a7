package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ekurt/qurancorpus/core/corpus"
	"github.com/ekurt/qurancorpus/core/errors"
	"github.com/ekurt/qurancorpus/core/search"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status             string `json:"status"`
	Database           string `json:"database"`
	Version            string `json:"version"`
	AnalyticsAvailable bool   `json:"analytics_available"`
	Uptime             string `json:"uptime"`
}

// SearchResult is the search response payload.
type SearchResult struct {
	Query       string         `json:"query"`
	SearchType  string         `json:"search_type"`
	ResultCount int            `json:"result_count"`
	Results     []search.Match `json:"results"`
}

// MorphologyResult is the per-verse morphology payload.
type MorphologyResult struct {
	Reference    string                     `json:"reference"`
	SegmentCount int                        `json:"segment_count"`
	Segments     []corpus.MorphologySegment `json:"segments"`
}

// MorphologyFilterResult is the morphology filter payload.
type MorphologyFilterResult struct {
	Filters     map[string]string `json:"filters"`
	ResultCount int               `json:"result_count"`
	Results     []search.Match    `json:"results"`
}

// ExportResult is the export payload.
type ExportResult struct {
	Format      string      `json:"format"`
	RecordCount int         `json:"record_count"`
	Data        interface{} `json:"data"`
}

var startTime = time.Now()

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	respond(w, http.StatusOK, "API is healthy", HealthInfo{
		Status:             "healthy",
		Database:           "connected",
		Version:            Version,
		AnalyticsAvailable: false,
		Uptime:             time.Since(startTime).String(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	respond(w, http.StatusOK, "Success", map[string]interface{}{
		"api_name":    "Quran Corpus REST API",
		"version":     Version,
		"description": "Quran corpus API with search, morphology, and export features",
		"endpoints": map[string]string{
			"Health":       "/api/health",
			"Verses":       "/api/verses/{surah}/{verse}",
			"Search":       "/api/search",
			"Morphology":   "/api/morphology/{surah}/{verse}",
			"Roots":        "/api/roots/{root}",
			"Translations": "/api/translations/{surah}/{verse}",
			"WordByWord":   "/api/wordbyword/{surah}/{verse}",
			"Frequency":    "/api/frequency",
			"Export":       "/api/export/json",
			"Statistics":   "/api/statistics",
		},
		"rate_limit": map[string]interface{}{
			"enabled":           s.cfg.RateLimit.Enabled,
			"requests_per_hour": s.cfg.RateLimit.MaxRequests,
		},
	})
}

// handleVerses serves /api/verses/{surah} and /api/verses/{surah}/{verse}.
func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	sura, verse, ok := parseRefPath(r.URL.Path, "/api/verses/")
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Path must be /api/verses/{surah} or /api/verses/{surah}/{verse}")
		return
	}
	if verse == 0 {
		result, err := s.engine.GetSurah(sura)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respond(w, http.StatusOK, fmt.Sprintf("Surah %d retrieved successfully", sura), result)
		return
	}
	record, err := s.engine.GetVerse(sura, verse)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respond(w, http.StatusOK, fmt.Sprintf("Verse %d:%d retrieved successfully", sura, verse), record)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	searchType := strings.ToLower(r.URL.Query().Get("type"))
	if searchType == "" {
		searchType = "word"
	}
	limit := parseLimit(r)

	results, err := s.engine.Search(query, searchType, limit)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if results == nil {
		results = []search.Match{}
	}
	respond(w, http.StatusOK, fmt.Sprintf("Found %d results for '%s'", len(results), query), SearchResult{
		Query:       query,
		SearchType:  searchType,
		ResultCount: len(results),
		Results:     results,
	})
}

// handleMorphology serves /api/morphology/{surah}/{verse}.
func (s *Server) handleMorphology(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	sura, verse, ok := parseRefPath(r.URL.Path, "/api/morphology/")
	if !ok || verse == 0 {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Path must be /api/morphology/{surah}/{verse}")
		return
	}
	segments, err := s.engine.GetMorphology(sura, verse)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	ref := fmt.Sprintf("%d:%d", sura, verse)
	respond(w, http.StatusOK, fmt.Sprintf("Morphology data for %s retrieved", ref), MorphologyResult{
		Reference:    ref,
		SegmentCount: len(segments),
		Segments:     segments,
	})
}

func (s *Server) handleMorphologySearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	posTag := r.URL.Query().Get("pos")
	root := r.URL.Query().Get("root")
	limit := parseLimit(r)

	results := s.engine.FilterMorphology(posTag, root, limit)
	if results == nil {
		results = []search.Match{}
	}
	respond(w, http.StatusOK, fmt.Sprintf("Found %d morphology results", len(results)), MorphologyFilterResult{
		Filters:     map[string]string{"pos_tag": posTag, "root": root},
		ResultCount: len(results),
		Results:     results,
	})
}

// handleRoots serves /api/roots (listing) and /api/roots/{root}.
func (s *Server) handleRoots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	root := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/roots"), "/")
	if root == "" {
		limit := parseLimit(r)
		if r.URL.Query().Get("order") == "frequency" {
			counts := s.engine.TopRoots(limit)
			respond(w, http.StatusOK, fmt.Sprintf("Listed %d roots", len(counts)), map[string]interface{}{
				"result_count": len(counts),
				"roots":        counts,
			})
			return
		}
		roots := s.engine.ListRoots(limit)
		respond(w, http.StatusOK, fmt.Sprintf("Listed %d roots", len(roots)), map[string]interface{}{
			"result_count": len(roots),
			"roots":        roots,
		})
		return
	}
	result, err := s.engine.GetRoot(root)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respond(w, http.StatusOK, fmt.Sprintf("Root '%s' occurs %d times", result.Root, result.Count), result)
}

// handleTranslations serves /api/translations/{surah}/{verse}.
func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	sura, verse, ok := parseRefPath(r.URL.Path, "/api/translations/")
	if !ok || verse == 0 {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Path must be /api/translations/{surah}/{verse}")
		return
	}
	entries, err := s.engine.GetTranslations(sura, verse)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	ref := fmt.Sprintf("%d:%d", sura, verse)
	respond(w, http.StatusOK, fmt.Sprintf("Translations for %s retrieved", ref), map[string]interface{}{
		"reference":    ref,
		"count":        len(entries),
		"translations": entries,
	})
}

// handleWordByWord serves /api/wordbyword/{surah}/{verse}.
func (s *Server) handleWordByWord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	sura, verse, ok := parseRefPath(r.URL.Path, "/api/wordbyword/")
	if !ok || verse == 0 {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Path must be /api/wordbyword/{surah}/{verse}")
		return
	}
	glosses, err := s.engine.GetWordByWord(sura, verse)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	ref := fmt.Sprintf("%d:%d", sura, verse)
	respond(w, http.StatusOK, fmt.Sprintf("Word-by-word glosses for %s retrieved", ref), map[string]interface{}{
		"reference": ref,
		"count":     len(glosses),
		"words":     glosses,
	})
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	words := s.engine.WordFrequency(parseLimit(r))
	respond(w, http.StatusOK, fmt.Sprintf("Top %d words retrieved", len(words)), map[string]interface{}{
		"result_count": len(words),
		"words":        words,
	})
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	sura, err := strconv.Atoi(r.URL.Query().Get("surah"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "surah query parameter is required")
		return
	}
	verse := 0
	if v := r.URL.Query().Get("verse"); v != "" {
		verse, err = strconv.Atoi(v)
		if err != nil || verse < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "verse must be a positive integer")
			return
		}
	}
	records, err := s.engine.Export(sura, verse)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respond(w, http.StatusOK, "Data exported successfully", ExportResult{
		Format:      "json",
		RecordCount: len(records),
		Data:        records,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	stats := s.engine.GetStatistics()
	respond(w, http.StatusOK, "Statistics retrieved successfully", map[string]interface{}{
		"database": stats,
		"api": map[string]interface{}{
			"version":             Version,
			"rate_limit_enabled":  s.cfg.RateLimit.Enabled,
			"analytics_available": false,
		},
	})
}

// handleAnalytics answers the retired analytics endpoints.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusServiceUnavailable, "FEATURE_NOT_AVAILABLE", "Analytics not available")
}

// parseRefPath splits prefix-relative "{surah}" or "{surah}/{verse}" paths.
// A bare surah path reports verse 0.
func parseRefPath(path, prefix string) (sura, verse int, ok bool) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return 0, 0, false
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 2 {
		return 0, 0, false
	}
	sura, err := strconv.Atoi(parts[0])
	if err != nil || sura < 1 {
		return 0, 0, false
	}
	if len(parts) == 2 {
		verse, err = strconv.Atoi(parts[1])
		if err != nil || verse < 1 {
			return 0, 0, false
		}
	}
	return sura, verse, true
}

// parseLimit reads the limit query parameter; clamping happens downstream.
func parseLimit(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return search.DefaultLimit
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return search.DefaultLimit
	}
	return limit
}

// respondEngineError maps a typed engine failure to status and error code.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, errors.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, errors.ErrDataUnavailable):
		respondError(w, http.StatusServiceUnavailable, "FEATURE_NOT_AVAILABLE", err.Error())
	case errors.Is(err, errors.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "SERVER_ERROR", "Internal server error")
	}
}

func respondMethodNotAllowed(w http.ResponseWriter) {
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	response := APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Status:    "error",
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

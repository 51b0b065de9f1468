// Package api exposes overmatch validation over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"pinrex-validate/internal/sweep"
)

// maxSample caps the number of invalid matches returned in one response.
const maxSample = 1000

// Validation is the outcome of one validation run.
type Validation struct {
	Id           string `json:"id"`
	Valid        bool   `json:"valid"`
	TotalInvalid int    `json:"totalInvalid"`
	Sample       []int  `json:"sample"`
	Checked      int    `json:"checked"`
	Matched      int    `json:"matched"`
}

// PostalCodeStatus reports whether a single code is in the ground-truth set.
type PostalCodeStatus struct {
	Code  int  `json:"code"`
	Valid bool `json:"valid"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status      string `json:"status"`
	PostalCodes int    `json:"postalCodes"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Validate a pattern list against the loaded postal codes
	// (POST /validations)
	CreateValidation(w http.ResponseWriter, r *http.Request)
	// Check a single postal code
	// (GET /postal-codes/{code})
	GetPostalCode(w http.ResponseWriter, r *http.Request, code int)
	// (GET /healthz)
	GetHealth(w http.ResponseWriter, r *http.Request)
}

// Server validates pattern lists against a ground-truth set loaded once at
// startup.
type Server struct {
	codes   []int
	valid   sweep.CodeSet
	workers int
}

// NewServer creates a new API server for the given postal codes. workers is
// passed through to every sweep.
func NewServer(codes []int, workers int) ServerInterface {
	return &Server{
		codes:   codes,
		valid:   sweep.NewCodeSet(codes),
		workers: workers,
	}
}

// HandlerFromMux registers the server's routes on r and returns it.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	r.Post("/validations", si.CreateValidation)
	r.Get("/postal-codes/{code}", func(w http.ResponseWriter, r *http.Request) {
		var code int
		err := runtime.BindStyledParameterWithOptions("simple", "code", chi.URLParam(r, "code"), &code,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter code: %s", err))
			return
		}
		si.GetPostalCode(w, r, code)
	})
	r.Get("/healthz", si.GetHealth)
	return r
}

// CreateValidation sweeps the six-digit space with the patterns in the
// request body.
func (s *Server) CreateValidation(w http.ResponseWriter, r *http.Request) {
	sample := sweep.SampleSize
	if err := runtime.BindQueryParameter("form", true, false, "sample", r.URL.Query(), &sample); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter sample: %s", err))
		return
	}
	if sample < 0 || sample > maxSample {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Parameter sample must be between 0 and %d", maxSample))
		return
	}

	patterns, err := sweep.DecodePatterns(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err))
		return
	}

	result, err := sweep.Run(r.Context(), patterns, s.codes, sweep.Options{Workers: s.workers})
	if err != nil {
		var patternErr *sweep.PatternError
		if errors.As(err, &patternErr) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid pattern: %s", patternErr))
			return
		}
		log.Printf("validation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Validation failed")
		return
	}

	validation := Validation{
		Id:           uuid.New().String(),
		Valid:        result.Clean(),
		TotalInvalid: result.Total(),
		Sample:       result.Sample(sample),
		Checked:      result.Checked,
		Matched:      result.Matched,
	}
	log.Printf("validation %s: %d patterns, %d invalid matches", validation.Id, len(patterns), validation.TotalInvalid)

	writeJSON(w, http.StatusOK, validation)
}

// GetPostalCode reports whether code is a valid postal code.
func (s *Server) GetPostalCode(w http.ResponseWriter, r *http.Request, code int) {
	writeJSON(w, http.StatusOK, PostalCodeStatus{Code: code, Valid: s.valid.Contains(code)})
}

// GetHealth reports liveness and the size of the loaded set.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok", PostalCodes: s.valid.Len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

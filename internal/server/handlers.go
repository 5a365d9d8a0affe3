package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/engine"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/runstore"
)

// analyzeRequest is the JSON body accepted by the /v1/graphs endpoints.
// Edges are written as "u->v" strings.
type analyzeRequest struct {
	Text             string   `json:"text,omitempty"`
	Source           string   `json:"source,omitempty"`
	Index            int      `json:"index,omitempty"`
	AdditionalStarts []string `json:"additional_starts,omitempty"`
	AdditionalEnds   []string `json:"additional_ends,omitempty"`
	Refresh          bool     `json:"refresh,omitempty"`

	Ignore   []string         `json:"ignore,omitempty"`
	Condense bool             `json:"condense,omitempty"`
	Weights  map[string]int64 `json:"weights,omitempty"`
	Mode     string           `json:"mode,omitempty"`
	Edges    []string         `json:"edges,omitempty"`
	Workers  int              `json:"workers,omitempty"`
}

// options converts the request into engine options for the given operation.
func (req *analyzeRequest) options(operation string) (engine.Options, error) {
	ignore, err := engine.ParseKeys(req.Ignore)
	if err != nil {
		return engine.Options{}, err
	}
	edges, err := engine.ParseKeys(req.Edges)
	if err != nil {
		return engine.Options{}, err
	}
	var weights map[digraph.Key]int64
	if len(req.Weights) > 0 {
		weights = make(map[digraph.Key]int64, len(req.Weights))
		for s, w := range req.Weights {
			k, err := engine.ParseKey(s)
			if err != nil {
				return engine.Options{}, err
			}
			weights[k] = w
		}
	}
	return engine.Options{
		Text:             req.Text,
		Source:           req.Source,
		Index:            req.Index,
		AdditionalStarts: req.AdditionalStarts,
		AdditionalEnds:   req.AdditionalEnds,
		Refresh:          req.Refresh,
		Operation:        operation,
		Ignore:           ignore,
		Condense:         req.Condense,
		Weights:          weights,
		SafetyMode:       req.Mode,
		Edges:            edges,
		Workers:          req.Workers,
	}, nil
}

// analyzeResponse wraps an engine result with the id of the persisted run.
type analyzeResponse struct {
	RunID string `json:"run_id"`
	*engine.Result
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze builds the handler running the given operation.
func (s *Server) handleAnalyze(operation string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
			return
		}

		opts, err := req.options(operation)
		if err != nil {
			writeError(w, err)
			return
		}

		result, err := s.engine.Execute(r.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}

		run, err := runstore.New(result.GraphID, operation, result, s.runTTL)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeStore, err, "create run"))
			return
		}
		if err := s.store.Set(r.Context(), run); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeStore, err, "persist run %s", run.ID))
			return
		}

		writeJSON(w, http.StatusOK, analyzeResponse{RunID: run.ID, Result: result})
	}
}

// handleGetRun fetches a persisted run by id.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		switch err {
		case runstore.ErrNotFound, runstore.ErrExpired:
			writeError(w, errors.Wrap(errors.ErrCodeRunNotFound, err, "run %s", id))
		default:
			writeError(w, errors.Wrap(errors.ErrCodeStore, err, "load run %s", id))
		}
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to an HTTP status and writes the JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidArgument, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeStructural, errors.ErrCodeInfeasibleFlow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeEdgeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeRunNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

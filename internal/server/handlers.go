package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomcheck/internal/loader"
	"roomcheck/internal/models"
	"roomcheck/pkg/fingerprint"
	"roomcheck/pkg/utils"
)

// Error codes returned in the error envelope.
const (
	codeInvalidMode    = "invalid_mode"
	codeInvalidBody    = "invalid_body"
	codeBodyTooLarge   = "body_too_large"
	codeBatchTooLarge  = "batch_too_large"
	codeEmptyBatch     = "empty_batch"
	codeInternalEncode = "encode_failed"
)

const maxErrorMessage = 200

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// ValidationResponse is the body returned for one validated room.
type ValidationResponse struct {
	ID          string        `json:"id"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Report      models.Report `json:"report"`
}

// BatchRequest lists room ids to validate from the store.
type BatchRequest struct {
	IDs  []string `json:"ids"`
	Mode string   `json:"mode,omitempty"`
}

// BatchResponse holds one result per requested id, in request order.
type BatchResponse struct {
	Results []ValidationResponse `json:"results"`
	Invalid int                  `json:"invalid"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Ping(r.Context()); err != nil {
		s.log.Warn("store health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store unavailable"})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) validateStored(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.resolveMode(r.URL.Query().Get("mode"))
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, codeInvalidMode, "unknown mode "+r.URL.Query().Get("mode"))
		return
	}

	id := chi.URLParam(r, "id")
	report := s.loader.Load(r.Context(), id, mode)

	writeJSON(w, statusFor(report), s.response(id, report))
}

func (s *Server) validateRaw(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.resolveMode(r.URL.Query().Get("mode"))
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, codeInvalidMode, "unknown mode "+r.URL.Query().Get("mode"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.bodyError(w, r, err)
		return
	}

	doc, err := loader.Decode(body, formatFor(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, codeInvalidBody, utils.Truncate(err.Error(), maxErrorMessage))
		return
	}

	report := s.loader.ValidateRaw(doc, mode)

	id := ""
	if report.CleanedRecord != nil {
		id = report.CleanedRecord.ID
	}

	writeJSON(w, http.StatusOK, s.response(id, report))
}

func (s *Server) validateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.bodyError(w, r, err)
		return
	}

	if len(req.IDs) == 0 {
		s.writeError(w, r, http.StatusBadRequest, codeEmptyBatch, "ids must not be empty")
		return
	}

	if s.maxBatch > 0 && len(req.IDs) > s.maxBatch {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, codeBatchTooLarge, "too many ids in batch")
		return
	}

	modeName := r.URL.Query().Get("mode")
	if modeName == "" {
		modeName = req.Mode
	}

	mode, ok := s.resolveMode(modeName)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, codeInvalidMode, "unknown mode "+modeName)
		return
	}

	reports := s.loader.LoadMany(r.Context(), req.IDs, mode)

	resp := BatchResponse{Results: make([]ValidationResponse, len(reports))}
	for i, report := range reports {
		resp.Results[i] = s.response(req.IDs[i], report)

		if !report.Valid {
			resp.Invalid++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) resolveMode(name string) (models.Mode, bool) {
	if name == "" {
		return s.mode, true
	}

	return models.ModeFor(name)
}

func (s *Server) response(id string, report models.Report) ValidationResponse {
	resp := ValidationResponse{ID: id, Report: report}

	if report.CleanedRecord != nil {
		hash, err := fingerprint.Of(report.CleanedRecord)
		if err != nil {
			s.log.Warn("failed to fingerprint room", "room_id", id, "error", err)
		}

		resp.Fingerprint = hash
	}

	return resp
}

func (s *Server) bodyError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "request body too large")
		return
	}

	s.writeError(w, r, http.StatusBadRequest, codeInvalidBody, utils.Truncate(err.Error(), maxErrorMessage))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	}})
}

// statusFor maps degenerate reports onto HTTP status codes.
func statusFor(report models.Report) int {
	if len(report.Errors) == 1 && report.CleanedRecord == nil {
		switch report.Errors[0].Rule {
		case loader.RuleRoomNotFound:
			return http.StatusNotFound
		case loader.RuleStoreUnavailable:
			return http.StatusServiceUnavailable
		}
	}

	return http.StatusOK
}

func formatFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "yaml"):
		return "yaml"
	case strings.Contains(contentType, "json"):
		return "json"
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"error":{"code":"` + codeInternalEncode + `","message":"failed to encode response"}}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/core/client/middleware"
	"github.com/leofalp/aistudio/internal/history"
	"github.com/leofalp/aistudio/providers/ai"
	"github.com/leofalp/aistudio/tools"
)

var errHistoryDisabled = errors.New("history is disabled")

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// runRequest is the JSON body of a run call.
type runRequest struct {
	Fields map[string]string `json:"fields"`
	Image  *imagePayload     `json:"image,omitempty"`
}

type imagePayload struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 or a data URL
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tools": s.runner.Registry().Len()})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Registry().List())
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := s.runner.Registry().Get(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tool.Spec())
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, err := s.runner.Registry().Get(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := decodeRunInput(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	run, err := s.runner.Run(r.Context(), name, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	store := s.runner.History()
	if store == nil {
		s.writeError(w, r, errHistoryDisabled)
		return
	}

	opts := history.ListOptions{Tool: r.URL.Query().Get("tool")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", tools.ErrInvalidInput))
			return
		}
		opts.Limit = n
	}

	records, err := store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	store := s.runner.History()
	if store == nil {
		s.writeError(w, r, errHistoryDisabled)
		return
	}
	rec, err := store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// decodeRunInput accepts a JSON body or a multipart form whose "image" part
// is the uploaded file and whose other values are fields.
func decodeRunInput(r *http.Request) (tools.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		return decodeMultipart(r)
	}

	var req runRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return tools.Input{}, bodyError(err)
	}

	in := tools.Input{Fields: req.Fields}
	if req.Image != nil {
		in.Image = &ai.ImageData{MimeType: req.Image.MimeType, Data: req.Image.Data}
	}
	return in, nil
}

func decodeMultipart(r *http.Request) (tools.Input, error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return tools.Input{}, bodyError(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := tools.Input{Fields: make(map[string]string, len(r.MultipartForm.Value))}
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			in.Fields[key] = values[0]
		}
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return in, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return tools.Input{}, bodyError(err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return tools.Input{}, bodyError(err)
	}

	mimeType := files[0].Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(raw)
	}
	in.Image = &ai.ImageData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(raw)}
	return in, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: malformed request body: %v", tools.ErrInvalidInput, err)
}

// statusFor maps an error to the HTTP status reported to the caller.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	var apiErr *ai.APIError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tools.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrUnknownTool), errors.Is(err, history.ErrNotFound), errors.Is(err, errHistoryDisabled):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr),
		errors.Is(err, middleware.ErrRetryExhausted),
		errors.Is(err, client.ErrInvalidOutput),
		errors.Is(err, client.ErrEmptyResponse),
		errors.Is(err, client.ErrBlocked),
		errors.Is(err, ai.ErrMissingAPIKey):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "error", err)
		msg = strings.ToLower(http.StatusText(status))
	}
	writeJSON(w, status, errorBody{Error: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package kit

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const ContentTypeNDJSON = "application/x-ndjson"

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	WriteJSON(w, status, errorBody(r, msg, details))
}

func errorBody(r *http.Request, msg string, details any) ErrorResponse {
	return ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: chimw.GetReqID(r.Context()),
	}
}

// Stream writes newline-delimited JSON messages, flushing after each one.
// The 200 status is sent with the first message.
type Stream struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	enc     *json.Encoder
	started bool
}

func NewStream(w http.ResponseWriter) *Stream {
	return &Stream{
		w:   w,
		rc:  http.NewResponseController(w),
		enc: json.NewEncoder(w),
	}
}

// Started reports whether any message has been written.
func (s *Stream) Started() bool { return s.started }

// EnableFullDuplex lets the handler keep reading the request body after the
// first message went out.
func (s *Stream) EnableFullDuplex() error {
	return s.rc.EnableFullDuplex()
}

func (s *Stream) Send(v any) error {
	if !s.started {
		s.w.Header().Set("Content-Type", ContentTypeNDJSON)
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	if err := s.enc.Encode(v); err != nil {
		return err
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Fail reports an error to the client: as a regular error response when
// nothing was streamed yet, otherwise as a final error message.
func (s *Stream) Fail(r *http.Request, status int, msg string, details any) {
	if !s.started {
		WriteError(s.w, r, status, msg, details)
		return
	}
	_ = s.Send(errorBody(r, msg, details))
}

package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/shelfwise/shelfwise-server/internal/http/response"
)

// GenerateProfileRequest represents the request body for profile narration.
type GenerateProfileRequest struct {
	Queries []string `json:"queries" validate:"required,min=2,dive,required"`
}

// handleGenerateProfile streams a humorous reading-profile sketch as plain
// text. The response is chunked; each model fragment is flushed as it
// arrives.
//
// A failure before the first fragment is delivered as an apology message by
// the narrator. A failure mid-stream can only truncate the output, since the
// status line is already on the wire.
// POST /api/generate-profile
func (s *Server) handleGenerateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GenerateProfileRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support streaming")
		response.InternalError(w, "Streaming not supported", s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	for fragment := range s.narrator.Narrate(ctx, req.Queries) {
		if fragment.Err != nil {
			s.logger.Error("Profile stream aborted", "error", fragment.Err)
			return
		}
		if _, err := w.Write([]byte(fragment.Text)); err != nil {
			s.logger.Info("Client went away during profile stream", "error", err)
			return
		}
		flusher.Flush()
	}
}

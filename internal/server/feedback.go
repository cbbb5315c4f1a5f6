package server

import (
	"net/http"
	"strings"

	"lecturehub/internal/app"
)

type feedbackSubmitRequest struct {
	LectureID   string `json:"lecture_id"`
	UserID      string `json:"user_id"`
	TooFast     bool   `json:"too_fast"`
	TooSlow     bool   `json:"too_slow"`
	Boring      bool   `json:"boring"`
	BadQuestion bool   `json:"bad_question_quality"`
	Other       string `json:"other"`
}

func (s *Server) handleFeedbackSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req feedbackSubmitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.SubmitFeedback(app.SubmitFeedbackInput{
		LectureID:   req.LectureID,
		UserID:      req.UserID,
		TooFast:     req.TooFast,
		TooSlow:     req.TooSlow,
		Boring:      req.Boring,
		BadQuestion: req.BadQuestion,
		Other:       req.Other,
	}); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFeedbackByLecture serves the read side:
//
//	/feedback/lecture/{id}/feedback_summary
//	/feedback/lecture/{id}/feedback_details
//	/feedback/lecture/{id}/user/{uid}/feedback
func (s *Server) handleFeedbackByLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/feedback/lecture/"), "/")
	switch {
	case len(parts) == 2 && parts[1] == "feedback_summary":
		summary, err := s.app.SummarizeFeedback(parts[0])
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	case len(parts) == 2 && parts[1] == "feedback_details":
		comments, err := s.app.ListFeedbackComments(parts[0])
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	case len(parts) == 4 && parts[1] == "user" && parts[3] == "feedback":
		fb, err := s.app.GetFeedback(parts[0], parts[2])
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fb)
	default:
		http.NotFound(w, r)
	}
}

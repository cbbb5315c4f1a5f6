package server

import (
	"net/http"

	"lecturehub/internal/app"
)

type discussionAddRequest struct {
	LectureID string `json:"lecture_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
}

func (s *Server) handleDiscussionAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req discussionAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	msg, err := s.app.AppendDiscussion(app.AppendDiscussionInput{
		LectureID: req.LectureID,
		UserID:    req.UserID,
		Content:   req.Content,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleDiscussionByLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/discussion/lecture/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	msgs, err := s.app.ListDiscussion(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

package server

import (
	"net/http"

	"lecturehub/internal/app"
)

type invitationRequest struct {
	LectureID string `json:"lecture_id"`
	SpeakerID string `json:"speaker_id"`
	Status    int    `json:"status"`
}

func (s *Server) handleInvitationCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req invitationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inv, err := s.app.CreateInvitation(app.CreateInvitationInput{
		LectureID: req.LectureID,
		SpeakerID: req.SpeakerID,
		Status:    req.Status,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// handleInvitations serves /invitation/ (list) and /invitation/{id} for
// GET, PUT, and DELETE.
func (s *Server) handleInvitations(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/invitation/" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		invs, err := s.app.ListInvitations()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invs)
		return
	}
	id, ok := pathTail(r, "/invitation/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		inv, err := s.app.GetInvitation(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	case http.MethodPut:
		var req invitationRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		inv, err := s.app.UpdateInvitation(id, app.UpdateInvitationInput{
			LectureID: req.LectureID,
			SpeakerID: req.SpeakerID,
			Status:    req.Status,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	case http.MethodDelete:
		if err := s.app.DeleteInvitation(id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleInvitationAccept(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/invitation/accept/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	inv, err := s.app.AcceptInvitation(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInvitationsBySpeaker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/invitation/byspeaker/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	invs, err := s.app.ListInvitationsBySpeaker(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}

// handleInvitationsByLecture bulk-deletes every invitation of a lecture.
func (s *Server) handleInvitationsByLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/invitation/lid/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	n, err := s.app.DeleteInvitationsByLecture(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

package server

import (
	"net/http"

	"lecturehub/internal/app"
)

type attendanceAddRequest struct {
	LectureID  string `json:"lecture_id"`
	AudienceID string `json:"audience_id"`
	IsPresent  bool   `json:"is_present"`
	JoinedAt   int64  `json:"joined_at"`
}

type updatePresenceRequest struct {
	LectureID  string `json:"lecture_id"`
	AudienceID string `json:"audience_id"`
	IsPresent  bool   `json:"is_present"`
}

func (s *Server) handleAttendanceAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req attendanceAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rec, err := s.app.AddAttendance(app.AddAttendanceInput{
		LectureID:  req.LectureID,
		AudienceID: req.AudienceID,
		IsPresent:  req.IsPresent,
		JoinedAt:   req.JoinedAt,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateIsPresent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req updatePresenceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.app.UpsertPresence(req.LectureID, req.AudienceID, req.IsPresent)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (s *Server) handleAttendanceByLecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	lectureID := r.URL.Query().Get("lecture_id")
	records, err := s.app.ListAttendanceByLecture(lectureID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleAttendanceByAudience(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	audienceID := r.URL.Query().Get("audience_id")
	records, err := s.app.ListAttendanceByAudience(audienceID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handlePresentUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	lectureID := r.URL.Query().Get("lecture_id")
	users, err := s.app.ListPresentUsers(lectureID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleLecturesByUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/attendance/lectures_by_user/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	lectures, err := s.app.LecturesByAttendee(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lectures)
}

func (s *Server) handleAttendanceDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	if err := s.app.DeleteAttendance(q.Get("lecture_id"), q.Get("audience_id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAttendanceByLectureDelete bulk-deletes a lecture's attendance.
func (s *Server) handleAttendanceByLectureDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/attendance/bylecture/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	n, err := s.app.DeleteAttendanceByLecture(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

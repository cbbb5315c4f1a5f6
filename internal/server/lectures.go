package server

import (
	"net/http"
	"strconv"

	"lecturehub/internal/app"
)

type lectureCreateRequest struct {
	Topic       string `json:"topic"`
	StartTime   string `json:"start_time"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	SpeakerID   string `json:"speaker_id"`
	OrganizerID string `json:"organizer_id"`
	Status      int    `json:"status"`
}

type lectureUpdateRequest struct {
	Topic       *string `json:"topic"`
	StartTime   any     `json:"start_time"`
	Duration    *int    `json:"duration"`
	Description *string `json:"description"`
	SpeakerID   *string `json:"speaker_id"`
	OrganizerID *string `json:"organizer_id"`
	Status      *int    `json:"status"`
}

func (s *Server) handleLectureCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req lectureCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	lecture, err := s.app.CreateLecture(app.CreateLectureInput{
		Topic:       req.Topic,
		StartTime:   req.StartTime,
		Duration:    req.Duration,
		Description: req.Description,
		SpeakerID:   req.SpeakerID,
		OrganizerID: req.OrganizerID,
		Status:      req.Status,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lecture)
}

// handleLectures serves /lecture/ (list) and /lecture/{id} for
// GET, PUT, and DELETE.
func (s *Server) handleLectures(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/lecture/" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		lectures, err := s.app.ListLectures()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lectures)
		return
	}
	id, ok := pathTail(r, "/lecture/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		lecture, err := s.app.GetLecture(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lecture)
	case http.MethodPut:
		var req lectureUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		lecture, err := s.app.UpdateLecture(id, app.LectureUpdateInput{
			Topic:       req.Topic,
			StartTime:   req.StartTime,
			Duration:    req.Duration,
			Description: req.Description,
			SpeakerID:   req.SpeakerID,
			OrganizerID: req.OrganizerID,
			Status:      req.Status,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lecture)
	case http.MethodDelete:
		if err := s.app.DeleteLecture(id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleLectureByCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	raw, ok := pathTail(r, "/lecture/by_code/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lecture code must be numeric")
		return
	}
	lecture, err := s.app.GetLectureByCode(code)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lecture)
}

func (s *Server) handleLecturesByOrganizer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/lecture/by_organizer/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	lectures, err := s.app.ListLecturesByOrganizer(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lectures)
}

func (s *Server) handleLecturesBySpeaker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathTail(r, "/lecture/by_speaker/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	lectures, err := s.app.ListLecturesBySpeaker(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lectures)
}

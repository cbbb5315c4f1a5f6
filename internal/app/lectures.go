package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lecturehub/pkg/domain"
)

// CreateLectureInput carries the lecture creation payload. StartTime is an
// ISO-8601 string; SpeakerID may be blank or undecodable and is then
// treated as absent.
type CreateLectureInput struct {
	Topic       string
	StartTime   string
	Duration    int
	Description string
	SpeakerID   string
	OrganizerID string
	Status      int
}

// LectureUpdateInput carries a partial lecture mutation. StartTime accepts
// either an ISO-8601 string or an epoch-millisecond number.
type LectureUpdateInput struct {
	Topic       *string
	StartTime   any
	Duration    *int
	Description *string
	SpeakerID   *string
	OrganizerID *string
	Status      *int
}

func parseISOMillis(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
	}
	return t.UnixMilli(), nil
}

func parseStartTimeValue(v any) (int64, error) {
	switch val := v.(type) {
	case string:
		return parseISOMillis(val)
	case float64:
		return int64(val), nil
	case int64:
		return val, nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidStartTime, val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidStartTime, v)
	}
}

// allocateCode draws random candidate codes and probes the registry until
// one is free. The probe and the later insert are two separate
// single-document operations; a concurrent caller can win the same code
// in between. The loop is bounded so the operation terminates under
// contention instead of spinning.
func (a *App) allocateCode() (int, error) {
	for i := 0; i < a.codeAttempts; i++ {
		code := a.drawCode()
		_, exists, err := a.store.GetLectureByCode(code)
		if err != nil {
			return 0, fmt.Errorf("probe lecture code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return 0, ErrCodeSpaceExhausted
}

// CreateLecture validates the payload, allocates a share code, and inserts
// the lecture.
func (a *App) CreateLecture(in CreateLectureInput) (domain.Lecture, error) {
	organizerID, err := parseID(in.OrganizerID)
	if err != nil {
		return domain.Lecture{}, err
	}
	startTime, err := parseISOMillis(in.StartTime)
	if err != nil {
		return domain.Lecture{}, err
	}
	code, err := a.allocateCode()
	if err != nil {
		return domain.Lecture{}, err
	}

	lecture := domain.Lecture{
		Topic:       in.Topic,
		StartTime:   startTime,
		Duration:    in.Duration,
		Description: in.Description,
		SpeakerID:   optionalID(in.SpeakerID),
		OrganizerID: organizerID,
		LectureCode: code,
		Status:      in.Status,
	}
	id, err := a.store.CreateLecture(lecture)
	if err != nil {
		return domain.Lecture{}, fmt.Errorf("create lecture: %w", err)
	}
	lecture.ID = id
	return lecture, nil
}

// GetLecture returns a lecture by id.
func (a *App) GetLecture(id string) (domain.Lecture, error) {
	lectureID, err := parseID(id)
	if err != nil {
		return domain.Lecture{}, err
	}
	lecture, ok, err := a.store.GetLecture(lectureID)
	if err != nil {
		return domain.Lecture{}, fmt.Errorf("get lecture: %w", err)
	}
	if !ok {
		return domain.Lecture{}, ErrLectureNotFound
	}
	return lecture, nil
}

// GetLectureByCode returns the lecture holding a share code.
func (a *App) GetLectureByCode(code int) (domain.Lecture, error) {
	lecture, ok, err := a.store.GetLectureByCode(code)
	if err != nil {
		return domain.Lecture{}, fmt.Errorf("get lecture by code: %w", err)
	}
	if !ok {
		return domain.Lecture{}, ErrLectureNotFound
	}
	return lecture, nil
}

// ListLectures returns every lecture.
func (a *App) ListLectures() ([]domain.Lecture, error) {
	return a.store.ListLectures()
}

// ListLecturesByOrganizer returns lectures created by an organizer.
func (a *App) ListLecturesByOrganizer(organizerID string) ([]domain.Lecture, error) {
	id, err := parseID(organizerID)
	if err != nil {
		return nil, err
	}
	return a.store.ListLecturesByOrganizer(id)
}

// ListLecturesBySpeaker returns lectures assigned to a speaker.
func (a *App) ListLecturesBySpeaker(speakerID string) ([]domain.Lecture, error) {
	id, err := parseID(speakerID)
	if err != nil {
		return nil, err
	}
	return a.store.ListLecturesBySpeaker(id)
}

// UpdateLecture applies a partial update and returns the fresh record.
func (a *App) UpdateLecture(id string, in LectureUpdateInput) (domain.Lecture, error) {
	lectureID, err := parseID(id)
	if err != nil {
		return domain.Lecture{}, err
	}

	upd := domain.LectureUpdate{
		Topic:       in.Topic,
		Duration:    in.Duration,
		Description: in.Description,
		Status:      in.Status,
	}
	if in.StartTime != nil {
		ms, err := parseStartTimeValue(in.StartTime)
		if err != nil {
			return domain.Lecture{}, err
		}
		upd.StartTime = &ms
	}
	if in.SpeakerID != nil {
		// A blank speaker clears the assignment.
		speaker := strings.TrimSpace(*in.SpeakerID)
		upd.SpeakerID = &speaker
	}
	if in.OrganizerID != nil {
		if organizer := strings.TrimSpace(*in.OrganizerID); organizer != "" {
			upd.OrganizerID = &organizer
		}
	}
	if upd.Empty() {
		return domain.Lecture{}, ErrEmptyUpdate
	}

	matched, err := a.store.UpdateLecture(lectureID, upd)
	if err != nil {
		return domain.Lecture{}, fmt.Errorf("update lecture: %w", err)
	}
	if !matched {
		return domain.Lecture{}, ErrLectureNotFound
	}
	return a.GetLecture(lectureID)
}

// DeleteLecture removes a lecture. Dependent invitations, attendance,
// feedback, and discussions are left untouched; callers tear them down
// with the bulk delete-by-lecture operations.
func (a *App) DeleteLecture(id string) error {
	lectureID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := a.store.DeleteLecture(lectureID)
	if err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	if !deleted {
		return ErrLectureNotFound
	}
	return nil
}

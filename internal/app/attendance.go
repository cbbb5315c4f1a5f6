package app

import (
	"fmt"

	"lecturehub/pkg/domain"
)

// AddAttendanceInput carries the attendance creation payload. A zero
// JoinedAt is stamped with the current time.
type AddAttendanceInput struct {
	LectureID  string
	AudienceID string
	IsPresent  bool
	JoinedAt   int64
}

// AddAttendance inserts an attendance record without the per-pair
// uniqueness guarantee. The canonical write path is UpsertPresence.
func (a *App) AddAttendance(in AddAttendanceInput) (domain.Attendance, error) {
	lectureID, err := parseID(in.LectureID)
	if err != nil {
		return domain.Attendance{}, err
	}
	audienceID, err := parseID(in.AudienceID)
	if err != nil {
		return domain.Attendance{}, err
	}

	joined := in.JoinedAt
	if joined == 0 {
		joined = a.nowMillis()
	}
	rec := domain.Attendance{
		LectureID:  lectureID,
		AudienceID: audienceID,
		IsPresent:  in.IsPresent,
		JoinedAt:   joined,
	}
	id, err := a.store.AddAttendance(rec)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("add attendance: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// UpsertPresence sets an audience member's presence for a lecture in one
// atomic match-or-insert, so concurrent calls for the same pair never
// produce duplicate records. It reports whether an existing record was
// updated.
func (a *App) UpsertPresence(lectureID, audienceID string, present bool) (bool, error) {
	lid, err := parseID(lectureID)
	if err != nil {
		return false, err
	}
	aid, err := parseID(audienceID)
	if err != nil {
		return false, err
	}
	updated, err := a.store.UpsertPresence(lid, aid, present, a.nowMillis())
	if err != nil {
		return false, fmt.Errorf("upsert presence: %w", err)
	}
	return updated, nil
}

// ListAttendanceByLecture returns the attendance records of a lecture.
func (a *App) ListAttendanceByLecture(lectureID string) ([]domain.Attendance, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return nil, err
	}
	return a.store.ListAttendanceByLecture(id)
}

// ListAttendanceByAudience returns an audience member's attendance records.
func (a *App) ListAttendanceByAudience(audienceID string) ([]domain.Attendance, error) {
	id, err := parseID(audienceID)
	if err != nil {
		return nil, err
	}
	return a.store.ListAttendanceByAudience(id)
}

// LecturesByAttendee resolves the lectures an audience member holds
// attendance records for. Records whose lecture was deleted are skipped.
func (a *App) LecturesByAttendee(audienceID string) ([]domain.Lecture, error) {
	id, err := parseID(audienceID)
	if err != nil {
		return nil, err
	}
	records, err := a.store.ListAttendanceByAudience(id)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	lectures := make([]domain.Lecture, 0, len(records))
	for _, rec := range records {
		lec, ok, err := a.store.GetLecture(rec.LectureID)
		if err != nil {
			return nil, fmt.Errorf("resolve attended lecture: %w", err)
		}
		if ok {
			lectures = append(lectures, lec)
		}
	}
	return lectures, nil
}

// ListPresentUsers resolves the profiles of everyone currently marked
// present at a lecture. Password hashes never leave the store layer
// unsanitized.
func (a *App) ListPresentUsers(lectureID string) ([]domain.User, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return nil, err
	}
	audienceIDs, err := a.store.ListPresentAudienceIDs(id)
	if err != nil {
		return nil, fmt.Errorf("list present audience: %w", err)
	}
	if len(audienceIDs) == 0 {
		return []domain.User{}, nil
	}
	users, err := a.store.ListUsersByIDs(audienceIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve present users: %w", err)
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	return out, nil
}

// DeleteAttendance removes the attendance record for one
// (lecture, audience) pair.
func (a *App) DeleteAttendance(lectureID, audienceID string) error {
	lid, err := parseID(lectureID)
	if err != nil {
		return err
	}
	aid, err := parseID(audienceID)
	if err != nil {
		return err
	}
	deleted, err := a.store.DeleteAttendanceByKey(lid, aid)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if !deleted {
		return ErrAttendanceNotFound
	}
	return nil
}

// DeleteAttendanceByLecture bulk-removes a lecture's attendance records.
func (a *App) DeleteAttendanceByLecture(lectureID string) (int64, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return 0, err
	}
	n, err := a.store.DeleteAttendanceByLecture(id)
	if err != nil {
		return 0, fmt.Errorf("delete attendance by lecture: %w", err)
	}
	return n, nil
}

package store

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lecturehub/pkg/domain"
)

// MemoryStore keeps every collection in-process. It backs tests and mirrors
// the Mongo implementation's semantics: per-record atomicity under one
// mutex, insertion order preserved, no cross-collection integrity.
type MemoryStore struct {
	mu          sync.RWMutex
	users       []domain.User
	lectures    []domain.Lecture
	invitations []domain.Invitation
	attendance  []domain.Attendance
	feedback    []domain.Feedback
	discussions []domain.Discussion
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func newHexID() string {
	return primitive.NewObjectID().Hex()
}

// CreateUser appends a user and returns its minted id.
func (m *MemoryStore) CreateUser(u domain.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = newHexID()
	m.users = append(m.users, u)
	return u.ID, nil
}

// HasUsername checks if a username exists.
func (m *MemoryStore) HasUsername(username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// HasEmail checks if an email exists.
func (m *MemoryStore) HasEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by id.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

// ListUsers returns every user in insertion order.
func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, len(m.users))
	copy(res, m.users)
	return res, nil
}

// ListUsersByIDs returns users matching ids; unknown ids are skipped.
func (m *MemoryStore) ListUsersByIDs(ids []string) ([]domain.User, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.User
	for _, u := range m.users {
		if wanted[u.ID] {
			res = append(res, u)
		}
	}
	return res, nil
}

// UpdateUser applies a partial profile update.
func (m *MemoryStore) UpdateUser(id string, upd domain.UserUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID != id {
			continue
		}
		if upd.Username != nil {
			u.Username = *upd.Username
		}
		if upd.Gender != nil {
			u.Gender = *upd.Gender
		}
		if upd.Age != nil {
			u.Age = *upd.Age
		}
		if upd.Motto != nil {
			u.Motto = *upd.Motto
		}
		m.users[i] = u
		return true, nil
	}
	return false, nil
}

// CreateLecture appends a lecture and returns its minted id.
func (m *MemoryStore) CreateLecture(l domain.Lecture) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = newHexID()
	m.lectures = append(m.lectures, l)
	return l.ID, nil
}

// GetLecture returns a lecture by id.
func (m *MemoryStore) GetLecture(id string) (domain.Lecture, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lectures {
		if l.ID == id {
			return l, true, nil
		}
	}
	return domain.Lecture{}, false, nil
}

// GetLectureByCode returns the lecture holding a share code.
func (m *MemoryStore) GetLectureByCode(code int) (domain.Lecture, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lectures {
		if l.LectureCode == code {
			return l, true, nil
		}
	}
	return domain.Lecture{}, false, nil
}

// ListLectures returns every lecture in insertion order.
func (m *MemoryStore) ListLectures() ([]domain.Lecture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Lecture, len(m.lectures))
	copy(res, m.lectures)
	return res, nil
}

// ListLecturesByOrganizer filters lectures by organizer.
func (m *MemoryStore) ListLecturesByOrganizer(organizerID string) ([]domain.Lecture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Lecture
	for _, l := range m.lectures {
		if l.OrganizerID == organizerID {
			res = append(res, l)
		}
	}
	return res, nil
}

// ListLecturesBySpeaker filters lectures by assigned speaker.
func (m *MemoryStore) ListLecturesBySpeaker(speakerID string) ([]domain.Lecture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Lecture
	for _, l := range m.lectures {
		if l.SpeakerID == speakerID {
			res = append(res, l)
		}
	}
	return res, nil
}

// UpdateLecture applies a partial update.
func (m *MemoryStore) UpdateLecture(id string, upd domain.LectureUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lectures {
		if l.ID != id {
			continue
		}
		if upd.Topic != nil {
			l.Topic = *upd.Topic
		}
		if upd.StartTime != nil {
			l.StartTime = *upd.StartTime
		}
		if upd.Duration != nil {
			l.Duration = *upd.Duration
		}
		if upd.Description != nil {
			l.Description = *upd.Description
		}
		if upd.SpeakerID != nil {
			l.SpeakerID = *upd.SpeakerID
		}
		if upd.OrganizerID != nil {
			l.OrganizerID = *upd.OrganizerID
		}
		if upd.Status != nil {
			l.Status = *upd.Status
		}
		m.lectures[i] = l
		return true, nil
	}
	return false, nil
}

// SetLectureSpeaker assigns the speaker; idempotent.
func (m *MemoryStore) SetLectureSpeaker(id, speakerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lectures {
		if m.lectures[i].ID == id {
			m.lectures[i].SpeakerID = speakerID
			return true, nil
		}
	}
	return false, nil
}

// DeleteLecture removes a lecture only; dependents stay behind.
func (m *MemoryStore) DeleteLecture(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lectures {
		if m.lectures[i].ID == id {
			m.lectures = append(m.lectures[:i], m.lectures[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CreateInvitation appends an invitation; duplicates are permitted.
func (m *MemoryStore) CreateInvitation(inv domain.Invitation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = newHexID()
	m.invitations = append(m.invitations, inv)
	return inv.ID, nil
}

// GetInvitation returns an invitation by id.
func (m *MemoryStore) GetInvitation(id string) (domain.Invitation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.invitations {
		if inv.ID == id {
			return inv, true, nil
		}
	}
	return domain.Invitation{}, false, nil
}

// ListInvitations returns every invitation.
func (m *MemoryStore) ListInvitations() ([]domain.Invitation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Invitation, len(m.invitations))
	copy(res, m.invitations)
	return res, nil
}

// ListInvitationsBySpeaker filters invitations by speaker.
func (m *MemoryStore) ListInvitationsBySpeaker(speakerID string) ([]domain.Invitation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Invitation
	for _, inv := range m.invitations {
		if inv.SpeakerID == speakerID {
			res = append(res, inv)
		}
	}
	return res, nil
}

// ReplaceInvitation overwrites every field.
func (m *MemoryStore) ReplaceInvitation(id string, inv domain.Invitation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invitations {
		if m.invitations[i].ID == id {
			inv.ID = id
			m.invitations[i] = inv
			return true, nil
		}
	}
	return false, nil
}

// SetInvitationStatus flips the lifecycle state; idempotent.
func (m *MemoryStore) SetInvitationStatus(id string, status domain.InvitationStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invitations {
		if m.invitations[i].ID == id {
			m.invitations[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

// DeleteInvitation removes an invitation by id.
func (m *MemoryStore) DeleteInvitation(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invitations {
		if m.invitations[i].ID == id {
			m.invitations = append(m.invitations[:i], m.invitations[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// DeleteInvitationsByLecture bulk-deletes for lecture teardown.
func (m *MemoryStore) DeleteInvitationsByLecture(lectureID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	kept := m.invitations[:0]
	for _, inv := range m.invitations {
		if inv.LectureID == lectureID {
			deleted++
			continue
		}
		kept = append(kept, inv)
	}
	m.invitations = kept
	return deleted, nil
}

// AddAttendance appends a record without a uniqueness check.
func (m *MemoryStore) AddAttendance(a domain.Attendance) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = newHexID()
	m.attendance = append(m.attendance, a)
	return a.ID, nil
}

// UpsertPresence matches on (lecture, audience) and updates, or inserts,
// under a single lock acquisition.
func (m *MemoryStore) UpsertPresence(lectureID, audienceID string, present bool, joinedAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.attendance {
		if m.attendance[i].LectureID == lectureID && m.attendance[i].AudienceID == audienceID {
			m.attendance[i].IsPresent = present
			m.attendance[i].JoinedAt = joinedAt
			return true, nil
		}
	}
	m.attendance = append(m.attendance, domain.Attendance{
		ID:         newHexID(),
		LectureID:  lectureID,
		AudienceID: audienceID,
		IsPresent:  present,
		JoinedAt:   joinedAt,
	})
	return false, nil
}

// ListAttendanceByLecture filters attendance by lecture.
func (m *MemoryStore) ListAttendanceByLecture(lectureID string) ([]domain.Attendance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Attendance
	for _, a := range m.attendance {
		if a.LectureID == lectureID {
			res = append(res, a)
		}
	}
	return res, nil
}

// ListAttendanceByAudience filters attendance by audience member.
func (m *MemoryStore) ListAttendanceByAudience(audienceID string) ([]domain.Attendance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Attendance
	for _, a := range m.attendance {
		if a.AudienceID == audienceID {
			res = append(res, a)
		}
	}
	return res, nil
}

// ListPresentAudienceIDs returns audience ids marked present.
func (m *MemoryStore) ListPresentAudienceIDs(lectureID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []string
	for _, a := range m.attendance {
		if a.LectureID == lectureID && a.IsPresent {
			res = append(res, a.AudienceID)
		}
	}
	return res, nil
}

// DeleteAttendanceByKey removes one (lecture, audience) record.
func (m *MemoryStore) DeleteAttendanceByKey(lectureID, audienceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.attendance {
		if m.attendance[i].LectureID == lectureID && m.attendance[i].AudienceID == audienceID {
			m.attendance = append(m.attendance[:i], m.attendance[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// DeleteAttendanceByLecture bulk-deletes for lecture teardown.
func (m *MemoryStore) DeleteAttendanceByLecture(lectureID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	kept := m.attendance[:0]
	for _, a := range m.attendance {
		if a.LectureID == lectureID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.attendance = kept
	return deleted, nil
}

// UpsertFeedback replaces the record for a (lecture, user) key; last
// write wins.
func (m *MemoryStore) UpsertFeedback(f domain.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.feedback {
		if m.feedback[i].LectureID == f.LectureID && m.feedback[i].UserID == f.UserID {
			f.ID = m.feedback[i].ID
			m.feedback[i] = f
			return nil
		}
	}
	f.ID = newHexID()
	m.feedback = append(m.feedback, f)
	return nil
}

// GetFeedback returns the record for a (lecture, user) pair.
func (m *MemoryStore) GetFeedback(lectureID, userID string) (domain.Feedback, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.feedback {
		if f.LectureID == lectureID && f.UserID == userID {
			return f, true, nil
		}
	}
	return domain.Feedback{}, false, nil
}

// SummarizeFeedback counts set flags across a lecture's feedback.
func (m *MemoryStore) SummarizeFeedback(lectureID string) (domain.FeedbackSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum domain.FeedbackSummary
	for _, f := range m.feedback {
		if f.LectureID != lectureID {
			continue
		}
		if f.TooFast {
			sum.TooFast++
		}
		if f.TooSlow {
			sum.TooSlow++
		}
		if f.Boring {
			sum.Boring++
		}
		if f.BadQuestion {
			sum.BadQuestion++
		}
	}
	return sum, nil
}

// ListFeedbackWithComments returns feedback entries carrying free text.
func (m *MemoryStore) ListFeedbackWithComments(lectureID string) ([]domain.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Feedback
	for _, f := range m.feedback {
		if f.LectureID == lectureID && f.Other != "" {
			res = append(res, f)
		}
	}
	return res, nil
}

// DeleteFeedbackByLecture bulk-deletes for lecture teardown.
func (m *MemoryStore) DeleteFeedbackByLecture(lectureID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	kept := m.feedback[:0]
	for _, f := range m.feedback {
		if f.LectureID == lectureID {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	m.feedback = kept
	return deleted, nil
}

// AppendDiscussion appends a message; the log is append-only.
func (m *MemoryStore) AppendDiscussion(d domain.Discussion) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = newHexID()
	m.discussions = append(m.discussions, d)
	return d.ID, nil
}

// ListDiscussionsByLecture returns messages in insertion order.
func (m *MemoryStore) ListDiscussionsByLecture(lectureID string) ([]domain.Discussion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Discussion
	for _, d := range m.discussions {
		if d.LectureID == lectureID {
			res = append(res, d)
		}
	}
	return res, nil
}

// DeleteDiscussionsByLecture bulk-deletes for lecture teardown.
func (m *MemoryStore) DeleteDiscussionsByLecture(lectureID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	kept := m.discussions[:0]
	for _, d := range m.discussions {
		if d.LectureID == lectureID {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	m.discussions = kept
	return deleted, nil
}

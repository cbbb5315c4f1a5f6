package store

import "lecturehub/pkg/domain"

// Store defines persistence for users, lectures, and the workflow records
// hanging off them. Implementations guarantee per-record atomicity only:
// there are no cross-record transactions, and the compound operations built
// on top (invitation accept, lecture code allocation) rely on every
// sub-step being individually idempotent.
type Store interface {
	// users
	CreateUser(u domain.User) (string, error)
	HasUsername(username string) (bool, error)
	HasEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	ListUsers() ([]domain.User, error)
	ListUsersByIDs(ids []string) ([]domain.User, error)
	UpdateUser(id string, upd domain.UserUpdate) (bool, error)

	// lectures
	CreateLecture(l domain.Lecture) (string, error)
	GetLecture(id string) (domain.Lecture, bool, error)
	GetLectureByCode(code int) (domain.Lecture, bool, error)
	ListLectures() ([]domain.Lecture, error)
	ListLecturesByOrganizer(organizerID string) ([]domain.Lecture, error)
	ListLecturesBySpeaker(speakerID string) ([]domain.Lecture, error)
	UpdateLecture(id string, upd domain.LectureUpdate) (bool, error)
	SetLectureSpeaker(id, speakerID string) (bool, error)
	DeleteLecture(id string) (bool, error)

	// invitations
	CreateInvitation(inv domain.Invitation) (string, error)
	GetInvitation(id string) (domain.Invitation, bool, error)
	ListInvitations() ([]domain.Invitation, error)
	ListInvitationsBySpeaker(speakerID string) ([]domain.Invitation, error)
	ReplaceInvitation(id string, inv domain.Invitation) (bool, error)
	SetInvitationStatus(id string, status domain.InvitationStatus) (bool, error)
	DeleteInvitation(id string) (bool, error)
	DeleteInvitationsByLecture(lectureID string) (int64, error)

	// attendance
	AddAttendance(a domain.Attendance) (string, error)
	// UpsertPresence executes a single atomic match-or-insert keyed on
	// (lectureID, audienceID). It reports whether an existing record was
	// updated (true) or a new one inserted (false).
	UpsertPresence(lectureID, audienceID string, present bool, joinedAt int64) (bool, error)
	ListAttendanceByLecture(lectureID string) ([]domain.Attendance, error)
	ListAttendanceByAudience(audienceID string) ([]domain.Attendance, error)
	ListPresentAudienceIDs(lectureID string) ([]string, error)
	DeleteAttendanceByKey(lectureID, audienceID string) (bool, error)
	DeleteAttendanceByLecture(lectureID string) (int64, error)

	// feedback
	UpsertFeedback(f domain.Feedback) error
	GetFeedback(lectureID, userID string) (domain.Feedback, bool, error)
	SummarizeFeedback(lectureID string) (domain.FeedbackSummary, error)
	ListFeedbackWithComments(lectureID string) ([]domain.Feedback, error)
	DeleteFeedbackByLecture(lectureID string) (int64, error)

	// discussions
	AppendDiscussion(d domain.Discussion) (string, error)
	ListDiscussionsByLecture(lectureID string) ([]domain.Discussion, error)
	DeleteDiscussionsByLecture(lectureID string) (int64, error)
}

// SessionStore persists session tokens issued at login.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}

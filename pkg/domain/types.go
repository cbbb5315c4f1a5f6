package domain

// InvitationStatus tracks the two-state invitation lifecycle.
type InvitationStatus int

const (
	InvitationPending  InvitationStatus = 0
	InvitationAccepted InvitationStatus = 1
)

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         int    `json:"role"`
	Avatar       string `json:"avatar"`
	Background   string `json:"background"`
	Gender       int    `json:"gender,omitempty"`
	Age          int    `json:"age,omitempty"`
	Motto        string `json:"motto,omitempty"`
}

// Lecture is the aggregate root. StartTime is epoch milliseconds; SpeakerID
// is empty until a speaker is assigned.
type Lecture struct {
	ID          string `json:"id"`
	Topic       string `json:"topic"`
	StartTime   int64  `json:"start_time"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	SpeakerID   string `json:"speaker_id,omitempty"`
	OrganizerID string `json:"organizer_id"`
	LectureCode int    `json:"lecturecode"`
	Status      int    `json:"status"`
}

type Invitation struct {
	ID        string           `json:"id"`
	LectureID string           `json:"lecture_id"`
	SpeakerID string           `json:"speaker_id"`
	Status    InvitationStatus `json:"status"`
}

// Attendance links an audience member to a lecture. At most one record
// exists per (lecture, audience) pair on the canonical write path.
type Attendance struct {
	ID         string `json:"id"`
	LectureID  string `json:"lecture_id"`
	AudienceID string `json:"audience_id"`
	IsPresent  bool   `json:"is_present"`
	JoinedAt   int64  `json:"joined_at"`
}

type Feedback struct {
	ID          string `json:"id"`
	LectureID   string `json:"lecture_id"`
	UserID      string `json:"user_id"`
	TooFast     bool   `json:"too_fast"`
	TooSlow     bool   `json:"too_slow"`
	Boring      bool   `json:"boring"`
	BadQuestion bool   `json:"bad_question_quality"`
	Other       string `json:"other"`
	CreatedAt   int64  `json:"created_at"`
}

// FeedbackSummary counts how many submissions set each flag.
type FeedbackSummary struct {
	TooFast     int `json:"too_fast"`
	TooSlow     int `json:"too_slow"`
	Boring      int `json:"boring"`
	BadQuestion int `json:"bad_question_quality"`
}

// FeedbackComment is a free-text feedback entry enriched with the
// submitter's public profile.
type FeedbackComment struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Comment  string `json:"comment"`
}

type Discussion struct {
	ID        string `json:"id"`
	LectureID string `json:"lecture_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// DiscussionMessage is a discussion entry enriched with the poster's
// public profile at read time.
type DiscussionMessage struct {
	Discussion
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

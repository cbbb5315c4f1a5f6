package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lecturehub/pkg/domain"
)

// BSON documents persisted by MongoStore. Lecture keeps speaker_id and
// organizer_id as hex strings; the dependent collections reference their
// targets with ObjectIDs. Either way the reference is a lookup key only,
// never enforced by the storage engine.

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password"`
	Role       int                `bson:"role"`
	Avatar     string             `bson:"avatar"`
	Background string             `bson:"background"`
	Gender     int                `bson:"gender,omitempty"`
	Age        int                `bson:"age,omitempty"`
	Motto      string             `bson:"motto,omitempty"`
}

type lectureDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Topic       string             `bson:"topic"`
	StartTime   int64              `bson:"start_time"`
	Duration    int                `bson:"duration"`
	Description string             `bson:"description"`
	SpeakerID   string             `bson:"speaker_id,omitempty"`
	OrganizerID string             `bson:"organizer_id"`
	LectureCode int                `bson:"lecturecode"`
	Status      int                `bson:"status"`
}

type invitationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	LectureID primitive.ObjectID `bson:"lecture_id"`
	SpeakerID primitive.ObjectID `bson:"speaker_id"`
	Status    int                `bson:"status"`
}

type attendanceDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	LectureID  primitive.ObjectID `bson:"lecture_id"`
	AudienceID primitive.ObjectID `bson:"audience_id"`
	IsPresent  bool               `bson:"is_present"`
	JoinedAt   int64              `bson:"joined_at"`
}

type feedbackDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	LectureID   primitive.ObjectID `bson:"lecture_id"`
	UserID      primitive.ObjectID `bson:"user_id"`
	TooFast     bool               `bson:"too_fast"`
	TooSlow     bool               `bson:"too_slow"`
	Boring      bool               `bson:"boring"`
	BadQuestion bool               `bson:"bad_question_quality"`
	Other       string             `bson:"other"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}

type discussionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	LectureID primitive.ObjectID `bson:"lecture_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Content   string             `bson:"content"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

func userFromDoc(d userDoc) domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		Avatar:       d.Avatar,
		Background:   d.Background,
		Gender:       d.Gender,
		Age:          d.Age,
		Motto:        d.Motto,
	}
}

func lectureFromDoc(d lectureDoc) domain.Lecture {
	return domain.Lecture{
		ID:          d.ID.Hex(),
		Topic:       d.Topic,
		StartTime:   d.StartTime,
		Duration:    d.Duration,
		Description: d.Description,
		SpeakerID:   d.SpeakerID,
		OrganizerID: d.OrganizerID,
		LectureCode: d.LectureCode,
		Status:      d.Status,
	}
}

func invitationFromDoc(d invitationDoc) domain.Invitation {
	return domain.Invitation{
		ID:        d.ID.Hex(),
		LectureID: d.LectureID.Hex(),
		SpeakerID: d.SpeakerID.Hex(),
		Status:    domain.InvitationStatus(d.Status),
	}
}

func attendanceFromDoc(d attendanceDoc) domain.Attendance {
	return domain.Attendance{
		ID:         d.ID.Hex(),
		LectureID:  d.LectureID.Hex(),
		AudienceID: d.AudienceID.Hex(),
		IsPresent:  d.IsPresent,
		JoinedAt:   d.JoinedAt,
	}
}

func feedbackFromDoc(d feedbackDoc) domain.Feedback {
	return domain.Feedback{
		ID:          d.ID.Hex(),
		LectureID:   d.LectureID.Hex(),
		UserID:      d.UserID.Hex(),
		TooFast:     d.TooFast,
		TooSlow:     d.TooSlow,
		Boring:      d.Boring,
		BadQuestion: d.BadQuestion,
		Other:       d.Other,
		CreatedAt:   int64(d.CreatedAt),
	}
}

func discussionFromDoc(d discussionDoc) domain.Discussion {
	return domain.Discussion{
		ID:        d.ID.Hex(),
		LectureID: d.LectureID.Hex(),
		UserID:    d.UserID.Hex(),
		Content:   d.Content,
		CreatedAt: int64(d.CreatedAt),
	}
}

package domain

// LectureUpdate carries a partial lecture mutation. Nil fields are left
// untouched. A SpeakerID pointing at an empty string clears the speaker.
type LectureUpdate struct {
	Topic       *string
	StartTime   *int64
	Duration    *int
	Description *string
	SpeakerID   *string
	OrganizerID *string
	Status      *int
}

// Empty reports whether the update carries no fields.
func (u LectureUpdate) Empty() bool {
	return u.Topic == nil && u.StartTime == nil && u.Duration == nil &&
		u.Description == nil && u.SpeakerID == nil && u.OrganizerID == nil && u.Status == nil
}

// UserUpdate carries a partial profile mutation. Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Gender   *int
	Age      *int
	Motto    *string
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Gender == nil && u.Age == nil && u.Motto == nil
}

package app

import (
	"fmt"

	"lecturehub/pkg/domain"
)

// SubmitFeedbackInput carries one feedback submission.
type SubmitFeedbackInput struct {
	LectureID   string
	UserID      string
	TooFast     bool
	TooSlow     bool
	Boring      bool
	BadQuestion bool
	Other       string
}

// SubmitFeedback records a user's feedback for a lecture. Resubmitting
// replaces the earlier record in a single atomic match-or-insert, so each
// (lecture, user) pair holds at most one feedback record and summary
// counts never double-count a user.
func (a *App) SubmitFeedback(in SubmitFeedbackInput) error {
	lectureID, err := parseID(in.LectureID)
	if err != nil {
		return err
	}
	userID, err := parseID(in.UserID)
	if err != nil {
		return err
	}

	f := domain.Feedback{
		LectureID:   lectureID,
		UserID:      userID,
		TooFast:     in.TooFast,
		TooSlow:     in.TooSlow,
		Boring:      in.Boring,
		BadQuestion: in.BadQuestion,
		Other:       in.Other,
		CreatedAt:   a.nowMillis(),
	}
	if err := a.store.UpsertFeedback(f); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}

// GetFeedback returns the feedback a user submitted for a lecture.
func (a *App) GetFeedback(lectureID, userID string) (domain.Feedback, error) {
	lid, err := parseID(lectureID)
	if err != nil {
		return domain.Feedback{}, err
	}
	uid, err := parseID(userID)
	if err != nil {
		return domain.Feedback{}, err
	}
	f, ok, err := a.store.GetFeedback(lid, uid)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("get feedback: %w", err)
	}
	if !ok {
		return domain.Feedback{}, ErrFeedbackNotFound
	}
	return f, nil
}

// SummarizeFeedback counts the flag totals across a lecture's feedback.
// A lecture with no feedback yields all zeros.
func (a *App) SummarizeFeedback(lectureID string) (domain.FeedbackSummary, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return domain.FeedbackSummary{}, err
	}
	summary, err := a.store.SummarizeFeedback(id)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("summarize feedback: %w", err)
	}
	return summary, nil
}

// ListFeedbackComments returns the free-text feedback of a lecture with
// each submitter's public profile attached. A comment whose submitter no
// longer resolves still appears, with placeholder profile fields.
func (a *App) ListFeedbackComments(lectureID string) ([]domain.FeedbackComment, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return nil, err
	}
	records, err := a.store.ListFeedbackWithComments(id)
	if err != nil {
		return nil, fmt.Errorf("list feedback comments: %w", err)
	}

	out := make([]domain.FeedbackComment, 0, len(records))
	for _, f := range records {
		comment := domain.FeedbackComment{
			UserID:   f.UserID,
			Username: "unknown user",
			Comment:  f.Other,
		}
		if u, ok, err := a.store.GetUserByID(f.UserID); err != nil {
			return nil, fmt.Errorf("resolve feedback author: %w", err)
		} else if ok {
			comment.Username = u.Username
			comment.Avatar = u.Avatar
		}
		out = append(out, comment)
	}
	return out, nil
}

// DeleteFeedbackByLecture bulk-removes a lecture's feedback records.
func (a *App) DeleteFeedbackByLecture(lectureID string) (int64, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return 0, err
	}
	n, err := a.store.DeleteFeedbackByLecture(id)
	if err != nil {
		return 0, fmt.Errorf("delete feedback by lecture: %w", err)
	}
	return n, nil
}

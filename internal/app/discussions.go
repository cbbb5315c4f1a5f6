package app

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"lecturehub/pkg/domain"
)

// Concurrency cap for profile resolution when enriching a thread.
const discussionFanout = 8

// AppendDiscussionInput carries one discussion message.
type AppendDiscussionInput struct {
	LectureID string
	UserID    string
	Content   string
}

// AppendDiscussion adds a message to a lecture's discussion thread.
// Messages are append-only and keep their insertion order.
func (a *App) AppendDiscussion(in AppendDiscussionInput) (domain.Discussion, error) {
	lectureID, err := parseID(in.LectureID)
	if err != nil {
		return domain.Discussion{}, err
	}
	userID, err := parseID(in.UserID)
	if err != nil {
		return domain.Discussion{}, err
	}

	d := domain.Discussion{
		LectureID: lectureID,
		UserID:    userID,
		Content:   in.Content,
		CreatedAt: a.nowMillis(),
	}
	id, err := a.store.AppendDiscussion(d)
	if err != nil {
		return domain.Discussion{}, fmt.Errorf("append discussion: %w", err)
	}
	d.ID = id
	return d, nil
}

// ListDiscussion returns a lecture's messages in insertion order, each
// enriched with the poster's public profile. Profile lookups for distinct
// posters run concurrently; a poster who no longer resolves gets
// placeholder fields so the thread never loses messages.
func (a *App) ListDiscussion(lectureID string) ([]domain.DiscussionMessage, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return nil, err
	}
	messages, err := a.store.ListDiscussionsByLecture(id)
	if err != nil {
		return nil, fmt.Errorf("list discussion: %w", err)
	}

	posterIDs := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		posterIDs[m.UserID] = struct{}{}
	}

	var mu sync.Mutex
	profiles := make(map[string]domain.User, len(posterIDs))
	var g errgroup.Group
	g.SetLimit(discussionFanout)
	for uid := range posterIDs {
		g.Go(func() error {
			u, ok, err := a.store.GetUserByID(uid)
			if err != nil {
				return fmt.Errorf("resolve discussion poster: %w", err)
			}
			if ok {
				mu.Lock()
				profiles[uid] = u
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.DiscussionMessage, 0, len(messages))
	for _, m := range messages {
		msg := domain.DiscussionMessage{Discussion: m, Username: "unknown user"}
		if u, ok := profiles[m.UserID]; ok {
			msg.Username = u.Username
			msg.Avatar = u.Avatar
		}
		out = append(out, msg)
	}
	return out, nil
}

// DeleteDiscussionsByLecture bulk-removes a lecture's discussion thread.
func (a *App) DeleteDiscussionsByLecture(lectureID string) (int64, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return 0, err
	}
	n, err := a.store.DeleteDiscussionsByLecture(id)
	if err != nil {
		return 0, fmt.Errorf("delete discussions by lecture: %w", err)
	}
	return n, nil
}

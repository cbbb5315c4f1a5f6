package app

import (
	"fmt"

	"lecturehub/pkg/domain"
)

// CreateInvitationInput carries the invitation creation payload.
type CreateInvitationInput struct {
	LectureID string
	SpeakerID string
	Status    int
}

// CreateInvitation inserts an invitation. Duplicate (lecture, speaker)
// pairs are allowed; each accepted invitation converges on the same
// lecture state.
func (a *App) CreateInvitation(in CreateInvitationInput) (domain.Invitation, error) {
	lectureID, err := parseID(in.LectureID)
	if err != nil {
		return domain.Invitation{}, err
	}
	speakerID, err := parseID(in.SpeakerID)
	if err != nil {
		return domain.Invitation{}, err
	}

	inv := domain.Invitation{
		LectureID: lectureID,
		SpeakerID: speakerID,
		Status:    domain.InvitationStatus(in.Status),
	}
	id, err := a.store.CreateInvitation(inv)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}
	inv.ID = id
	return inv, nil
}

// GetInvitation returns an invitation by id.
func (a *App) GetInvitation(id string) (domain.Invitation, error) {
	invID, err := parseID(id)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv, ok, err := a.store.GetInvitation(invID)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	if !ok {
		return domain.Invitation{}, ErrInvitationNotFound
	}
	return inv, nil
}

// ListInvitations returns every invitation.
func (a *App) ListInvitations() ([]domain.Invitation, error) {
	return a.store.ListInvitations()
}

// ListInvitationsBySpeaker returns invitations addressed to a speaker.
func (a *App) ListInvitationsBySpeaker(speakerID string) ([]domain.Invitation, error) {
	id, err := parseID(speakerID)
	if err != nil {
		return nil, err
	}
	return a.store.ListInvitationsBySpeaker(id)
}

// AcceptInvitation marks an invitation accepted and assigns its speaker to
// the lecture. The two writes are separate single-record updates with no
// surrounding transaction: both are idempotent, so when the second write
// fails after the first succeeded the caller retries the whole operation
// and converges on the same final state.
func (a *App) AcceptInvitation(id string) (domain.Invitation, error) {
	invID, err := parseID(id)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv, ok, err := a.store.GetInvitation(invID)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	if !ok {
		return domain.Invitation{}, ErrInvitationNotFound
	}

	if _, err := a.store.SetInvitationStatus(invID, domain.InvitationAccepted); err != nil {
		return domain.Invitation{}, fmt.Errorf("accept invitation: %w", err)
	}
	matched, err := a.store.SetLectureSpeaker(inv.LectureID, inv.SpeakerID)
	if err != nil {
		// The invitation is already marked accepted; the lecture still
		// carries no speaker. Retrying the accept repairs the gap.
		return domain.Invitation{}, fmt.Errorf("assign speaker for accepted invitation %s: %w", invID, err)
	}
	if !matched {
		return domain.Invitation{}, fmt.Errorf("assign speaker for accepted invitation %s: %w", invID, ErrLectureNotFound)
	}

	inv.Status = domain.InvitationAccepted
	return inv, nil
}

// UpdateInvitationInput carries a full invitation replacement.
type UpdateInvitationInput struct {
	LectureID string
	SpeakerID string
	Status    int
}

// UpdateInvitation replaces an invitation's fields wholesale.
func (a *App) UpdateInvitation(id string, in UpdateInvitationInput) (domain.Invitation, error) {
	invID, err := parseID(id)
	if err != nil {
		return domain.Invitation{}, err
	}
	lectureID, err := parseID(in.LectureID)
	if err != nil {
		return domain.Invitation{}, err
	}
	speakerID, err := parseID(in.SpeakerID)
	if err != nil {
		return domain.Invitation{}, err
	}

	inv := domain.Invitation{
		ID:        invID,
		LectureID: lectureID,
		SpeakerID: speakerID,
		Status:    domain.InvitationStatus(in.Status),
	}
	matched, err := a.store.ReplaceInvitation(invID, inv)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("update invitation: %w", err)
	}
	if !matched {
		return domain.Invitation{}, ErrInvitationNotFound
	}
	return inv, nil
}

// DeleteInvitation removes a single invitation.
func (a *App) DeleteInvitation(id string) error {
	invID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := a.store.DeleteInvitation(invID)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if !deleted {
		return ErrInvitationNotFound
	}
	return nil
}

// DeleteInvitationsByLecture bulk-removes every invitation pointing at a
// lecture. Deleting the lecture itself does not cascade here; callers run
// this explicitly.
func (a *App) DeleteInvitationsByLecture(lectureID string) (int64, error) {
	id, err := parseID(lectureID)
	if err != nil {
		return 0, err
	}
	n, err := a.store.DeleteInvitationsByLecture(id)
	if err != nil {
		return 0, fmt.Errorf("delete invitations by lecture: %w", err)
	}
	return n, nil
}

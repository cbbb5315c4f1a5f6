package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lecturehub/pkg/domain"
)

func hexPair(a, b string) (primitive.ObjectID, primitive.ObjectID, error) {
	first, err := primitive.ObjectIDFromHex(a)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("id %q: %w", a, err)
	}
	second, err := primitive.ObjectIDFromHex(b)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("id %q: %w", b, err)
	}
	return first, second, nil
}

// CreateInvitation inserts an invitation. Duplicates for the same
// (lecture, speaker) pair are permitted.
func (s *MongoStore) CreateInvitation(inv domain.Invitation) (string, error) {
	lecOID, spkOID, err := hexPair(inv.LectureID, inv.SpeakerID)
	if err != nil {
		return "", err
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.invitations().InsertOne(ctx, invitationDoc{
		LectureID: lecOID,
		SpeakerID: spkOID,
		Status:    int(inv.Status),
	})
	if err != nil {
		return "", fmt.Errorf("insert invitation: %w", err)
	}
	return insertedHex(res)
}

// GetInvitation returns an invitation by id.
func (s *MongoStore) GetInvitation(id string) (domain.Invitation, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Invitation{}, false, fmt.Errorf("invitation id %q: %w", id, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	var doc invitationDoc
	findErr := s.invitations().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if findErr == mongo.ErrNoDocuments {
		return domain.Invitation{}, false, nil
	}
	if findErr != nil {
		return domain.Invitation{}, false, findErr
	}
	return invitationFromDoc(doc), true, nil
}

// ListInvitations returns every invitation.
func (s *MongoStore) ListInvitations() ([]domain.Invitation, error) {
	return s.listInvitations(bson.M{})
}

// ListInvitationsBySpeaker returns invitations addressed to a speaker.
func (s *MongoStore) ListInvitationsBySpeaker(speakerID string) ([]domain.Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(speakerID)
	if err != nil {
		return nil, fmt.Errorf("speaker id %q: %w", speakerID, err)
	}
	return s.listInvitations(bson.M{"speaker_id": oid})
}

func (s *MongoStore) listInvitations(filter bson.M) ([]domain.Invitation, error) {
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.invitations().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []invitationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.Invitation, 0, len(docs))
	for _, d := range docs {
		res = append(res, invitationFromDoc(d))
	}
	return res, nil
}

// ReplaceInvitation overwrites every field of an invitation. It reports
// whether an invitation matched the id.
func (s *MongoStore) ReplaceInvitation(id string, inv domain.Invitation) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invitation id %q: %w", id, err)
	}
	lecOID, spkOID, err := hexPair(inv.LectureID, inv.SpeakerID)
	if err != nil {
		return false, err
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.invitations().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"lecture_id": lecOID,
		"speaker_id": spkOID,
		"status":     int(inv.Status),
	}})
	if err != nil {
		return false, fmt.Errorf("replace invitation: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SetInvitationStatus flips the lifecycle state in a single document
// write. It is idempotent and safe to retry.
func (s *MongoStore) SetInvitationStatus(id string, status domain.InvitationStatus) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invitation id %q: %w", id, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.invitations().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": int(status)}})
	if err != nil {
		return false, fmt.Errorf("set invitation status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// DeleteInvitation removes an invitation by id.
func (s *MongoStore) DeleteInvitation(id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invitation id %q: %w", id, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.invitations().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete invitation: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteInvitationsByLecture bulk-deletes for lecture teardown. Zero
// matches is not an error.
func (s *MongoStore) DeleteInvitationsByLecture(lectureID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return 0, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.invitations().DeleteMany(ctx, bson.M{"lecture_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete invitations by lecture: %w", err)
	}
	return res.DeletedCount, nil
}

// AddAttendance inserts a record without any uniqueness check. The
// canonical write path is UpsertPresence.
func (s *MongoStore) AddAttendance(a domain.Attendance) (string, error) {
	lecOID, audOID, err := hexPair(a.LectureID, a.AudienceID)
	if err != nil {
		return "", err
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.attendance().InsertOne(ctx, attendanceDoc{
		LectureID:  lecOID,
		AudienceID: audOID,
		IsPresent:  a.IsPresent,
		JoinedAt:   a.JoinedAt,
	})
	if err != nil {
		return "", fmt.Errorf("insert attendance: %w", err)
	}
	return insertedHex(res)
}

// UpsertPresence runs one server-side match-or-insert on the
// (lecture, audience) key, never a read followed by a conditional write.
func (s *MongoStore) UpsertPresence(lectureID, audienceID string, present bool, joinedAt int64) (bool, error) {
	lecOID, audOID, err := hexPair(lectureID, audienceID)
	if err != nil {
		return false, err
	}
	ctx, cancel := opCtx()
	defer cancel()
	filter := bson.M{"lecture_id": lecOID, "audience_id": audOID}
	update := bson.M{
		"$set":         bson.M{"is_present": present, "joined_at": joinedAt},
		"$setOnInsert": bson.M{"lecture_id": lecOID, "audience_id": audOID},
	}
	res, err := s.attendance().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert presence: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// ListAttendanceByLecture returns attendance records for a lecture.
func (s *MongoStore) ListAttendanceByLecture(lectureID string) ([]domain.Attendance, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return nil, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	return s.listAttendance(bson.M{"lecture_id": oid})
}

// ListAttendanceByAudience returns attendance records for an audience member.
func (s *MongoStore) ListAttendanceByAudience(audienceID string) ([]domain.Attendance, error) {
	oid, err := primitive.ObjectIDFromHex(audienceID)
	if err != nil {
		return nil, fmt.Errorf("audience id %q: %w", audienceID, err)
	}
	return s.listAttendance(bson.M{"audience_id": oid})
}

func (s *MongoStore) listAttendance(filter bson.M) ([]domain.Attendance, error) {
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.attendance().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []attendanceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.Attendance, 0, len(docs))
	for _, d := range docs {
		res = append(res, attendanceFromDoc(d))
	}
	return res, nil
}

// ListPresentAudienceIDs returns the audience ids marked present at a lecture.
func (s *MongoStore) ListPresentAudienceIDs(lectureID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return nil, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	records, err := s.listAttendance(bson.M{"lecture_id": oid, "is_present": true})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.AudienceID)
	}
	return ids, nil
}

// DeleteAttendanceByKey removes the record for one (lecture, audience) pair.
func (s *MongoStore) DeleteAttendanceByKey(lectureID, audienceID string) (bool, error) {
	lecOID, audOID, err := hexPair(lectureID, audienceID)
	if err != nil {
		return false, err
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.attendance().DeleteOne(ctx, bson.M{"lecture_id": lecOID, "audience_id": audOID})
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteAttendanceByLecture bulk-deletes for lecture teardown.
func (s *MongoStore) DeleteAttendanceByLecture(lectureID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return 0, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.attendance().DeleteMany(ctx, bson.M{"lecture_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete attendance by lecture: %w", err)
	}
	return res.DeletedCount, nil
}

// UpsertFeedback replaces the full flag set and free-text for the
// (lecture, user) key in one atomic write; last write wins.
func (s *MongoStore) UpsertFeedback(f domain.Feedback) error {
	lecOID, userOID, err := hexPair(f.LectureID, f.UserID)
	if err != nil {
		return err
	}
	ctx, cancel := opCtx()
	defer cancel()
	filter := bson.M{"lecture_id": lecOID, "user_id": userOID}
	update := bson.M{"$set": bson.M{
		"too_fast":             f.TooFast,
		"too_slow":             f.TooSlow,
		"boring":               f.Boring,
		"bad_question_quality": f.BadQuestion,
		"other":                f.Other,
		"created_at":           primitive.DateTime(f.CreatedAt),
	}}
	if _, err := s.feedback().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert feedback: %w", err)
	}
	return nil
}

// GetFeedback returns the single record for a (lecture, user) pair.
func (s *MongoStore) GetFeedback(lectureID, userID string) (domain.Feedback, bool, error) {
	lecOID, userOID, err := hexPair(lectureID, userID)
	if err != nil {
		return domain.Feedback{}, false, err
	}
	ctx, cancel := opCtx()
	defer cancel()
	var doc feedbackDoc
	findErr := s.feedback().FindOne(ctx, bson.M{"lecture_id": lecOID, "user_id": userOID}).Decode(&doc)
	if findErr == mongo.ErrNoDocuments {
		return domain.Feedback{}, false, nil
	}
	if findErr != nil {
		return domain.Feedback{}, false, findErr
	}
	return feedbackFromDoc(doc), true, nil
}

// SummarizeFeedback counts set flags across a lecture's feedback with a
// single aggregation; all-zero counters when nothing matches.
func (s *MongoStore) SummarizeFeedback(lectureID string) (domain.FeedbackSummary, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	count := func(field string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$" + field, true}}, 1, 0}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"lecture_id": oid}}},
		{{Key: "$group", Value: bson.M{
			"_id":                  nil,
			"too_fast":             count("too_fast"),
			"too_slow":             count("too_slow"),
			"boring":               count("boring"),
			"bad_question_quality": count("bad_question_quality"),
		}}},
	}
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.feedback().Aggregate(ctx, pipeline)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("aggregate feedback: %w", err)
	}
	var rows []struct {
		TooFast     int `bson:"too_fast"`
		TooSlow     int `bson:"too_slow"`
		Boring      int `bson:"boring"`
		BadQuestion int `bson:"bad_question_quality"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return domain.FeedbackSummary{}, err
	}
	if len(rows) == 0 {
		return domain.FeedbackSummary{}, nil
	}
	return domain.FeedbackSummary{
		TooFast:     rows[0].TooFast,
		TooSlow:     rows[0].TooSlow,
		Boring:      rows[0].Boring,
		BadQuestion: rows[0].BadQuestion,
	}, nil
}

// ListFeedbackWithComments returns feedback entries carrying free text.
func (s *MongoStore) ListFeedbackWithComments(lectureID string) ([]domain.Feedback, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return nil, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.feedback().Find(ctx, bson.M{"lecture_id": oid, "other": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	var docs []feedbackDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.Feedback, 0, len(docs))
	for _, d := range docs {
		res = append(res, feedbackFromDoc(d))
	}
	return res, nil
}

// DeleteFeedbackByLecture bulk-deletes for lecture teardown.
func (s *MongoStore) DeleteFeedbackByLecture(lectureID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return 0, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.feedback().DeleteMany(ctx, bson.M{"lecture_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete feedback by lecture: %w", err)
	}
	return res.DeletedCount, nil
}

// AppendDiscussion inserts a message; the log is append-only.
func (s *MongoStore) AppendDiscussion(d domain.Discussion) (string, error) {
	lecOID, userOID, err := hexPair(d.LectureID, d.UserID)
	if err != nil {
		return "", err
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.discussions().InsertOne(ctx, discussionDoc{
		LectureID: lecOID,
		UserID:    userOID,
		Content:   d.Content,
		CreatedAt: primitive.DateTime(d.CreatedAt),
	})
	if err != nil {
		return "", fmt.Errorf("insert discussion: %w", err)
	}
	return insertedHex(res)
}

// ListDiscussionsByLecture returns messages in the engine's natural order.
func (s *MongoStore) ListDiscussionsByLecture(lectureID string) ([]domain.Discussion, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return nil, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.discussions().Find(ctx, bson.M{"lecture_id": oid})
	if err != nil {
		return nil, err
	}
	var docs []discussionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.Discussion, 0, len(docs))
	for _, d := range docs {
		res = append(res, discussionFromDoc(d))
	}
	return res, nil
}

// DeleteDiscussionsByLecture bulk-deletes for lecture teardown.
func (s *MongoStore) DeleteDiscussionsByLecture(lectureID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(lectureID)
	if err != nil {
		return 0, fmt.Errorf("lecture id %q: %w", lectureID, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.discussions().DeleteMany(ctx, bson.M{"lecture_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete discussions by lecture: %w", err)
	}
	return res.DeletedCount, nil
}

package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lecturehub/pkg/domain"
)

// CreateLecture inserts a lecture and returns its id. The caller has
// already allocated a lecture code; the insert itself does not re-check
// code uniqueness.
func (s *MongoStore) CreateLecture(l domain.Lecture) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.lectures().InsertOne(ctx, lectureDoc{
		Topic:       l.Topic,
		StartTime:   l.StartTime,
		Duration:    l.Duration,
		Description: l.Description,
		SpeakerID:   l.SpeakerID,
		OrganizerID: l.OrganizerID,
		LectureCode: l.LectureCode,
		Status:      l.Status,
	})
	if err != nil {
		return "", fmt.Errorf("insert lecture: %w", err)
	}
	return insertedHex(res)
}

// GetLecture returns a lecture by id.
func (s *MongoStore) GetLecture(id string) (domain.Lecture, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Lecture{}, false, fmt.Errorf("lecture id %q: %w", id, err)
	}
	return s.findLecture(bson.M{"_id": oid})
}

// GetLectureByCode returns the lecture holding a share code.
func (s *MongoStore) GetLectureByCode(code int) (domain.Lecture, bool, error) {
	return s.findLecture(bson.M{"lecturecode": code})
}

func (s *MongoStore) findLecture(filter bson.M) (domain.Lecture, bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	var doc lectureDoc
	err := s.lectures().FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return domain.Lecture{}, false, nil
	}
	if err != nil {
		return domain.Lecture{}, false, err
	}
	return lectureFromDoc(doc), true, nil
}

// ListLectures returns every lecture.
func (s *MongoStore) ListLectures() ([]domain.Lecture, error) {
	return s.listLectures(bson.M{})
}

// ListLecturesByOrganizer returns lectures created by an organizer.
func (s *MongoStore) ListLecturesByOrganizer(organizerID string) ([]domain.Lecture, error) {
	return s.listLectures(bson.M{"organizer_id": organizerID})
}

// ListLecturesBySpeaker returns lectures assigned to a speaker.
func (s *MongoStore) ListLecturesBySpeaker(speakerID string) ([]domain.Lecture, error) {
	return s.listLectures(bson.M{"speaker_id": speakerID})
}

func (s *MongoStore) listLectures(filter bson.M) ([]domain.Lecture, error) {
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.lectures().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []lectureDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.Lecture, 0, len(docs))
	for _, d := range docs {
		res = append(res, lectureFromDoc(d))
	}
	return res, nil
}

// UpdateLecture applies a partial update. It reports whether a lecture
// matched the id.
func (s *MongoStore) UpdateLecture(id string, upd domain.LectureUpdate) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("lecture id %q: %w", id, err)
	}
	set := bson.M{}
	if upd.Topic != nil {
		set["topic"] = *upd.Topic
	}
	if upd.StartTime != nil {
		set["start_time"] = *upd.StartTime
	}
	if upd.Duration != nil {
		set["duration"] = *upd.Duration
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.SpeakerID != nil {
		set["speaker_id"] = *upd.SpeakerID
	}
	if upd.OrganizerID != nil {
		set["organizer_id"] = *upd.OrganizerID
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if len(set) == 0 {
		return false, nil
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.lectures().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update lecture: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SetLectureSpeaker assigns the speaker in a single document write. It is
// idempotent and safe to retry.
func (s *MongoStore) SetLectureSpeaker(id, speakerID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("lecture id %q: %w", id, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.lectures().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"speaker_id": speakerID}})
	if err != nil {
		return false, fmt.Errorf("set lecture speaker: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// DeleteLecture removes a lecture. Dependent records are not touched; the
// caller issues the bulk deletes per collection.
func (s *MongoStore) DeleteLecture(id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("lecture id %q: %w", id, err)
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.lectures().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete lecture: %w", err)
	}
	return res.DeletedCount > 0, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lecturehub/pkg/domain"
)

const mongoOpTimeout = 5 * time.Second

// MongoStore implements Store on a shared MongoDB client. The store relies
// on MongoDB's per-document atomicity only; it creates no indexes and
// enforces no cross-collection integrity.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{db: client.Database(database)}, nil
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}

func (s *MongoStore) users() *mongo.Collection       { return s.db.Collection("users") }
func (s *MongoStore) lectures() *mongo.Collection    { return s.db.Collection("lectures") }
func (s *MongoStore) invitations() *mongo.Collection { return s.db.Collection("invitations") }
func (s *MongoStore) attendance() *mongo.Collection  { return s.db.Collection("attendance") }
func (s *MongoStore) feedback() *mongo.Collection    { return s.db.Collection("feedback") }
func (s *MongoStore) discussions() *mongo.Collection { return s.db.Collection("discussions") }

func insertedHex(res *mongo.InsertOneResult) (string, error) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// CreateUser inserts a new user and returns its id.
func (s *MongoStore) CreateUser(u domain.User) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.users().InsertOne(ctx, userDoc{
		Username:   u.Username,
		Email:      u.Email,
		Password:   u.PasswordHash,
		Role:       u.Role,
		Avatar:     u.Avatar,
		Background: u.Background,
	})
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return insertedHex(res)
}

// HasUsername probes for an existing username.
func (s *MongoStore) HasUsername(username string) (bool, error) {
	return s.hasUser(bson.M{"username": username})
}

// HasEmail probes for an existing email.
func (s *MongoStore) HasEmail(email string) (bool, error) {
	return s.hasUser(bson.M{"email": email})
}

func (s *MongoStore) hasUser(filter bson.M) (bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	err := s.users().FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetUserByEmail looks up a user by email.
func (s *MongoStore) GetUserByEmail(email string) (domain.User, bool, error) {
	return s.findUser(bson.M{"email": email})
}

// GetUserByID returns a user by id.
func (s *MongoStore) GetUserByID(id string) (domain.User, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("user id %q: %w", id, err)
	}
	return s.findUser(bson.M{"_id": oid})
}

func (s *MongoStore) findUser(filter bson.M) (domain.User, bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	var doc userDoc
	err := s.users().FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return userFromDoc(doc), true, nil
}

// ListUsers returns every user.
func (s *MongoStore) ListUsers() ([]domain.User, error) {
	return s.listUsers(bson.M{})
}

// ListUsersByIDs returns the users whose ids match; unknown ids are skipped.
func (s *MongoStore) ListUsersByIDs(ids []string) ([]domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}
	return s.listUsers(bson.M{"_id": bson.M{"$in": oids}})
}

func (s *MongoStore) listUsers(filter bson.M) ([]domain.User, error) {
	ctx, cancel := opCtx()
	defer cancel()
	cur, err := s.users().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		res = append(res, userFromDoc(d))
	}
	return res, nil
}

// UpdateUser applies a partial profile update. It reports whether a user
// matched the id.
func (s *MongoStore) UpdateUser(id string, upd domain.UserUpdate) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("user id %q: %w", id, err)
	}
	set := bson.M{}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	if upd.Age != nil {
		set["age"] = *upd.Age
	}
	if upd.Motto != nil {
		set["motto"] = *upd.Motto
	}
	if len(set) == 0 {
		return false, nil
	}
	ctx, cancel := opCtx()
	defer cancel()
	res, err := s.users().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marketsquare/account-system/internal/core/domain"
)

const userCollection = "users"

// UserRepository persists user accounts in MongoDB.
//
// The unique index on username_lower is the authoritative arbiter for
// case-insensitive username uniqueness; the creation hook's pre-check is
// only advisory.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique constraints. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_lower", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_lower_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

type userDoc struct {
	UUID          string `bson:"_id"`
	Username      string `bson:"username"`
	UsernameLower string `bson:"username_lower"`
	Email         string `bson:"email"`
	FirstName     string `bson:"first_name,omitempty"`
	LastName      string `bson:"last_name,omitempty"`
	BirthDate     string `bson:"birth_date,omitempty"`
	VerifiedEmail bool   `bson:"verified_email"`
	Role          string `bson:"role"`
	PasswordHash  string `bson:"password_hash"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}

var errUserNotFound = domain.NewNotFoundf("User not found")

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, err := r.coll.InsertOne(ctx, toDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.FindByUUID(ctx, user.UUID)
}

func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": uuid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByNormalizedUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username_lower": domain.NormalizeUsername(username)})
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, fromDoc(doc))
	}
	return users, cursor.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.UUID}, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, errUserNotFound
	}
	return r.FindByUUID(ctx, user.UUID)
}

func (r *UserRepository) Delete(ctx context.Context, uuid string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": uuid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return errUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromDoc(doc), nil
}

// duplicateKeyConflict maps a duplicate-key error to the violated
// constraint's message by inspecting the index name.
func duplicateKeyConflict(err error) error {
	if strings.Contains(err.Error(), "username_lower") {
		return domain.ErrUsernameTaken
	}
	return domain.NewConflict("Email already exists")
}

func toDoc(u *domain.User) userDoc {
	return userDoc{
		UUID:          u.UUID,
		Username:      u.Username,
		UsernameLower: domain.NormalizeUsername(u.Username),
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		BirthDate:     u.BirthDate,
		VerifiedEmail: u.VerifiedEmail,
		Role:          string(u.Role),
		PasswordHash:  u.PasswordHash,
		CreatedAt:     u.CreatedAt.Unix(),
		UpdatedAt:     u.UpdatedAt.Unix(),
	}
}

func fromDoc(d userDoc) *domain.User {
	role, _ := domain.ParseRole(d.Role)
	return &domain.User{
		UUID:          d.UUID,
		Username:      d.Username,
		Email:         d.Email,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		BirthDate:     d.BirthDate,
		VerifiedEmail: d.VerifiedEmail,
		Role:          role,
		PasswordHash:  d.PasswordHash,
		CreatedAt:     unixToTime(d.CreatedAt),
		UpdatedAt:     unixToTime(d.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

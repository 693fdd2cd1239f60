package mongo

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	gomongo "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/baechuer/credential-service/internal/domain"
)

// UserStore is the User specialization of Collection. Emails are stored
// lower-cased and guarded by a unique index.
type UserStore struct {
	*Collection[domain.User, *domain.User]
}

func NewUserStore(db *gomongo.Database, lg zerolog.Logger) *UserStore {
	return &UserStore{
		Collection: NewCollection[domain.User](db.Collection(domain.UsersCollection), lg),
	}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func EnsureIndexes(ctx context.Context, db *gomongo.Database) error {
	_, err := db.Collection(domain.UsersCollection).Indexes().CreateOne(ctx, gomongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	})
	if err != nil {
		return domain.ErrStoreUnavailable(err)
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = domain.NormalizeEmail(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	created, err := s.Collection.Create(ctx, u)
	if err != nil {
		if domain.Is(err, "conflict") {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, err
	}
	return created, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, false, nil
	}
	return s.FindOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindByID(ctx context.Context, id string) (domain.User, bool, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.User{}, false, nil
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) DeleteByID(ctx context.Context, id string) (domain.User, bool, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.User{}, false, nil
	}
	return s.FindOneAndDelete(ctx, bson.M{"_id": oid})
}

// DailySignups is one row of SignupsPerDay.
type DailySignups struct {
	Day   string `bson:"day"`
	Count int64  `bson:"count"`
}

// SignupsPerDay counts users created since the given instant, grouped by UTC day.
func (s *UserStore) SignupsPerDay(ctx context.Context, since time.Time) ([]DailySignups, error) {
	pipeline := gomongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since.UTC()}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "day": "$_id", "count": 1}}},
	}
	return Aggregate[DailySignups](ctx, s.Collection, pipeline)
}

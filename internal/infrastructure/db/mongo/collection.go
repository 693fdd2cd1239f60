package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	gomongo "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/baechuer/credential-service/internal/domain"
)

// Entity constrains a store's type parameter: a pointer to T must expose the
// embedded system fields (identifier and audit timestamps).
type Entity[T any] interface {
	*T
	Meta() *domain.Document
}

// driverCollection is the subset of *mongo.Collection the store relies on.
type driverCollection interface {
	Name() string
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*gomongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *gomongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *gomongo.SingleResult
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*gomongo.Cursor, error)
	FindOneAndDelete(ctx context.Context, filter any, opts ...options.Lister[options.FindOneAndDeleteOptions]) *gomongo.SingleResult
	Aggregate(ctx context.Context, pipeline any, opts ...options.Lister[options.AggregateOptions]) (*gomongo.Cursor, error)
}

// Collection is a typed view over one document collection.
//
// Point lookups, updates and deletes report a miss through their bool result
// and a warning log; they never turn absence into an error. Aggregations
// always surface failures.
type Collection[T any, PT Entity[T]] struct {
	coll driverCollection
	log  zerolog.Logger
	now  func() time.Time
}

// NewCollection binds a typed store to coll.
func NewCollection[T any, PT Entity[T]](coll *gomongo.Collection, lg zerolog.Logger) *Collection[T, PT] {
	return newCollection[T, PT](coll, lg)
}

func newCollection[T any, PT Entity[T]](coll driverCollection, lg zerolog.Logger) *Collection[T, PT] {
	return &Collection[T, PT]{
		coll: coll,
		log: lg.With().
			Str("component", "docstore").
			Str("collection", coll.Name()).
			Logger(),
		now: time.Now,
	}
}

// Name returns the underlying collection name.
func (c *Collection[T, PT]) Name() string { return c.coll.Name() }

// timestamp is truncated to the millisecond precision BSON dates keep, so the
// returned value matches what a later read yields.
func (c *Collection[T, PT]) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

// Create assigns a fresh identifier and timestamps, then inserts doc.
// Any identifier or timestamps already set on doc are overwritten.
func (c *Collection[T, PT]) Create(ctx context.Context, doc T) (T, error) {
	meta := PT(&doc).Meta()
	now := c.timestamp()
	meta.ID = bson.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		var zero T
		if gomongo.IsDuplicateKeyError(err) {
			return zero, domain.ErrConflict(c.coll.Name(), err)
		}
		return zero, domain.ErrStoreUnavailable(err)
	}
	return doc, nil
}

// FindOne returns the first document matching filter.
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter any) (T, bool, error) {
	return c.decodeOne(c.coll.FindOne(ctx, filter), filter)
}

// FindOneAndUpdate applies update to the single matching document and returns
// it in its post-update state. updatedAt is always refreshed.
func (c *Collection[T, PT]) FindOneAndUpdate(ctx context.Context, filter any, update any) (T, bool, error) {
	stamped, err := withUpdatedAt(update, c.timestamp())
	if err != nil {
		var zero T
		return zero, false, domain.ErrInvalidField("update", err.Error())
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return c.decodeOne(c.coll.FindOneAndUpdate(ctx, filter, stamped, opts), filter)
}

// Find returns every match; an empty result is not a diagnostic condition.
func (c *Collection[T, PT]) Find(ctx context.Context, filter any) ([]T, error) {
	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}

	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	return docs, nil
}

// FindOneAndDelete removes the single matching document and returns it.
func (c *Collection[T, PT]) FindOneAndDelete(ctx context.Context, filter any) (T, bool, error) {
	return c.decodeOne(c.coll.FindOneAndDelete(ctx, filter), filter)
}

// Aggregate runs pipeline and decodes each result as T.
func (c *Collection[T, PT]) Aggregate(ctx context.Context, pipeline gomongo.Pipeline) ([]T, error) {
	return Aggregate[T](ctx, c, pipeline)
}

// Aggregate runs pipeline against c and decodes each projected result as R.
// Failures are logged and returned as an aggregation error, never as an empty result.
func Aggregate[R any, T any, PT Entity[T]](ctx context.Context, c *Collection[T, PT], pipeline gomongo.Pipeline) ([]R, error) {
	cur, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		c.log.Error().Err(err).Int("stages", len(pipeline)).Msg("aggregate operation failed")
		return nil, domain.ErrAggregationFailed(err)
	}

	out := make([]R, 0)
	if err := cur.All(ctx, &out); err != nil {
		c.log.Error().Err(err).Int("stages", len(pipeline)).Msg("aggregate decode failed")
		return nil, domain.ErrAggregationFailed(err)
	}

	if len(out) == 0 {
		c.log.Warn().Int("stages", len(pipeline)).Msg("no documents found for aggregate pipeline")
	}
	return out, nil
}

func (c *Collection[T, PT]) decodeOne(res *gomongo.SingleResult, filter any) (T, bool, error) {
	var doc T
	if err := res.Decode(&doc); err != nil {
		var zero T
		if errors.Is(err, gomongo.ErrNoDocuments) {
			c.log.Warn().Interface("filter", redactFilter(filter)).Msg("document was not found")
			return zero, false, nil
		}
		if gomongo.IsDuplicateKeyError(err) {
			return zero, false, domain.ErrConflict(c.coll.Name(), err)
		}
		return zero, false, domain.ErrStoreUnavailable(err)
	}
	return doc, true, nil
}

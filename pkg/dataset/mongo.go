package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/codescope/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "codescope"
	DefaultMongoCollection = "code_data"
	DefaultMongoSortField  = "createdAt"
	DefaultMongoTimeout    = 15 * time.Second
)

// MongoOptions configures a [MongoSource]. Zero fields take the defaults
// above.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// SortField orders documents; the one with the highest value is read.
	SortField string
	// Field, when set, names the sub-document holding the code data. When
	// empty the whole document (minus _id) is the code data.
	Field   string
	Timeout time.Duration
}

func (o *MongoOptions) setDefaults() {
	if o.Database == "" {
		o.Database = DefaultMongoDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultMongoCollection
	}
	if o.SortField == "" {
		o.SortField = DefaultMongoSortField
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultMongoTimeout
	}
}

// MongoSource reads the most recent code-data document from a MongoDB
// collection, for analyzers that publish their results to a database
// instead of a file.
type MongoSource struct {
	opts MongoOptions
}

// NewMongoSource validates opts and applies defaults. It does not connect.
func NewMongoSource(opts MongoOptions) (*MongoSource, error) {
	if err := errors.ValidateMongoURI(opts.URI); err != nil {
		return nil, err
	}
	opts.setDefaults()
	return &MongoSource{opts: opts}, nil
}

// Options returns the effective options.
func (s *MongoSource) Options() MongoOptions { return s.opts }

// Fetch implements [Source]. The document is converted to relaxed
// extended JSON so it goes through the same tolerant decoder as files.
func (s *MongoSource) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(s.opts.Database).Collection(s.opts.Collection)
	findOpts := options.FindOne().
		SetSort(bson.D{{Key: s.opts.SortField, Value: -1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	var doc bson.Raw
	err = coll.FindOne(ctx, bson.D{}, findOpts).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeFetchFailed, "collection %s.%s is empty", s.opts.Database, s.opts.Collection)
	}
	if err != nil {
		return nil, fmt.Errorf("find latest document: %w", err)
	}

	if s.opts.Field != "" {
		val, err := doc.LookupErr(s.opts.Field)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "field %q missing from latest document", s.opts.Field)
		}
		sub, ok := val.DocumentOK()
		if !ok {
			return nil, errors.New(errors.ErrCodeFetchFailed, "field %q is not a document", s.opts.Field)
		}
		doc = sub
	}

	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxDocumentSize {
		return nil, errors.New(errors.ErrCodeFetchFailed, "%s: document exceeds %d bytes", s, maxDocumentSize)
	}
	return raw, nil
}

func (s *MongoSource) String() string {
	return fmt.Sprintf("mongodb:%s.%s", s.opts.Database, s.opts.Collection)
}

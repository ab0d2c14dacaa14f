package source

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gserrors "github.com/graphspec/graphspec/pkg/errors"
)

// Mongo reads graph text from a MongoDB collection: every document's Field
// value contributes its lines, in natural collection order. Useful when
// graph definitions are authored in a notes or wiki system backed by Mongo.
type Mongo struct {
	URI        string
	Database   string
	Collection string
	Field      string // document field holding the text, default "text"
}

// Lines connects, reads every document, and splits the field values into
// lines. The connection is torn down before returning.
func (s Mongo) Lines(ctx context.Context) ([]string, error) {
	field := s.Field
	if field == "" {
		field = "text"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "connect %s", s.URI)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(s.Database).Collection(s.Collection)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "query %s.%s", s.Database, s.Collection)
	}
	defer cursor.Close(ctx)

	var lines []string
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "decode document")
		}
		if text, ok := doc[field].(string); ok {
			lines = append(lines, splitLines([]byte(text))...)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSource, err, "iterate %s.%s", s.Database, s.Collection)
	}
	return lines, nil
}

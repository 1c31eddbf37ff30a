// mongo реализует search.Index поверх коллекции клинических заметок MongoDB.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	notesCollection = "notes"
	defaultDBName   = "clinical"
)

// Index - адаптер поискового индекса поверх MongoDB.
type Index struct {
	client *mongodriver.Client
	notes  *mongodriver.Collection
}

// New подключается к MongoDB и подготавливает коллекцию заметок.
func New(ctx context.Context, uri string) (*Index, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))

	idx := &Index{
		client: cli,
		notes:  db.Collection(notesCollection),
	}

	if err := idx.ensureIndexes(ctx); err != nil {
		_ = idx.Close(ctx)
		return nil, err
	}

	return idx, nil
}

func (i *Index) Close(ctx context.Context) error {
	return i.client.Disconnect(ctx)
}

// ensureIndexes создает индекс выборки заметок пациента.
func (i *Index) ensureIndexes(ctx context.Context) error {
	_, err := i.notes.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "patient_id", Value: 1}},
		Options: options.Index().SetName("patient_id"),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/search"
)

// mapIndexError приводит сбои связи с MongoDB (обрыв соединения, таймаут
// выбора сервера) к search.ErrUnavailable, чтобы транспорт ответил 503,
// а не общим 500. Отмена запроса клиентом остаётся отменой.
func mapIndexError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	if mongodriver.IsNetworkError(err) || mongodriver.IsTimeout(err) {
		return fmt.Errorf("%w: %w", search.ErrUnavailable, err)
	}

	return err
}

// noteDoc — документ коллекции notes: {_id, patient_id, body}.
type noteDoc struct {
	ID        string `bson:"_id"`
	PatientID string `bson:"patient_id"`
	Body      string `bson:"body"`
}

type termBucketDoc struct {
	Term     string `bson:"_id"`
	DocCount int64  `bson:"doc_count"`
}

// TermHits — терм-агрегация по одной заметке пациента: для каждого термина,
// который встречается в теле заметки (регистронезависимо), возвращается
// бакет (term, doc_count). Термины экранируются как литералы, чтобы
// пользовательское слово не интерпретировалось как regex.
func (i *Index) TermHits(ctx context.Context, patientID, noteID string, terms []string) ([]models.TermBucket, error) {
	const op = "search.mongo.TermHits"

	if len(terms) == 0 {
		return nil, nil
	}

	// Пары (term, rx): в бакет попадает исходное слово,
	// matching идёт по экранированному литералу.
	pairs := make([]bson.D, len(terms))
	for n, t := range terms {
		pairs[n] = bson.D{
			{Key: "term", Value: t},
			{Key: "rx", Value: regexp.QuoteMeta(t)},
		}
	}

	pipeline := []bson.D{
		{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: noteID},
			{Key: "patient_id", Value: patientID},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "matched", Value: bson.D{
				{Key: "$filter", Value: bson.D{
					{Key: "input", Value: pairs},
					{Key: "as", Value: "t"},
					{Key: "cond", Value: bson.D{
						{Key: "$regexMatch", Value: bson.D{
							{Key: "input", Value: "$body"},
							{Key: "regex", Value: "$$t.rx"},
							{Key: "options", Value: "i"},
						}},
					}},
				}},
			}},
		}}},
		{{Key: "$unwind", Value: "$matched"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$matched.term"},
			{Key: "doc_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := i.notes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapIndexError(err))
	}
	defer func() { _ = cur.Close(ctx) }()

	var buckets []models.TermBucket
	for cur.Next(ctx) {
		var doc termBucketDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		buckets = append(buckets, models.TermBucket{Term: doc.Term, DocCount: doc.DocCount})
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapIndexError(err))
	}

	return buckets, nil
}

// NoteIDsByPatient возвращает идентификаторы всех заметок пациента.
func (i *Index) NoteIDsByPatient(ctx context.Context, patientID string) ([]string, error) {
	const op = "search.mongo.NoteIDsByPatient"

	filter := bson.D{{Key: "patient_id", Value: patientID}}
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})

	cur, err := i.notes.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapIndexError(err))
	}
	defer func() { _ = cur.Close(ctx) }()

	var ids []string
	for cur.Next(ctx) {
		var doc noteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, doc.ID)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapIndexError(err))
	}

	return ids, nil
}

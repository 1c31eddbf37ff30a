// search описывает контракт поискового индекса клинических заметок.
package search

import (
	"context"
	"errors"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
)

// ErrUnavailable — индекс недоступен; скоринг без него невозможен.
var ErrUnavailable = errors.New("search index unavailable")

// Index — полнотекстовый индекс заметок.
//
// TermHits выполняет терм-агрегацию по одной заметке: сколько документов
// заметки пациента совпало с каждым из терминов (регистронезависимо).
// NoteIDsByPatient возвращает идентификаторы всех заметок пациента —
// для вызовов, где список заметок не задан явно.
type Index interface {
	TermHits(ctx context.Context, patientID, noteID string, terms []string) ([]models.TermBucket, error)
	NoteIDsByPatient(ctx context.Context, patientID string) ([]string, error)
}

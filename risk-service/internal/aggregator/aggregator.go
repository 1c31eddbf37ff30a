// aggregator считает суммарное число срабатываний триггер-слов
// по заметкам пациента через поисковый индекс.
package aggregator

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/search"
)

// DefaultConcurrency — верхняя граница одновременных запросов к индексу.
const DefaultConcurrency = 4

// Aggregator выполняет fan-out по заметкам: одна терм-агрегация на заметку,
// параллелизм ограничен, чтобы не перегружать индекс у пациентов
// с большим числом заметок.
type Aggregator struct {
	index       search.Index
	concurrency int
}

// New создаёт агрегатор. Неположительный limit заменяется DefaultConcurrency.
func New(index search.Index, limit int) *Aggregator {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	return &Aggregator{index: index, concurrency: limit}
}

// CountHits возвращает суммарное число срабатываний слов по заметкам.
// Любой сбой по любой заметке фатален для всего подсчёта: частичный
// результат занижает риск, что хуже явной ошибки.
func (a *Aggregator) CountHits(ctx context.Context, patientID string, noteIDs, words []string) (int64, error) {
	const op = "aggregator.CountHits"

	if len(noteIDs) == 0 || len(words) == 0 {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	var total atomic.Int64
	for _, noteID := range noteIDs {
		g.Go(func() error {
			buckets, err := a.index.TermHits(ctx, patientID, noteID, words)
			if err != nil {
				return fmt.Errorf("note %s: %w", noteID, err)
			}

			for _, b := range buckets {
				total.Add(b.DocCount)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return total.Load(), nil
}

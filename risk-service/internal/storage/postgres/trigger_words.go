package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/storage"
)

// TriggerWords возвращает текущее множество триггер-слов в порядке вставки.
// Пустая таблица — валидное состояние до первого сида, возвращается ErrNotFound,
// чтобы каталог мог подставить встроенный список.
func (s *Storage) TriggerWords(ctx context.Context) ([]string, error) {
	const op = "storage.postgres.TriggerWords"

	query := `
        SELECT word
        FROM trigger_words
        ORDER BY position
    `

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return words, nil
}

// SaveTriggerWords заменяет множество слов целиком в одной транзакции:
// частично применённый список хуже старого полного.
func (s *Storage) SaveTriggerWords(ctx context.Context, words []string) error {
	const op = "storage.postgres.SaveTriggerWords"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM trigger_words`); err != nil {
		return fmt.Errorf("%s: %w", op, mapTxError(err))
	}

	query := `
        INSERT INTO trigger_words(position, word)
        SELECT ord, w
        FROM unnest($1::text[]) WITH ORDINALITY AS t(w, ord)
    `

	if _, err := tx.Exec(ctx, query, words); err != nil {
		return fmt.Errorf("%s: %w", op, mapTxError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, mapTxError(err))
	}

	return nil
}

// mapTxError приводит конкурентные сбои транзакции к storage.ErrConcurrencyConflict.
func mapTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		(pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected) {
		return storage.ErrConcurrencyConflict
	}

	return err
}

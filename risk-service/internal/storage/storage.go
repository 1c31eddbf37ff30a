// storage описывает контракт хранилища триггер-слов
// и канонические ошибки слоя хранения.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConcurrencyConflict — конкурентное обновление (serialization/deadlock).
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// TriggerWordStorage — персистентное множество триггер-слов.
// Save заменяет множество целиком в одной транзакции.
type TriggerWordStorage interface {
	TriggerWords(ctx context.Context) ([]string, error)
	SaveTriggerWords(ctx context.Context, words []string) error
}

// Storage — корневой интерфейс хранилища risk-сервиса.
type Storage interface {
	TriggerWordStorage

	Close()
}

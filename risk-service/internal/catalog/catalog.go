// catalog — изменяемый персистентный набор триггер-слов.
// Все операции сериализуются через мьютекс экземпляра: читатели и писатели
// работают с одной и той же таблицей, экземпляр на процесс один.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/vetrovaas/go-clinical-platform/pkg/log"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/storage"
)

// ErrInvalidWordSet — множество слов не прошло валидацию
// (пустое, пустые/пробельные элементы или длина вне 2–50 рун).
var ErrInvalidWordSet = errors.New("invalid trigger word set")

const (
	minWordLen = 2
	maxWordLen = 50
)

// defaultWords — встроенный список; используется при сбое чтения
// и как результат ResetToDefault.
var defaultWords = []string{
	"Hemoglobin A1C",
	"Microalbumin",
	"Body Height",
	"Body Weight",
	"Smoker",
	"Abnormal",
	"Cholesterol",
	"Dizziness",
	"Relapse",
	"Reaction",
	"Antibodies",
}

// DefaultWords возвращает копию встроенного списка триггер-слов.
func DefaultWords() []string {
	out := make([]string, len(defaultWords))
	copy(out, defaultWords)
	return out
}

// Catalog — каталог триггер-слов поверх персистентного хранилища.
type Catalog struct {
	mu      sync.Mutex
	storage storage.TriggerWordStorage
}

// New создаёт каталог. Экземпляр конструируется один раз при старте
// процесса и передаётся зависимостям явно.
func New(st storage.TriggerWordStorage) *Catalog {
	return &Catalog{storage: st}
}

// Get возвращает текущее множество слов. Сбой чтения не фатален:
// логируется, и возвращается встроенный список — скоринг важнее,
// чем актуальность пользовательской настройки.
func (c *Catalog) Get(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	words, err := c.storage.TriggerWords(ctx)
	if err != nil {
		lvl := slog.LevelWarn
		if errors.Is(err, storage.ErrNotFound) {
			// Пустая таблица до первого сохранения — штатная ситуация.
			lvl = slog.LevelDebug
		}
		log.From(ctx).Log(ctx, lvl, "trigger_words_fallback_to_default",
			slog.String("err", err.Error()))

		return DefaultWords()
	}

	return words
}

// Save заменяет множество слов целиком после валидации.
func (c *Catalog) Save(ctx context.Context, words []string) error {
	const op = "catalog.Save"

	if err := validate(words); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.SaveTriggerWords(ctx, words); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ResetToDefault сохраняет встроенный список и возвращает его.
func (c *Catalog) ResetToDefault(ctx context.Context) ([]string, error) {
	const op = "catalog.ResetToDefault"

	words := DefaultWords()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.SaveTriggerWords(ctx, words); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return words, nil
}

func validate(words []string) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: empty set", ErrInvalidWordSet)
	}

	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("%w: blank member", ErrInvalidWordSet)
		}

		if n := utf8.RuneCountInString(w); n < minWordLen || n > maxWordLen {
			return fmt.Errorf("%w: word %q length %d out of range [%d, %d]",
				ErrInvalidWordSet, w, n, minWordLen, maxWordLen)
		}
	}

	return nil
}

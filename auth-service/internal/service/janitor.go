package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
)

// RunJanitor запускает периодическую очистку просроченных refresh-токенов.
// Блокирует вызывающую горутину до отмены ctx. Каждый цикл ограничен своим
// таймаутом и не держит блокировок, мешающих обработке запросов.
//
// Конфликт конкурентного доступа (storage.ErrConcurrencyConflict) логируется,
// цикл завершается без ретрая: накопление просроченных токенов — сигнал
// оператору, а не повод для автоматического повторения.
func (s *Service) RunJanitor(ctx context.Context, lg *slog.Logger, interval, timeout time.Duration) {
	const op = "service.janitor.RunJanitor"

	if lg == nil {
		lg = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("janitor_stopped", slog.String("op", op))
			return
		case <-ticker.C:
			s.purgeExpired(ctx, lg, timeout)
		}
	}
}

func (s *Service) purgeExpired(ctx context.Context, lg *slog.Logger, timeout time.Duration) {
	const op = "service.janitor.purgeExpired"

	cycleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.storage.DeleteExpiredTokens(cycleCtx, time.Now().UTC()); err != nil {
		if errors.Is(err, storage.ErrConcurrencyConflict) {
			lg.Warn("janitor_conflict",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return
		}

		lg.Error("janitor_purge_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}

	lg.Debug("janitor_purge_done", slog.String("op", op))
}

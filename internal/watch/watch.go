/*
Package watch runs one DV status check: fetch the entry page, extract the
application window, compare it with the stored fingerprint, notify and persist.
*/
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shanehull/dvwatch/internal/ai"
	"github.com/shanehull/dvwatch/internal/metrics"
	"github.com/shanehull/dvwatch/internal/notify"
	"github.com/shanehull/dvwatch/internal/types"
)

type PageFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

type InfoExtractor interface {
	Extract(ctx context.Context, pageText string) (ai.Result, error)
}

type StateStore interface {
	Load() (string, bool)
	Save(id string) error
}

type Notifier interface {
	Notify(ctx context.Context, data notify.NotificationData) error
}

type Outcome string

const (
	OutcomeChanged   Outcome = "changed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// Deps bundles the collaborators of a Watcher.
type Deps struct {
	Fetcher   PageFetcher
	Extractor InfoExtractor
	Store     StateStore
	Notifier  Notifier
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	PageURL   string
	Now       func() time.Time
}

type Watcher struct {
	fetcher   PageFetcher
	extractor InfoExtractor
	store     StateStore
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
	pageURL   string
	now       func() time.Time
}

func New(deps Deps) *Watcher {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Watcher{
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		store:     deps.Store,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		logger:    logger,
		pageURL:   deps.PageURL,
		now:       now,
	}
}

// Run performs a single check. Every failure past startup is absorbed here:
// the returned Outcome is informational and Run never panics on I/O errors.
func (w *Watcher) Run(ctx context.Context) Outcome {
	w.logger.Info("starting DV date check", "url", w.pageURL)

	outcome := w.run(ctx)

	w.metrics.IncrementOutcome(string(outcome))
	w.metrics.MarkRunFinished(w.now())
	w.logger.Info("check finished", "outcome", outcome)

	return outcome
}

func (w *Watcher) run(ctx context.Context) Outcome {
	current, err := w.currentStatus(ctx)
	if err != nil {
		w.logger.Warn("could not determine current status, skipping this run", "error", err)
		w.send(ctx, notify.NotificationData{Kind: notify.KindError})
		return OutcomeFailed
	}

	lastID, ok := w.store.Load()
	w.logger.Info("comparing status",
		"last_status_id", lastIDAttr(lastID, ok),
		"current_status_id", current.ID,
		"summary", current.Summary,
	)

	if !ok || lastID != current.ID {
		w.logger.Info("status changed, sending update")
		w.send(ctx, notify.NotificationData{Kind: notify.KindChanged, Summary: current.Summary})

		if err := w.store.Save(current.ID); err != nil {
			w.metrics.IncrementStateSaveFailure()
		}
		return OutcomeChanged
	}

	w.logger.Info("status unchanged, sending routine report")
	w.send(ctx, notify.NotificationData{Kind: notify.KindRoutine, Summary: current.Summary})
	return OutcomeUnchanged
}

func (w *Watcher) currentStatus(ctx context.Context) (types.Status, error) {
	start := time.Now()
	text, err := w.fetcher.Fetch(ctx)
	w.metrics.ObserveStage("fetch", time.Since(start))
	if err != nil {
		return types.Status{}, fmt.Errorf("fetch page: %w", err)
	}

	start = time.Now()
	result, err := w.extractor.Extract(ctx, text)
	w.metrics.ObserveStage("extract", time.Since(start))
	if err != nil {
		return types.Status{}, fmt.Errorf("extract status: %w", err)
	}

	return result.Status(), nil
}

func (w *Watcher) send(ctx context.Context, data notify.NotificationData) {
	data.PageURL = w.pageURL
	data.CheckedAt = w.now()

	start := time.Now()
	err := w.notifier.Notify(ctx, data)
	w.metrics.ObserveStage("notify", time.Since(start))
	w.metrics.IncrementNotification(data.Kind.String(), err)
}

func lastIDAttr(id string, ok bool) any {
	if !ok {
		return nil
	}
	return id
}

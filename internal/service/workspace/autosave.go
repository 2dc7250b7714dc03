package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"calibration-report/internal/storage"
)

// DraftSaver persists the single draft slot.
type DraftSaver interface {
	SaveDraft(ctx context.Context, draft storage.Draft) error
}

// Autosaver periodically writes the session into the draft slot when it has
// unsaved changes. The slot is overwritten; the last write wins.
type Autosaver struct {
	cron    *cron.Cron
	session *Session
	saver   DraftSaver
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewAutosaver(log *slog.Logger, session *Session, saver DraftSaver, schedule string, timeout time.Duration) (*Autosaver, error) {
	const op = "workspace.NewAutosaver"

	a := &Autosaver{
		cron:    cron.New(),
		session: session,
		saver:   saver,
		log:     log,
		timeout: timeout,
		now:     time.Now,
	}

	if _, err := a.cron.AddFunc(schedule, a.tick); err != nil {
		return nil, fmt.Errorf("%s: schedule %q: %w", op, schedule, err)
	}

	return a, nil
}

func (a *Autosaver) Start() {
	a.log.Info("starting draft autosave")
	a.cron.Start()
}

// Stop halts the schedule and waits for a running save to finish.
func (a *Autosaver) Stop() {
	a.log.Info("stopping draft autosave")
	<-a.cron.Stop().Done()
}

func (a *Autosaver) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	saved, err := a.SaveIfDirty(ctx)
	if err != nil {
		a.log.Error("autosave failed", slog.String("error", err.Error()))
		return
	}
	if saved {
		a.log.Debug("draft autosaved")
	}
}

// SaveIfDirty writes the session to the draft slot unless nothing changed since
// the last save.
func (a *Autosaver) SaveIfDirty(ctx context.Context) (bool, error) {
	if !a.session.Dirty() {
		return false, nil
	}
	if _, err := a.SaveNow(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// SaveNow writes the session to the draft slot regardless of its state.
func (a *Autosaver) SaveNow(ctx context.Context) (storage.Draft, error) {
	const op = "workspace.SaveNow"

	report, rev := a.session.Snapshot()
	draft := storage.Draft{
		Report:  report,
		SavedAt: a.now(),
		Version: storage.DraftVersion,
	}

	if err := a.saver.SaveDraft(ctx, draft); err != nil {
		return storage.Draft{}, fmt.Errorf("%s: %w", op, err)
	}

	a.session.MarkSaved(rev)
	return draft, nil
}

// Package view drives the read side of the List and Detail screens. Every
// request is one view-enter: the view's data is loaded once for the route
// parameters it depends on, and a failure is reported, never retried.
package view

import (
	"context"
	"log/slog"

	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/notice"
)

type Phase int

const (
	PhaseLoaded Phase = iota
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is what a view renders. On failure Data stays at its zero value,
// so a list shows its empty state and a detail keeps its placeholder.
type Snapshot[T any] struct {
	Phase  Phase
	Data   T
	Notice *notice.Notice
}

type LoadFunc[T any] func(ctx context.Context) (T, error)

// Enter loads the view identified by deps. A failed load yields failed as
// the snapshot's notice.
func Enter[T any](ctx context.Context, log *slog.Logger, failed notice.Notice, deps []string, load LoadFunc[T]) Snapshot[T] {
	data, err := load(ctx)
	if err != nil {
		log.Error("failed to load view", slog.Any("deps", deps), sl.Err(err))
		return Snapshot[T]{Phase: PhaseFailed, Notice: &failed}
	}
	return Snapshot[T]{Phase: PhaseLoaded, Data: data}
}

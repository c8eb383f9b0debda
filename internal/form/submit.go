package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/enoteca-decanter/agenda/internal/notice"
)

// Store is the write side of the booking Store.
type Store interface {
	Create(ctx context.Context, req dto.BookingRequest) (*models.Booking, error)
	Update(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error)
}

var ErrDuplicate = errors.New("form token already submitted")

// Submit runs one submission: BeginSubmit, the Store write, then Succeeded
// or Failed. The Store is never retried. On a validation error the returned
// state is s with an explanatory notice and the Store is not called.
func Submit(ctx context.Context, s State, store Store) (State, *models.Booking, error) {
	next, err := BeginSubmit(s)
	if err != nil {
		return s.WithNotice(invalidNotice(err)), nil, err
	}

	req, _ := next.Request()
	var saved *models.Booking
	if next.mode == ModeCreate {
		saved, err = store.Create(ctx, req)
	} else {
		saved, err = store.Update(ctx, next.id, req)
	}
	if err != nil {
		failed := notice.CreateFailed
		if next.mode == ModeEdit {
			failed = notice.UpdateFailed
		}
		return next.Failed(&failed), nil, err
	}
	return next.Succeeded(), saved, nil
}

func invalidNotice(err error) *notice.Notice {
	switch {
	case errors.Is(err, ErrRequired):
		return notice.Invalid("Preencha os campos obrigatórios: cliente e data/hora.")
	case errors.Is(err, ErrSubmitting), errors.Is(err, ErrDuplicate):
		return notice.Invalid("Este formulário já está sendo enviado.")
	case errors.Is(err, ErrFinished):
		return notice.Invalid("Este formulário já foi enviado.")
	default:
		return notice.Invalid("Valor inválido: " + err.Error())
	}
}

// Guard refuses a resubmission of the same form token while the first
// submission is in flight, and a byte-identical resubmission after it
// succeeded. A later save that carries the same token with different values
// goes through. Failed submissions release the token so the user can try
// again. Completed submissions are forgotten after ttl.
type Guard struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	inFlight map[string]struct{}
	done     map[string]completed
}

type completed struct {
	at     time.Time
	values Values
}

func NewGuard(ttl time.Duration) *Guard {
	return &Guard{
		ttl:      ttl,
		now:      time.Now,
		inFlight: map[string]struct{}{},
		done:     map[string]completed{},
	}
}

func (g *Guard) Begin(token string, v Values) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expire()
	if _, ok := g.inFlight[token]; ok {
		return ErrDuplicate
	}
	if prev, ok := g.done[token]; ok && prev.values == v {
		return ErrDuplicate
	}
	g.inFlight[token] = struct{}{}
	return nil
}

func (g *Guard) End(token string, v Values, succeeded bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, token)
	if succeeded {
		g.done[token] = completed{at: g.now(), values: v}
	}
}

func (g *Guard) expire() {
	cutoff := g.now().Add(-g.ttl)
	for token, c := range g.done {
		if c.at.Before(cutoff) {
			delete(g.done, token)
		}
	}
}

// SubmitGuarded is Submit behind g. A duplicate is reported as ErrDuplicate
// without touching the Store.
func SubmitGuarded(ctx context.Context, g *Guard, s State, store Store) (State, *models.Booking, error) {
	if err := g.Begin(s.token, s.values); err != nil {
		return s.WithNotice(invalidNotice(err)), nil, err
	}
	next, saved, err := Submit(ctx, s, store)
	g.End(s.token, s.values, err == nil)
	return next, saved, err
}

// Package client talks to the booking Store's REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/go-resty/resty/v2"
)

// Operation names one of the four Store calls.
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

var ErrNotFound = errors.New("booking not found")

// Error is the one failure kind the Store produces: the network failed or
// the server answered with a non-2xx status (Status is 0 for the former).
type Error struct {
	Op     Operation
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Observer is told the outcome of every call.
type Observer interface {
	ObserveStore(operation string, err error)
}

type Client struct {
	log      *slog.Logger
	http     *resty.Client
	observer Observer
}

type Option func(*Client)

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func New(log *slog.Logger, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		log: log,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every booking in the order the Store sent them.
func (c *Client) List(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Get("/eventos")
	if err := c.check(OpList, resp, err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var out models.Booking
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Get("/eventos/{id}")
	if err := c.check(OpGet, resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new booking and returns it with the Store-assigned id.
func (c *Client) Create(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
	var out models.Booking
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Post("/eventos")
	if err := c.check(OpCreate, resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the whole booking id.
func (c *Client) Update(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
	var out models.Booking
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetBody(req).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Put("/eventos/{id}")
	if err := c.check(OpUpdate, resp, err); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}

func (c *Client) check(op Operation, resp *resty.Response, err error) error {
	var result error
	switch {
	case err != nil:
		result = &Error{Op: op, Err: err}
	case resp.StatusCode() == http.StatusNotFound:
		result = &Error{Op: op, Status: resp.StatusCode(), Err: ErrNotFound}
	case resp.IsError():
		result = &Error{Op: op, Status: resp.StatusCode(), Err: errors.New(errorMessage(resp))}
	}

	if c.observer != nil {
		c.observer.ObserveStore(string(op), result)
	}
	if result != nil {
		c.log.Warn("store call failed", slog.String("op", string(op)), sl.Err(result))
	}
	return result
}

// errorMessage prefers the Store's {"message": ...} body over the status text.
func errorMessage(resp *resty.Response) string {
	if body, ok := resp.Error().(*dto.ErrorResponse); ok && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode())
}

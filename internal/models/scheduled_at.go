package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	ScheduledAtLayout = "2006-01-02T15:04:05"
	// InputLayout matches the value of an HTML datetime-local input.
	InputLayout   = "2006-01-02T15:04"
	DisplayLayout = "02/01/2006 15:04"
)

var scheduledAtLayouts = []string{
	InputLayout,
	ScheduledAtLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ScheduledAt is a naive wall-clock date-time: the hour the event happens
// at the venue. Offsets in parsed input are dropped, the wall clock kept.
type ScheduledAt struct {
	time.Time
}

func NewScheduledAt(t time.Time) ScheduledAt {
	return ScheduledAt{Time: wallClock(t)}
}

// ParseScheduledAt returns the zero value for blank input.
func ParseScheduledAt(s string) (ScheduledAt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ScheduledAt{}, nil
	}
	for _, layout := range scheduledAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewScheduledAt(t), nil
		}
	}
	return ScheduledAt{}, fmt.Errorf("invalid date-time %q", s)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func (s ScheduledAt) String() string {
	if s.IsZero() {
		return ""
	}
	return s.Format(ScheduledAtLayout)
}

func (s ScheduledAt) Input() string {
	if s.IsZero() {
		return ""
	}
	return s.Format(InputLayout)
}

func (s ScheduledAt) Display() string {
	if s.IsZero() {
		return ""
	}
	return s.Format(DisplayLayout)
}

func (s ScheduledAt) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ScheduledAt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ScheduledAt{}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("data_hora: %w", err)
	}
	parsed, err := ParseScheduledAt(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (ScheduledAt) GormDataType() string {
	return "time"
}

func (s ScheduledAt) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, nil
	}
	return s.Time, nil
}

// Scan reads back what Value stored. Drivers may hand the instant back in
// another zone, so it is moved to UTC before the wall clock is taken.
func (s *ScheduledAt) Scan(v any) error {
	switch val := v.(type) {
	case nil:
		*s = ScheduledAt{}
	case time.Time:
		*s = NewScheduledAt(val.UTC())
	case string:
		return s.scanString(val)
	case []byte:
		return s.scanString(string(val))
	default:
		return fmt.Errorf("scan scheduled_at: unsupported type %T", v)
	}
	return nil
}

func (s *ScheduledAt) scanString(str string) error {
	for _, layout := range scheduledAtLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			*s = NewScheduledAt(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("scan scheduled_at: invalid value %q", str)
}

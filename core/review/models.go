package review

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/studato/studato/core"
)

// DefaultReviewIntervalDays is the interval a fresh card starts with.
const DefaultReviewIntervalDays = 1

// Status is the mastery ladder a card climbs while being studied.
type Status int

const (
	StatusLearning Status = iota
	StatusReviewing
	StatusMastered
)

var (
	ErrUnknownStatus  = errors.New("unknown card status")
	ErrUnknownOutcome = errors.New("unknown review outcome")

	statusNames = [...]string{"learning", "reviewing", "mastered"}
)

func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, errors.Wrap(ErrUnknownStatus, s)
}

func (s Status) String() string {
	if s < StatusLearning || s > StatusMastered {
		return "unknown"
	}
	return statusNames[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value / Scan store the status as text.
func (s Status) Value() (driver.Value, error) { return s.String(), nil }

func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseStatus(v)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case []byte:
		return s.Scan(string(v))
	default:
		return errors.Wrapf(ErrUnknownStatus, "cannot scan %T", src)
	}
}

// Outcome is the grade a user gives a card after revealing it.
type Outcome int

const (
	OutcomeStillLearning Outcome = iota
	OutcomeReviewLater
	OutcomeMastered
)

var outcomeNames = [...]string{"still-learning", "review-later", "mastered"}

func ParseOutcome(s string) (Outcome, error) {
	for i, name := range outcomeNames {
		if name == s {
			return Outcome(i), nil
		}
	}
	return 0, errors.Wrap(ErrUnknownOutcome, s)
}

func (o Outcome) String() string {
	if o < OutcomeStillLearning || o > OutcomeMastered {
		return "unknown"
	}
	return outcomeNames[o]
}

// Flashcard is a term/definition pair with its review schedule. Status,
// LastReviewed and ReviewIntervalDays are only ever mutated by grading.
type Flashcard struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"-" db:"user_id"`
	Term               string    `json:"term" db:"term"`
	Definition         string    `json:"definition" db:"definition"`
	Tags               []string  `json:"tags,omitempty" db:"-"`
	Status             Status    `json:"status" db:"status"`
	LastReviewed       time.Time `json:"last_reviewed" db:"last_reviewed"` // UTC
	ReviewIntervalDays float64   `json:"review_interval_days" db:"review_interval_days"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"` // UTC
}

// Due reports whether the card's interval has elapsed since its last review.
// Status plays no part: a mastered card comes back once its (longer)
// interval runs out; it is never permanently retired.
func (c Flashcard) Due(now time.Time) bool {
	return now.Sub(c.LastReviewed) >= intervalDuration(c.ReviewIntervalDays)
}

func intervalDuration(days float64) time.Duration {
	return time.Duration(days * float64(24*time.Hour))
}

// NewCard contains information needed to create a new Flashcard.
type NewCard struct {
	Term       string   `json:"term" validate:"required"`
	Definition string   `json:"definition" validate:"required"`
	Tags       []string `json:"tags"`
}

func (nc *NewCard) Validate() error {
	nc.Term = core.CleanString(nc.Term)
	nc.Definition = core.CleanString(nc.Definition)
	return core.Validate.Struct(nc)
}

// QueryFilter narrows and orders a card listing.
type QueryFilter struct {
	Status  *Status `query:"status"`
	Tag     string  `query:"tag"`
	DueOnly bool    `query:"due"`
	SortBy  string  `query:"sort"` // term | status | created_at
}

func (qf QueryFilter) Matches(c Flashcard) bool {
	if qf.Status != nil && c.Status != *qf.Status {
		return false
	}
	if qf.Tag != "" {
		var found bool
		for _, tag := range c.Tags {
			if tag == qf.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

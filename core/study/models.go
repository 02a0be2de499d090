package study

import (
	"time"

	"github.com/studato/studato/core"
)

// StudyMethod describes a work/break cadence. Built-in presets are served
// from code; customs belong to a single user.
type StudyMethod struct {
	Name         string `json:"name" db:"name"`
	Description  string `json:"description,omitempty" db:"description"`
	WorkMinutes  int    `json:"work_minutes" db:"work_minutes"`
	BreakMinutes int    `json:"break_minutes" db:"break_minutes"`
	Preset       bool   `json:"preset" db:"-"`
}

func (m StudyMethod) WorkSeconds() int  { return m.WorkMinutes * 60 }
func (m StudyMethod) BreakSeconds() int { return m.BreakMinutes * 60 }

var presets = []StudyMethod{
	{
		Name:         "Pomodoro Technique",
		Description:  "Work for 25 minutes, then take a 5-minute break. Repeat 4 times, then take a longer 15-30 minute break.",
		WorkMinutes:  25,
		BreakMinutes: 5,
		Preset:       true,
	},
	{
		Name:        "Feynman Technique",
		Description: "Explain a concept in simple terms as if teaching it to a child. Identify gaps and review.",
		WorkMinutes: 30,
		Preset:      true,
	},
	{
		Name:        "Active Recall",
		Description: "Test yourself on the material without looking at notes. Use flashcards or questions.",
		WorkMinutes: 20,
		Preset:      true,
	},
	{
		Name:        "Spaced Repetition",
		Description: "Review material at increasing intervals over time.",
		WorkMinutes: 15,
		Preset:      true,
	},
	{
		Name:        "Blurting",
		Description: "Write down everything you remember about a topic, then check for gaps.",
		WorkMinutes: 10,
		Preset:      true,
	},
	{
		Name:         "SQ3R",
		Description:  "Survey, Question, Read, Recite, Review. A structured method for reading textbooks.",
		WorkMinutes:  40,
		BreakMinutes: 5,
		Preset:       true,
	},
}

// Presets returns the built-in method catalog.
func Presets() []StudyMethod {
	out := make([]StudyMethod, len(presets))
	copy(out, presets)
	return out
}

// Task is a unit of estimated effort. Progress is derived by the projector;
// it is only ever set directly at creation (0) or on explicit finish (100).
type Task struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"-" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	HoursNeeded float64   `json:"hours_needed" db:"hours_needed"`
	Progress    float64   `json:"progress" db:"progress"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewMethod contains information needed to create a custom StudyMethod.
type NewMethod struct {
	Name         string `json:"name" validate:"required,alphanum_"`
	Description  string `json:"description"`
	WorkMinutes  int    `json:"work_minutes" validate:"required"`
	BreakMinutes int    `json:"break_minutes" validate:"gte=0"`
}

func (nm *NewMethod) Validate(userID string, svc *Service) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Description = core.CleanString(nm.Description)

	if err := core.Validate.Struct(nm); err != nil {
		return err
	}
	if nm.WorkMinutes <= 0 {
		return core.NewValidationError(ErrInvalidMethod, core.FieldError{Field: "work_minutes", Error: ErrInvalidMethod.Error()})
	}
	return svc.checkMethodUniqueness(userID, nm.Name)
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Name        string  `json:"name" validate:"required"`
	HoursNeeded float64 `json:"hours_needed" validate:"required,gt=0"`
}

func (nt *NewTask) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	return core.Validate.Struct(nt)
}

package study

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/studato/studato/core"
)

var (
	// errors
	ErrTaskNotFound   = errors.New("task not found")
	ErrMethodNotFound = errors.New("study method not found")
	ErrMethodExists   = errors.New("a study method with this name already exists")
	ErrInvalidMethod  = errors.New("work duration must be a positive number of minutes")
	ErrPresetReadOnly = errors.New("built-in study methods cannot be changed")
)

type (
	TaskRepository interface {
		CreateTask(t Task) (Task, error)
		QueryTasks(userID string) ([]Task, error)
		GetTaskByID(userID, id string) (Task, error)
		SaveTaskProgress(id string, progress float64, completed bool) error
		DeleteTask(userID, id string) error
	}

	MethodRepository interface {
		CreateMethod(userID string, m StudyMethod) (StudyMethod, error)
		QueryMethods(userID string) ([]StudyMethod, error)
		GetMethodByName(userID, name string) (StudyMethod, error)
		DeleteMethod(userID, name string) error
	}

	// Awarder hands out points on completion events.
	Awarder interface {
		Award(userID string, amount int) (int, error)
	}

	Service struct {
		tasks   TaskRepository
		methods MethodRepository
		engine  *Engine
		rewards Awarder
		clock   core.Clock
	}
)

func NewService(tasks TaskRepository, methods MethodRepository, engine *Engine, rewards Awarder, clock core.Clock) *Service {
	return &Service{
		tasks:   tasks,
		methods: methods,
		engine:  engine,
		rewards: rewards,
		clock:   clock,
	}
}

// Methods returns the preset catalog followed by the user's custom methods.
func (svc *Service) Methods(userID string) ([]StudyMethod, error) {
	customs, err := svc.methods.QueryMethods(userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying custom methods")
	}
	return append(Presets(), customs...), nil
}

// GetMethod looks the method up among presets first, then the user's customs.
func (svc *Service) GetMethod(userID, name string) (StudyMethod, error) {
	name = core.CleanString(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	m, err := svc.methods.GetMethodByName(userID, name)
	if err != nil {
		return StudyMethod{}, err
	}
	return m, nil
}

func (svc *Service) checkMethodUniqueness(userID, name string) error {
	if _, err := svc.GetMethod(userID, name); err == nil {
		return core.NewValidationError(ErrMethodExists, core.FieldError{Field: "name", Error: ErrMethodExists.Error()})
	} else if errors.Cause(err) != ErrMethodNotFound {
		return err
	}
	return nil
}

func (svc *Service) CreateMethod(userID string, nm NewMethod) (StudyMethod, error) {
	if err := nm.Validate(userID, svc); err != nil {
		return StudyMethod{}, err
	}
	m := StudyMethod{
		Name:         nm.Name,
		Description:  nm.Description,
		WorkMinutes:  nm.WorkMinutes,
		BreakMinutes: nm.BreakMinutes,
	}
	return svc.methods.CreateMethod(userID, m)
}

// DeleteMethod removes a custom method; a session running on it is cancelled.
func (svc *Service) DeleteMethod(userID, name string) error {
	name = core.CleanString(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return ErrPresetReadOnly
		}
	}
	if err := svc.methods.DeleteMethod(userID, name); err != nil {
		return err
	}
	svc.engine.CancelForMethod(userID, name)
	return nil
}

func (svc *Service) Tasks(userID string) ([]Task, error) {
	return svc.tasks.QueryTasks(userID)
}

func (svc *Service) GetTask(userID, id string) (Task, error) {
	return svc.tasks.GetTaskByID(userID, id)
}

func (svc *Service) CreateTask(userID string, nt NewTask) (Task, error) {
	if err := nt.Validate(); err != nil {
		return Task{}, err
	}
	now := svc.clock.Now()
	t := Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        nt.Name,
		HoursNeeded: nt.HoursNeeded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.tasks.CreateTask(t)
}

// DeleteTask removes a task; a session running against it is cancelled.
func (svc *Service) DeleteTask(userID, id string) error {
	if err := svc.tasks.DeleteTask(userID, id); err != nil {
		return err
	}
	svc.engine.CancelForTask(userID, id)
	return nil
}

// FinishTask marks a task done right away, regardless of elapsed time, with
// the same completion effects as the projector: progress 100, completed,
// points awarded once. Finishing an already-completed task is a no-op.
func (svc *Service) FinishTask(userID, id string) (Task, error) {
	t, err := svc.tasks.GetTaskByID(userID, id)
	if err != nil {
		return Task{}, err
	}
	if t.Completed {
		return t, nil
	}

	t.Progress = 100
	t.Completed = true
	t.UpdatedAt = svc.clock.Now()
	if _, err := svc.rewards.Award(userID, core.Conf.TaskCompletionPoints); err != nil {
		return t, errors.Wrap(err, "awarding task completion points")
	}
	if err := svc.tasks.SaveTaskProgress(t.ID, t.Progress, t.Completed); err != nil {
		// local state stands; the caller decides whether to retry
		return t, errors.Wrap(err, "saving task progress")
	}
	svc.engine.CancelForTask(userID, id)
	return t, nil
}

// StartSession resolves the selections and hands them to the engine. Empty
// selections fail with ErrMissingSelection before any state changes.
func (svc *Service) StartSession(userID, taskID, methodName string) (Session, error) {
	if taskID == "" || core.CleanString(methodName) == "" {
		return Session{}, ErrMissingSelection
	}
	t, err := svc.tasks.GetTaskByID(userID, taskID)
	if err != nil {
		return Session{}, err
	}
	m, err := svc.GetMethod(userID, methodName)
	if err != nil {
		return Session{}, err
	}
	return svc.engine.Start(userID, &t, &m)
}

func (svc *Service) PauseSession(userID string) (Session, error)  { return svc.engine.Pause(userID) }
func (svc *Service) ResumeSession(userID string) (Session, error) { return svc.engine.Resume(userID) }
func (svc *Service) ResetSession(userID string) (Session, error)  { return svc.engine.Reset(userID) }
func (svc *Service) StopSession(userID string) (Session, error)   { return svc.engine.Stop(userID) }

func (svc *Service) CurrentSession(userID string) (Session, bool) {
	return svc.engine.Current(userID)
}

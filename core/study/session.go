package study

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/studato/studato/core"
)

var (
	// errors
	ErrMissingSelection = errors.New("a task and a study method must be selected")
	ErrNoSession        = errors.New("no active session")
)

// Phase is the sub-state of an active session.
type Phase int

const (
	PhaseWorking Phase = iota
	PhaseBreaking
)

var phaseNames = [...]string{"working", "breaking"}

func (p Phase) String() string {
	if p < PhaseWorking || p > PhaseBreaking {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Session is one continuous run against a chosen task and method. It is a
// value object owned by the Engine; the timer only ever reaches it through
// the Engine's lock.
type Session struct {
	Task               Task        `json:"task"`
	Method             StudyMethod `json:"method"`
	Phase              Phase       `json:"phase"`
	TimeRemaining      int         `json:"time_remaining"` // seconds left in the current phase
	ElapsedWorkSeconds int         `json:"elapsed_work_seconds"`
	CyclesCompleted    int         `json:"cycles_completed"`
	Running            bool        `json:"running"`
	StartedAt          time.Time   `json:"started_at"` // UTC
	LastSaveError      string      `json:"last_save_error,omitempty"`
}

// advance moves the session one second forward and reports whether that
// second counted as work. Break time never counts toward progress.
func (s *Session) advance() (workedSecond bool) {
	if s.TimeRemaining > 0 {
		s.TimeRemaining--
	}
	if s.Phase == PhaseWorking {
		s.ElapsedWorkSeconds++
		workedSecond = true
	}
	if s.TimeRemaining <= 0 {
		s.rollPhase()
	}
	return workedSecond
}

func (s *Session) rollPhase() {
	switch s.Phase {
	case PhaseWorking:
		s.CyclesCompleted++
		if s.Method.BreakMinutes == 0 {
			// no break configured: straight into a fresh work interval
			s.TimeRemaining = s.Method.WorkSeconds()
		} else {
			s.Phase = PhaseBreaking
			s.TimeRemaining = s.Method.BreakSeconds()
		}
	case PhaseBreaking:
		s.Phase = PhaseWorking
		s.TimeRemaining = s.Method.WorkSeconds()
	}
}

func (s *Session) reset() {
	s.Phase = PhaseWorking
	s.TimeRemaining = s.Method.WorkSeconds()
	s.ElapsedWorkSeconds = 0
	s.CyclesCompleted = 0
}

type runner struct {
	sess *Session
	ctl  *countdown // nil while paused or stopped
}

// Engine drives at most one active session per user. Starting a new session
// replaces any prior one (last writer wins).
type Engine struct {
	mu       sync.Mutex
	clock    core.Clock
	interval time.Duration
	tasks    TaskRepository
	rewards  Awarder
	logger   core.Logger
	runners  map[string]*runner
}

func NewEngine(clock core.Clock, tasks TaskRepository, rewards Awarder, logger core.Logger) *Engine {
	return &Engine{
		clock:    clock,
		interval: time.Second,
		tasks:    tasks,
		rewards:  rewards,
		logger:   logger,
		runners:  make(map[string]*runner),
	}
}

// Start begins a session for the given task and method. A nil task or method
// fails with ErrMissingSelection and leaves any prior session untouched.
func (e *Engine) Start(userID string, task *Task, method *StudyMethod) (Session, error) {
	if task == nil || method == nil {
		return Session{}, ErrMissingSelection
	}

	e.mu.Lock()
	old := e.detachLocked(userID)
	delete(e.runners, userID)
	e.mu.Unlock()
	if old != nil {
		old.cancel()
	}

	sess := &Session{
		Task:          *task,
		Method:        *method,
		Phase:         PhaseWorking,
		TimeRemaining: method.WorkSeconds(),
		Running:       true,
		StartedAt:     e.clock.Now(),
	}
	r := &runner{sess: sess}

	e.mu.Lock()
	e.runners[userID] = r
	snap := *sess
	e.mu.Unlock()

	if err := e.spin(userID, r); err != nil {
		e.mu.Lock()
		delete(e.runners, userID)
		e.mu.Unlock()
		return Session{}, err
	}
	return snap, nil
}

// spin acquires a fresh countdown for the runner and starts tick delivery.
func (e *Engine) spin(userID string, r *runner) error {
	cd, err := newCountdown(e.clock, e.interval)
	if err != nil {
		return errors.Wrap(err, "starting session timer")
	}
	e.mu.Lock()
	r.ctl = cd
	e.mu.Unlock()
	cd.run(e.tickFunc(userID, cd))
	return nil
}

func (e *Engine) tickFunc(userID string, cd *countdown) func(now time.Time) bool {
	return func(now time.Time) bool {
		e.mu.Lock()
		defer e.mu.Unlock()

		r, ok := e.runners[userID]
		if !ok || r.ctl != cd || !r.sess.Running {
			return false // stale timer; a newer session or a pause owns the state now
		}

		if worked := r.sess.advance(); worked {
			e.projectLocked(r)
		}
		if r.sess.Task.Completed {
			// the session ends once its task is done
			r.sess.Running = false
			r.ctl = nil
			delete(e.runners, userID)
			return false
		}
		return true
	}
}

// projectLocked recomputes the task's progress from elapsed work time and,
// on first arrival at 100%, marks the task complete and awards points once.
// The completed flag is the idempotence guard: further ticks at 100% do not
// re-award. e.mu must be held.
func (e *Engine) projectLocked(r *runner) {
	t := &r.sess.Task
	prev := t.Progress
	t.Progress = Project(*t, r.sess.ElapsedWorkSeconds)

	justDone := !t.Completed && t.Progress >= 100
	if justDone {
		t.Completed = true
		if _, err := e.rewards.Award(t.UserID, core.Conf.TaskCompletionPoints); err != nil {
			e.logger.Error("awarding task completion points", errors.Wrap(err, "awarding points"))
		}
	}

	// per-second saves would hammer the store; persist on whole-percent
	// changes and on completion
	if justDone || int(t.Progress) != int(prev) {
		e.saveProgressLocked(r)
	}
}

// saveProgressLocked persists the task's progress. The in-memory state is
// kept on failure (optimistic local update); the error surfaces on the
// session snapshot and in the logs.
func (e *Engine) saveProgressLocked(r *runner) {
	t := r.sess.Task
	if err := e.tasks.SaveTaskProgress(t.ID, t.Progress, t.Completed); err != nil {
		r.sess.LastSaveError = err.Error()
		e.logger.Error("saving task progress", errors.Wrap(err, "saving task progress"))
		return
	}
	r.sess.LastSaveError = ""
}

// detachLocked takes the runner's countdown away so in-flight ticks become
// stale. The caller cancels it outside the lock.
func (e *Engine) detachLocked(userID string) *countdown {
	r, ok := e.runners[userID]
	if !ok {
		return nil
	}
	ctl := r.ctl
	r.ctl = nil
	return ctl
}

// Pause stops the timer without altering the session state; progress is
// persisted so nothing is lost if the client goes away.
func (e *Engine) Pause(userID string) (Session, error) {
	e.mu.Lock()
	r, ok := e.runners[userID]
	if !ok {
		e.mu.Unlock()
		return Session{}, ErrNoSession
	}
	ctl := e.detachLocked(userID)
	r.sess.Running = false
	e.saveProgressLocked(r)
	snap := *r.sess
	e.mu.Unlock()

	if ctl != nil {
		ctl.cancel()
	}
	return snap, nil
}

// Resume restarts the timer from the same remaining time.
func (e *Engine) Resume(userID string) (Session, error) {
	e.mu.Lock()
	r, ok := e.runners[userID]
	if !ok {
		e.mu.Unlock()
		return Session{}, ErrNoSession
	}
	if r.sess.Running {
		snap := *r.sess
		e.mu.Unlock()
		return snap, nil
	}
	r.sess.Running = true
	snap := *r.sess
	e.mu.Unlock()

	if err := e.spin(userID, r); err != nil {
		e.mu.Lock()
		r.sess.Running = false
		e.mu.Unlock()
		return Session{}, err
	}
	return snap, nil
}

// Reset returns the session to a fresh work interval, zeroing elapsed work
// and completed cycles. The timer keeps whatever running state it had.
func (e *Engine) Reset(userID string) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.runners[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	r.sess.reset()
	return *r.sess, nil
}

// Stop ends the session, persisting progress first.
func (e *Engine) Stop(userID string) (Session, error) {
	e.mu.Lock()
	r, ok := e.runners[userID]
	if !ok {
		e.mu.Unlock()
		return Session{}, ErrNoSession
	}
	ctl := e.detachLocked(userID)
	r.sess.Running = false
	e.saveProgressLocked(r)
	snap := *r.sess
	delete(e.runners, userID)
	e.mu.Unlock()

	if ctl != nil {
		ctl.cancel()
	}
	return snap, nil
}

// Current returns a snapshot of the user's active session, if any.
func (e *Engine) Current(userID string) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.runners[userID]
	if !ok {
		return Session{}, false
	}
	return *r.sess, true
}

// CancelForTask ends the session if it references the given task.
// Used when the task is deleted; its progress is not saved.
func (e *Engine) CancelForTask(userID, taskID string) {
	e.mu.Lock()
	r, ok := e.runners[userID]
	if !ok || r.sess.Task.ID != taskID {
		e.mu.Unlock()
		return
	}
	ctl := e.detachLocked(userID)
	r.sess.Running = false
	delete(e.runners, userID)
	e.mu.Unlock()

	if ctl != nil {
		ctl.cancel()
	}
}

// CancelForMethod ends the session if it uses the given method.
// Used when the method is deleted; accumulated progress is saved.
func (e *Engine) CancelForMethod(userID, methodName string) {
	e.mu.Lock()
	r, ok := e.runners[userID]
	if !ok || !strings.EqualFold(r.sess.Method.Name, methodName) {
		e.mu.Unlock()
		return
	}
	ctl := e.detachLocked(userID)
	r.sess.Running = false
	e.saveProgressLocked(r)
	delete(e.runners, userID)
	e.mu.Unlock()

	if ctl != nil {
		ctl.cancel()
	}
}

package study

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/studato/studato/core"
)

// fake clock

type fakeTicker struct {
	ch chan time.Time
}

func (ft *fakeTicker) C() <-chan time.Time { return ft.ch }
func (ft *fakeTicker) Stop()               {}

// tick delivers one tick; it returns once the countdown loop has taken it.
func (ft *fakeTicker) tick(now time.Time) { ft.ch <- now }

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	fail    bool
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(d time.Duration) (core.Ticker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, core.ErrTimerUnavailable
	}
	ft := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, ft)
	return ft, nil
}

func (c *fakeClock) lastTicker(t *testing.T) *fakeTicker {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		t.Fatal("no ticker was acquired")
	}
	return c.tickers[len(c.tickers)-1]
}

// fake repositories & collaborators

type fakeTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]Task
	saveCalls int
	failSave  bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]Task)}
}

func (r *fakeTaskRepo) CreateTask(t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) QueryTasks(userID string) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) GetTaskByID(userID, id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok && t.UserID == userID {
		return t, nil
	}
	return Task{}, ErrTaskNotFound
}

func (r *fakeTaskRepo) SaveTaskProgress(id string, progress float64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.failSave {
		return errors.New("store is down")
	}
	if t, ok := r.tasks[id]; ok {
		t.Progress = progress
		t.Completed = completed
		r.tasks[id] = t
	}
	return nil
}

func (r *fakeTaskRepo) DeleteTask(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; !ok || t.UserID != userID {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) get(id string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	return t, ok
}

type fakeMethodRepo struct {
	mu      sync.Mutex
	methods map[string]StudyMethod // keyed by userID+"/"+name
}

func newFakeMethodRepo() *fakeMethodRepo {
	return &fakeMethodRepo{methods: make(map[string]StudyMethod)}
}

func (r *fakeMethodRepo) CreateMethod(userID string, m StudyMethod) (StudyMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[userID+"/"+m.Name] = m
	return m, nil
}

func (r *fakeMethodRepo) QueryMethods(userID string) ([]StudyMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StudyMethod
	for k, m := range r.methods {
		if k == userID+"/"+m.Name {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMethodRepo) GetMethodByName(userID, name string) (StudyMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.methods[userID+"/"+name]; ok {
		return m, nil
	}
	return StudyMethod{}, ErrMethodNotFound
}

func (r *fakeMethodRepo) DeleteMethod(userID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[userID+"/"+name]; !ok {
		return ErrMethodNotFound
	}
	delete(r.methods, userID+"/"+name)
	return nil
}

type fakeAwarder struct {
	mu     sync.Mutex
	awards map[string][]int
}

func newFakeAwarder() *fakeAwarder {
	return &fakeAwarder{awards: make(map[string][]int)}
}

func (a *fakeAwarder) Award(userID string, amount int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.awards[userID] = append(a.awards[userID], amount)
	var total int
	for _, amt := range a.awards[userID] {
		total += amt
	}
	return total, nil
}

func (a *fakeAwarder) count(userID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.awards[userID])
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// eventually polls cond until it holds or the deadline passes. The engine
// processes ticks on its own goroutine, so the last delivered tick may still
// be in flight when the test resumes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

// assertNotConsumed asserts that no one is draining the ticker anymore.
func assertNotConsumed(t *testing.T, ft *fakeTicker, now time.Time) {
	t.Helper()
	select {
	case ft.ch <- now:
		t.Fatal("tick was consumed after cancellation")
	case <-time.After(50 * time.Millisecond):
	}
}

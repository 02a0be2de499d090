package study

import (
	"testing"
)

func serviceSetup() (*Service, *fakeTaskRepo, *fakeMethodRepo, *fakeAwarder, *fakeClock) {
	clock := newFakeClock()
	tasks := newFakeTaskRepo()
	methods := newFakeMethodRepo()
	awards := newFakeAwarder()
	engine := NewEngine(clock, tasks, awards, nopLogger{})
	svc := NewService(tasks, methods, engine, awards, clock)
	return svc, tasks, methods, awards, clock
}

func TestCreateMethod_Validation(t *testing.T) {
	svc, _, _, _, _ := serviceSetup()

	tests := []struct {
		name    string
		method  NewMethod
		wantErr bool
	}{
		{name: "valid", method: NewMethod{Name: "Deep Work", WorkMinutes: 50, BreakMinutes: 10}},
		{name: "valid no break", method: NewMethod{Name: "Sprint", WorkMinutes: 15}},
		{name: "zero work", method: NewMethod{Name: "Idle", WorkMinutes: 0}, wantErr: true},
		{name: "negative work", method: NewMethod{Name: "Rewind", WorkMinutes: -5}, wantErr: true},
		{name: "negative break", method: NewMethod{Name: "Odd", WorkMinutes: 10, BreakMinutes: -1}, wantErr: true},
		{name: "missing name", method: NewMethod{WorkMinutes: 10}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMethod("u1", tt.method)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateMethod() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMethod_NameUniqueness(t *testing.T) {
	svc, _, _, _, _ := serviceSetup()

	if _, err := svc.CreateMethod("u1", NewMethod{Name: "Deep Work", WorkMinutes: 50}); err != nil {
		t.Fatalf("CreateMethod() failed: %v", err)
	}
	if _, err := svc.CreateMethod("u1", NewMethod{Name: "Deep Work", WorkMinutes: 30}); err == nil {
		t.Error("duplicate custom name accepted")
	}
	// presets occupy their names too
	if _, err := svc.CreateMethod("u1", NewMethod{Name: "Pomodoro Technique", WorkMinutes: 30}); err == nil {
		t.Error("preset name accepted for a custom method")
	}
	// another user is free to reuse the name
	if _, err := svc.CreateMethod("u2", NewMethod{Name: "Deep Work", WorkMinutes: 50}); err != nil {
		t.Errorf("CreateMethod() for another user failed: %v", err)
	}
}

func TestMethods_PresetsPlusCustoms(t *testing.T) {
	svc, _, _, _, _ := serviceSetup()

	if _, err := svc.CreateMethod("u1", NewMethod{Name: "Deep Work", WorkMinutes: 50}); err != nil {
		t.Fatalf("CreateMethod() failed: %v", err)
	}
	all, err := svc.Methods("u1")
	if err != nil {
		t.Fatalf("Methods() failed: %v", err)
	}
	if want := len(Presets()) + 1; len(all) != want {
		t.Errorf("len(Methods()) = %d, want %d", len(all), want)
	}
}

func TestDeleteMethod(t *testing.T) {
	svc, tasks, _, _, clock := serviceSetup()

	if err := svc.DeleteMethod("u1", "Pomodoro Technique"); err != ErrPresetReadOnly {
		t.Errorf("DeleteMethod(preset) error = %v, want ErrPresetReadOnly", err)
	}

	if _, err := svc.CreateMethod("u1", NewMethod{Name: "Deep Work", WorkMinutes: 50}); err != nil {
		t.Fatalf("CreateMethod() failed: %v", err)
	}
	task := halfHourTask(tasks)
	if _, err := svc.StartSession("u1", task.ID, "Deep Work"); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	ft := clock.lastTicker(t)

	if err := svc.DeleteMethod("u1", "Deep Work"); err != nil {
		t.Fatalf("DeleteMethod() failed: %v", err)
	}
	if _, ok := svc.CurrentSession("u1"); ok {
		t.Error("session survived its method's deletion")
	}
	assertNotConsumed(t, ft, clock.Now())
}

func TestCreateTask_Validation(t *testing.T) {
	svc, _, _, _, _ := serviceSetup()

	if _, err := svc.CreateTask("u1", NewTask{Name: "Read", HoursNeeded: 0}); err == nil {
		t.Error("zero estimate accepted")
	}
	if _, err := svc.CreateTask("u1", NewTask{HoursNeeded: 2}); err == nil {
		t.Error("missing name accepted")
	}
	tsk, err := svc.CreateTask("u1", NewTask{Name: "Read chapter 4", HoursNeeded: 0.5})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	if tsk.Progress != 0 || tsk.Completed {
		t.Errorf("new task = %+v, want progress 0 not completed", tsk)
	}
	if tsk.ID == "" {
		t.Error("new task has no id")
	}
}

func TestFinishTask_AwardsOnce(t *testing.T) {
	svc, tasks, _, awards, _ := serviceSetup()
	task := halfHourTask(tasks)

	done, err := svc.FinishTask("u1", task.ID)
	if err != nil {
		t.Fatalf("FinishTask() failed: %v", err)
	}
	if done.Progress != 100 || !done.Completed {
		t.Errorf("FinishTask() = %+v, want progress 100 completed", done)
	}
	if got := awards.count("u1"); got != 1 {
		t.Fatalf("award count = %d, want 1", got)
	}

	// finishing again is a no-op: the completed flag guards the ledger
	if _, err := svc.FinishTask("u1", task.ID); err != nil {
		t.Fatalf("second FinishTask() failed: %v", err)
	}
	if got := awards.count("u1"); got != 1 {
		t.Errorf("award count after re-finish = %d, want 1", got)
	}
}

func TestFinishTask_SaveFailureSurfaced(t *testing.T) {
	svc, tasks, _, _, _ := serviceSetup()
	task := halfHourTask(tasks)
	tasks.failSave = true

	done, err := svc.FinishTask("u1", task.ID)
	if err == nil {
		t.Fatal("persistence failure was swallowed")
	}
	// optimistic local update: the returned task is still finished
	if done.Progress != 100 || !done.Completed {
		t.Errorf("FinishTask() = %+v, want the local update kept", done)
	}
}

func TestStartSession_MissingSelection(t *testing.T) {
	svc, tasks, _, _, clock := serviceSetup()
	task := halfHourTask(tasks)

	if _, err := svc.StartSession("u1", task.ID, "Pomodoro Technique"); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	ft := clock.lastTicker(t)
	ft.tick(clock.Now())
	eventually(t, func() bool {
		s, ok := svc.CurrentSession("u1")
		return ok && s.ElapsedWorkSeconds == 1
	}, "tick was not processed")

	if _, err := svc.StartSession("u1", "", "Pomodoro Technique"); err != ErrMissingSelection {
		t.Errorf("StartSession() error = %v, want ErrMissingSelection", err)
	}
	if _, err := svc.StartSession("u1", task.ID, ""); err != ErrMissingSelection {
		t.Errorf("StartSession() error = %v, want ErrMissingSelection", err)
	}

	s, ok := svc.CurrentSession("u1")
	if !ok || s.ElapsedWorkSeconds != 1 {
		t.Errorf("prior session touched by the failed starts: %+v", s)
	}
}

func TestStartSession_UnknownSelections(t *testing.T) {
	svc, tasks, _, _, _ := serviceSetup()
	task := halfHourTask(tasks)

	if _, err := svc.StartSession("u1", "nope", "Pomodoro Technique"); err != ErrTaskNotFound {
		t.Errorf("StartSession() error = %v, want ErrTaskNotFound", err)
	}
	if _, err := svc.StartSession("u1", task.ID, "No Such Method"); err != ErrMethodNotFound {
		t.Errorf("StartSession() error = %v, want ErrMethodNotFound", err)
	}
}

func TestDeleteTask_CancelsSession(t *testing.T) {
	svc, tasks, _, _, _ := serviceSetup()
	task := halfHourTask(tasks)

	if _, err := svc.StartSession("u1", task.ID, "Pomodoro Technique"); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if err := svc.DeleteTask("u1", task.ID); err != nil {
		t.Fatalf("DeleteTask() failed: %v", err)
	}
	if _, ok := svc.CurrentSession("u1"); ok {
		t.Error("session survived its task's deletion")
	}
}

func TestGetMethod_PresetLookupIsCaseInsensitive(t *testing.T) {
	svc, _, _, _, _ := serviceSetup()

	m, err := svc.GetMethod("u1", "pomodoro technique")
	if err != nil {
		t.Fatalf("GetMethod() failed: %v", err)
	}
	if m.WorkMinutes != 25 || m.BreakMinutes != 5 {
		t.Errorf("GetMethod() = %+v, want the 25/5 preset", m)
	}
	if !m.Preset {
		t.Error("preset flag not set")
	}
}

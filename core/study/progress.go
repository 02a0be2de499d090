package study

// Project converts accumulated work seconds into a completion percentage
// against the task's estimated effort. The result is clamped to [0,100].
func Project(t Task, elapsedWorkSeconds int) float64 {
	target := t.HoursNeeded * 3600
	if target <= 0 {
		return 100
	}
	pct := 100 * float64(elapsedWorkSeconds) / target
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

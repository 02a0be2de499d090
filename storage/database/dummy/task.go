package dummydb

import (
	"sort"
	"time"

	"github.com/studato/studato/core/study"
)

type taskRepository struct {
	db *taskTable
}

var _ study.TaskRepository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) study.TaskRepository {
	return &taskRepository{db: db.task}
}

func (repo *taskRepository) CreateTask(t study.Task) (study.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) QueryTasks(userID string) ([]study.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]study.Task, 0)
	for _, t := range repo.db.table {
		if t.UserID == userID {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(userID, id string) (study.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok && t.UserID == userID {
		return *t, nil
	}
	return study.Task{}, study.ErrTaskNotFound
}

func (repo *taskRepository) SaveTaskProgress(id string, progress float64, completed bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[id]
	if !ok {
		return study.ErrTaskNotFound
	}
	t.Progress = progress
	t.Completed = completed
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *taskRepository) DeleteTask(userID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if t, ok := repo.db.table[id]; !ok || t.UserID != userID {
		return study.ErrTaskNotFound
	}
	delete(repo.db.table, id)
	return nil
}

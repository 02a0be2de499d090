package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/study"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ study.TaskRepository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) study.TaskRepository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(t study.Task) (study.Task, error) {
	q := `INSERT INTO task (id, user_id, name, hours_needed, progress, completed, created_at, updated_at)
	      VALUES (:id, :user_id, :name, :hours_needed, :progress, :completed, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(q, t); err != nil {
		return study.Task{}, errors.Wrap(err, "inserting task")
	}
	return t, nil
}

func (repo *taskRepository) QueryTasks(userID string) ([]study.Task, error) {
	var tasks []study.Task
	q := `SELECT * FROM task WHERE user_id = $1 ORDER BY created_at`
	if err := repo.db.Select(&tasks, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(userID, id string) (study.Task, error) {
	var t study.Task
	q := `SELECT * FROM task WHERE user_id = $1 AND id = $2`
	if err := repo.db.Get(&t, q, userID, id); err != nil {
		if err == sql.ErrNoRows {
			return study.Task{}, study.ErrTaskNotFound
		}
		return study.Task{}, errors.Wrap(err, "getting task")
	}
	return t, nil
}

func (repo *taskRepository) SaveTaskProgress(id string, progress float64, completed bool) error {
	q := `UPDATE task SET progress = $2, completed = $3, updated_at = now() WHERE id = $1`
	res, err := repo.db.Exec(q, id, progress, completed)
	if err != nil {
		return errors.Wrap(err, "saving task progress")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return study.ErrTaskNotFound
	}
	return nil
}

func (repo *taskRepository) DeleteTask(userID, id string) error {
	res, err := repo.db.Exec(`DELETE FROM task WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return study.ErrTaskNotFound
	}
	return nil
}

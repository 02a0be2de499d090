package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/study"
)

type methodRepository struct {
	db *sqlx.DB
}

var _ study.MethodRepository = (*methodRepository)(nil) // interface compliance check

func NewMethodRepository(db *sqlx.DB) study.MethodRepository {
	return &methodRepository{db: db}
}

func (repo *methodRepository) CreateMethod(userID string, m study.StudyMethod) (study.StudyMethod, error) {
	q := `INSERT INTO study_method (user_id, name, description, work_minutes, break_minutes)
	      VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.Exec(q, userID, m.Name, m.Description, m.WorkMinutes, m.BreakMinutes); err != nil {
		return study.StudyMethod{}, errors.Wrap(err, "inserting study method")
	}
	return m, nil
}

func (repo *methodRepository) QueryMethods(userID string) ([]study.StudyMethod, error) {
	var methods []study.StudyMethod
	q := `SELECT name, description, work_minutes, break_minutes FROM study_method
	      WHERE user_id = $1 ORDER BY name`
	if err := repo.db.Select(&methods, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying study methods")
	}
	return methods, nil
}

func (repo *methodRepository) GetMethodByName(userID, name string) (study.StudyMethod, error) {
	var m study.StudyMethod
	q := `SELECT name, description, work_minutes, break_minutes FROM study_method
	      WHERE user_id = $1 AND lower(name) = lower($2)`
	if err := repo.db.Get(&m, q, userID, name); err != nil {
		if err == sql.ErrNoRows {
			return study.StudyMethod{}, study.ErrMethodNotFound
		}
		return study.StudyMethod{}, errors.Wrap(err, "getting study method")
	}
	return m, nil
}

func (repo *methodRepository) DeleteMethod(userID, name string) error {
	res, err := repo.db.Exec(`DELETE FROM study_method WHERE user_id = $1 AND lower(name) = lower($2)`, userID, name)
	if err != nil {
		return errors.Wrap(err, "deleting study method")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return study.ErrMethodNotFound
	}
	return nil
}

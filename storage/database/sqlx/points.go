package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/reward"
)

type pointsRepository struct {
	db *sqlx.DB
}

var _ reward.Repository = (*pointsRepository)(nil) // interface compliance check

func NewPointsRepository(db *sqlx.DB) reward.Repository {
	return &pointsRepository{db: db}
}

func (repo *pointsRepository) GetPoints(userID string) (int, error) {
	var total int
	if err := repo.db.Get(&total, `SELECT total FROM points WHERE user_id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.Wrap(err, "getting points")
	}
	return total, nil
}

func (repo *pointsRepository) SavePoints(userID string, total int) error {
	q := `INSERT INTO points (user_id, total) VALUES ($1, $2)
	      ON CONFLICT (user_id) DO UPDATE SET total = EXCLUDED.total`
	if _, err := repo.db.Exec(q, userID, total); err != nil {
		return errors.Wrap(err, "saving points")
	}
	return nil
}

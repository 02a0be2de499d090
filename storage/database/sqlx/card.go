package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/studato/studato/core/review"
)

type cardRepository struct {
	db *sqlx.DB
}

var _ review.Repository = (*cardRepository)(nil) // interface compliance check

func NewCardRepository(db *sqlx.DB) review.Repository {
	return &cardRepository{db: db}
}

// cardRow carries the tags column, which needs pq's array scanning.
type cardRow struct {
	review.Flashcard
	TagList pq.StringArray `db:"tags"`
}

func (r cardRow) card() review.Flashcard {
	c := r.Flashcard
	c.Tags = r.TagList
	return c
}

func (repo *cardRepository) CreateCard(c review.Flashcard) (review.Flashcard, error) {
	q := `INSERT INTO flashcard (id, user_id, term, definition, tags, status, last_reviewed, review_interval_days, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.Exec(q,
		c.ID, c.UserID, c.Term, c.Definition, pq.StringArray(c.Tags),
		c.Status, c.LastReviewed, c.ReviewIntervalDays, c.CreatedAt)
	if err != nil {
		return review.Flashcard{}, errors.Wrap(err, "inserting flashcard")
	}
	return c, nil
}

func (repo *cardRepository) QueryCards(userID string, filter review.QueryFilter) ([]review.Flashcard, error) {
	q := `SELECT * FROM flashcard WHERE user_id = $1`
	args := []interface{}{userID}
	if filter.Status != nil {
		q += ` AND status = $2`
		args = append(args, *filter.Status)
	}
	// tag and due narrowing happen in the service; DueOnly depends on its clock

	var rows []cardRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying flashcards")
	}
	cards := make([]review.Flashcard, 0, len(rows))
	for _, r := range rows {
		c := r.card()
		if filter.Matches(c) {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (repo *cardRepository) GetCardByID(userID, id string) (review.Flashcard, error) {
	var r cardRow
	q := `SELECT * FROM flashcard WHERE user_id = $1 AND id = $2`
	if err := repo.db.Get(&r, q, userID, id); err != nil {
		if err == sql.ErrNoRows {
			return review.Flashcard{}, review.ErrNotFound
		}
		return review.Flashcard{}, errors.Wrap(err, "getting flashcard")
	}
	return r.card(), nil
}

func (repo *cardRepository) SaveCardSchedule(id string, status review.Status, lastReviewed time.Time, intervalDays float64) error {
	q := `UPDATE flashcard SET status = $2, last_reviewed = $3, review_interval_days = $4 WHERE id = $1`
	res, err := repo.db.Exec(q, id, status, lastReviewed, intervalDays)
	if err != nil {
		return errors.Wrap(err, "saving flashcard schedule")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (repo *cardRepository) DeleteCard(userID, id string) error {
	res, err := repo.db.Exec(`DELETE FROM flashcard WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return errors.Wrap(err, "deleting flashcard")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return review.ErrNotFound
	}
	return nil
}

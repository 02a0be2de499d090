package dummydb

import (
	"time"

	"github.com/studato/studato/core/review"
)

type cardRepository struct {
	db *cardTable
}

var _ review.Repository = (*cardRepository)(nil) // interface compliance check

func NewCardRepository(db *DB) review.Repository {
	return &cardRepository{db: db.card}
}

func (repo *cardRepository) CreateCard(c review.Flashcard) (review.Flashcard, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *cardRepository) QueryCards(userID string, filter review.QueryFilter) ([]review.Flashcard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cards := make([]review.Flashcard, 0)
	for _, c := range repo.db.table {
		if c.UserID == userID && filter.Matches(*c) {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

func (repo *cardRepository) GetCardByID(userID, id string) (review.Flashcard, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok && c.UserID == userID {
		return *c, nil
	}
	return review.Flashcard{}, review.ErrNotFound
}

func (repo *cardRepository) SaveCardSchedule(id string, status review.Status, lastReviewed time.Time, intervalDays float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[id]
	if !ok {
		return review.ErrNotFound
	}
	c.Status = status
	c.LastReviewed = lastReviewed
	c.ReviewIntervalDays = intervalDays
	return nil
}

func (repo *cardRepository) DeleteCard(userID, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if c, ok := repo.db.table[id]; !ok || c.UserID != userID {
		return review.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

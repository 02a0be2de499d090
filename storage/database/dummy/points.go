package dummydb

import (
	"github.com/studato/studato/core/reward"
)

type pointsRepository struct {
	db *pointsTable
}

var _ reward.Repository = (*pointsRepository)(nil) // interface compliance check

func NewPointsRepository(db *DB) reward.Repository {
	return &pointsRepository{db: db.points}
}

func (repo *pointsRepository) GetPoints(userID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.table[userID], nil
}

func (repo *pointsRepository) SavePoints(userID string, total int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[userID] = total
	return nil
}

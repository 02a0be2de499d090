package reward

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrNegativeAward = errors.New("award amount cannot be negative")

type (
	Repository interface {
		GetPoints(userID string) (int, error)
		SavePoints(userID string, total int) error
	}

	// Service is the reward ledger: a monotonically increasing point total
	// per user. Totals only ever grow; there is no decay and no decrement.
	// Idempotence per completion event is the caller's contract (the task's
	// completed flag, the study pass's awarded flag); the ledger itself
	// just adds.
	Service struct {
		mu   sync.Mutex
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Award adds amount to the user's total and returns the new total.
func (svc *Service) Award(userID string, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeAward
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	total, err := svc.repo.GetPoints(userID)
	if err != nil {
		return 0, errors.Wrap(err, "loading points")
	}
	total += amount
	if amount == 0 {
		return total, nil
	}
	if err := svc.repo.SavePoints(userID, total); err != nil {
		return total, errors.Wrap(err, "saving points")
	}
	return total, nil
}

func (svc *Service) Total(userID string) (int, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.repo.GetPoints(userID)
}

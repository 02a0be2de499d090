package review

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/studato/studato/core"
)

var ErrNotFound = errors.New("flashcard not found")

type (
	Repository interface {
		CreateCard(c Flashcard) (Flashcard, error)
		QueryCards(userID string, filter QueryFilter) ([]Flashcard, error)
		GetCardByID(userID, id string) (Flashcard, error)
		SaveCardSchedule(id string, status Status, lastReviewed time.Time, intervalDays float64) error
		DeleteCard(userID, id string) error
	}

	// Awarder hands out points on completion events.
	Awarder interface {
		Award(userID string, amount int) (int, error)
	}

	Service struct {
		mu      sync.Mutex
		repo    Repository
		rewards Awarder
		clock   core.Clock
		logger  core.Logger
		passes  map[string]*studyPass
	}

	// studyPass tracks one run through the due set; grading the last
	// remaining card awards points exactly once.
	studyPass struct {
		remaining map[string]struct{}
		awarded   bool
	}
)

func NewService(repo Repository, rewards Awarder, clock core.Clock, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		rewards: rewards,
		clock:   clock,
		logger:  logger,
		passes:  make(map[string]*studyPass),
	}
}

func (svc *Service) Create(userID string, nc NewCard) (Flashcard, error) {
	if err := nc.Validate(); err != nil {
		return Flashcard{}, err
	}
	now := svc.clock.Now()
	c := Flashcard{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Term:               nc.Term,
		Definition:         nc.Definition,
		Tags:               nc.Tags,
		Status:             StatusLearning,
		LastReviewed:       now,
		ReviewIntervalDays: DefaultReviewIntervalDays,
		CreatedAt:          now,
	}
	return svc.repo.CreateCard(c)
}

// Query lists the user's cards honoring the filter's status/tag narrowing,
// due-only flag and sort order.
func (svc *Service) Query(userID string, filter QueryFilter) ([]Flashcard, error) {
	cards, err := svc.repo.QueryCards(userID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying cards")
	}
	if filter.DueOnly {
		cards = DueCards(cards, svc.clock.Now())
	}
	SortCards(cards, filter.SortBy)
	return cards, nil
}

// Counts tallies the user's whole card set per status.
func (svc *Service) Counts(userID string) (map[Status]int, error) {
	cards, err := svc.repo.QueryCards(userID, QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying cards")
	}
	return CountByStatus(cards), nil
}

func (svc *Service) Get(userID, id string) (Flashcard, error) {
	return svc.repo.GetCardByID(userID, id)
}

func (svc *Service) Delete(userID, id string) error {
	if err := svc.repo.DeleteCard(userID, id); err != nil {
		return err
	}
	svc.mu.Lock()
	if p := svc.passes[userID]; p != nil {
		delete(p.remaining, id)
	}
	svc.mu.Unlock()
	return nil
}

// StartPass assembles a shuffled study set from the cards currently due and
// begins tracking it. Grading every card in the set completes the pass and
// awards points once. An empty due set yields no pass.
func (svc *Service) StartPass(userID string) ([]Flashcard, error) {
	now := svc.clock.Now()
	cards, err := svc.repo.QueryCards(userID, QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying cards")
	}
	due := DueCards(cards, now)

	svc.mu.Lock()
	if len(due) == 0 {
		delete(svc.passes, userID)
	} else {
		p := &studyPass{remaining: make(map[string]struct{}, len(due))}
		for _, c := range due {
			p.remaining[c.ID] = struct{}{}
		}
		svc.passes[userID] = p
	}
	svc.mu.Unlock()

	return Shuffle(due, rand.New(rand.NewSource(now.UnixNano()))), nil
}

// GradeCard applies the outcome and persists the new schedule. On a
// persistence failure the updated card is still returned (the local update
// stands) along with the error for the caller to surface.
func (svc *Service) GradeCard(userID, cardID string, outcome Outcome) (Flashcard, error) {
	card, err := svc.repo.GetCardByID(userID, cardID)
	if err != nil {
		return Flashcard{}, err
	}

	graded := Grade(card, outcome, svc.clock.Now())
	saveErr := svc.repo.SaveCardSchedule(graded.ID, graded.Status, graded.LastReviewed, graded.ReviewIntervalDays)

	svc.completePassCard(userID, cardID)

	if saveErr != nil {
		return graded, errors.Wrap(saveErr, "saving card schedule")
	}
	return graded, nil
}

func (svc *Service) completePassCard(userID, cardID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	p := svc.passes[userID]
	if p == nil {
		return
	}
	delete(p.remaining, cardID)
	if len(p.remaining) == 0 && !p.awarded {
		// the pass stays awarded either way; points are not retried
		p.awarded = true
		if _, err := svc.rewards.Award(userID, core.Conf.ReviewPassPoints); err != nil {
			svc.logger.Error("awarding review pass points", errors.Wrap(err, "awarding points"))
		}
	}
}

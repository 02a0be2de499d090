package review

import (
	"math/rand"
	"sort"
	"time"
)

// DueCards filters cards down to those due at now.
func DueCards(cards []Flashcard, now time.Time) []Flashcard {
	due := make([]Flashcard, 0, len(cards))
	for _, c := range cards {
		if c.Due(now) {
			due = append(due, c)
		}
	}
	return due
}

// Grade applies a review outcome to a card and returns the updated card.
//
//	still-learning -> Learning,  interval unchanged
//	review-later   -> Reviewing, interval unchanged
//	mastered       -> Mastered,  interval doubled
//
// LastReviewed always moves to now, so a freshly graded card is never due
// again immediately. Grading a card that is not yet due is fine (studying
// ahead) and has identical effects. Interval growth is deliberately
// uncapped; repeated mastery keeps doubling.
func Grade(card Flashcard, outcome Outcome, now time.Time) Flashcard {
	switch outcome {
	case OutcomeStillLearning:
		card.Status = StatusLearning
	case OutcomeReviewLater:
		card.Status = StatusReviewing
	case OutcomeMastered:
		card.Status = StatusMastered
		card.ReviewIntervalDays *= 2
	}
	card.LastReviewed = now
	return card
}

// Shuffle returns a random permutation of cards. Scheduling state is
// untouched; only the study order changes.
func Shuffle(cards []Flashcard, r *rand.Rand) []Flashcard {
	shuffled := make([]Flashcard, len(cards))
	copy(shuffled, cards)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// CountByStatus tallies a card set per mastery rung. Every rung is present
// in the result, zero-valued when empty.
func CountByStatus(cards []Flashcard) map[Status]int {
	counts := map[Status]int{
		StatusLearning:  0,
		StatusReviewing: 0,
		StatusMastered:  0,
	}
	for _, c := range cards {
		counts[c.Status]++
	}
	return counts
}

// SortCards orders a listing in place by the given key; unknown keys leave
// the order as-is. Status sorts up the mastery ladder.
func SortCards(cards []Flashcard, by string) {
	switch by {
	case "term":
		sort.SliceStable(cards, func(i, j int) bool { return cards[i].Term < cards[j].Term })
	case "status":
		sort.SliceStable(cards, func(i, j int) bool { return cards[i].Status < cards[j].Status })
	case "created_at":
		sort.SliceStable(cards, func(i, j int) bool { return cards[i].CreatedAt.Before(cards[j].CreatedAt) })
	}
}

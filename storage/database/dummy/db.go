package dummydb

import (
	"sync"

	"github.com/studato/studato/core/review"
	"github.com/studato/studato/core/study"
)

type (
	DB struct {
		method *methodTable
		task   *taskTable
		card   *cardTable
		points *pointsTable
	}

	methodTable struct {
		sync.RWMutex
		table map[string]*study.StudyMethod // keyed by user_id + "/" + lower(name)
	}

	taskTable struct {
		sync.RWMutex
		table map[string]*study.Task
	}

	cardTable struct {
		sync.RWMutex
		table map[string]*review.Flashcard
	}

	pointsTable struct {
		sync.RWMutex
		table map[string]int
	}
)

func Open() (*DB, error) {
	db := &DB{
		method: &methodTable{table: make(map[string]*study.StudyMethod)},
		task:   &taskTable{table: make(map[string]*study.Task)},
		card:   &cardTable{table: make(map[string]*review.Flashcard)},
		points: &pointsTable{table: make(map[string]int)},
	}
	return db, nil
}

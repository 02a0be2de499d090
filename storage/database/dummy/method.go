package dummydb

import (
	"sort"
	"strings"

	"github.com/studato/studato/core/study"
)

type methodRepository struct {
	db *methodTable
}

var _ study.MethodRepository = (*methodRepository)(nil) // interface compliance check

func NewMethodRepository(db *DB) study.MethodRepository {
	return &methodRepository{db: db.method}
}

func methodKey(userID, name string) string {
	return userID + "/" + strings.ToLower(name)
}

func (repo *methodRepository) CreateMethod(userID string, m study.StudyMethod) (study.StudyMethod, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[methodKey(userID, m.Name)] = &m
	return m, nil
}

func (repo *methodRepository) QueryMethods(userID string) ([]study.StudyMethod, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	prefix := userID + "/"
	methods := make([]study.StudyMethod, 0)
	for key, m := range repo.db.table {
		if strings.HasPrefix(key, prefix) {
			methods = append(methods, *m)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods, nil
}

func (repo *methodRepository) GetMethodByName(userID, name string) (study.StudyMethod, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[methodKey(userID, name)]; ok {
		return *m, nil
	}
	return study.StudyMethod{}, study.ErrMethodNotFound
}

func (repo *methodRepository) DeleteMethod(userID, name string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := methodKey(userID, name)
	if _, ok := repo.db.table[key]; !ok {
		return study.ErrMethodNotFound
	}
	delete(repo.db.table, key)
	return nil
}

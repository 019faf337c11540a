// Package memory provides in-process implementations of the user and task
// repositories for local development and tests. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	u.CreatedOn = time.Now().UTC()
	r.byEmail[u.Email] = *u
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]domain.Task)}
}

func (r *TaskRepository) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = ids.New()
	}
	t.CreatedOn = time.Now().UTC()
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) List(_ context.Context, owner string, f domain.TaskFilter, limit int) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*domain.Task, 0)
	for _, t := range r.tasks {
		if t.OwnerEmail != owner {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if f.Important != nil && t.Important != *f.Important {
			continue
		}
		t := t
		res = append(res, &t)
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedOn.Equal(res[j].CreatedOn) {
			return res[i].CreatedOn.After(res[j].CreatedOn)
		}
		return res[i].ID > res[j].ID
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *TaskRepository) Update(_ context.Context, id, owner string, u domain.TaskUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.OwnerEmail != owner {
		return repository.ErrNotFound
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.Important != nil {
		t.Important = *u.Important
	}
	r.tasks[id] = t
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.OwnerEmail != owner {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) DeleteAll(_ context.Context, owner string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.tasks {
		if t.OwnerEmail == owner {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository"
)

// MaxListedTasks caps a single listing.
const MaxListedTasks = 100

// TaskStore persists tasks; every call is scoped to an owner email.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context, owner string, f domain.TaskFilter, limit int) ([]*domain.Task, error)
	Update(ctx context.Context, id, owner string, u domain.TaskUpdate) error
	Delete(ctx context.Context, id, owner string) error
	DeleteAll(ctx context.Context, owner string) (int64, error)
}

// TaskListCache is an optional read-through cache for listings.
type TaskListCache interface {
	Get(ctx context.Context, owner string, f domain.TaskFilter) ([]*domain.Task, string, bool)
	Set(ctx context.Context, key string, tasks []*domain.Task)
	Invalidate(ctx context.Context, owner string)
}

type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TaskService struct {
	store TaskStore
	cache TaskListCache
}

// NewTaskService builds the service. cache may be nil.
func NewTaskService(store TaskStore, cache TaskListCache) *TaskService {
	return &TaskService{store: store, cache: cache}
}

func (s *TaskService) Create(ctx context.Context, owner domain.Identity, in CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, invalid("Title and description are required and must be non-empty")
	}

	t := &domain.Task{
		Title:       title,
		Description: description,
		OwnerEmail:  owner.Email,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner.Email)
	return t, nil
}

// List returns the newest tasks of owner matching f.
func (s *TaskService) List(ctx context.Context, owner domain.Identity, f domain.TaskFilter) ([]*domain.Task, error) {
	var key string
	if s.cache != nil {
		tasks, k, ok := s.cache.Get(ctx, owner.Email, f)
		if ok {
			return tasks, nil
		}
		key = k
	}

	tasks, err := s.store.List(ctx, owner.Email, f, MaxListedTasks)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, tasks)
	}
	return tasks, nil
}

// Update applies a partial update to one of owner's tasks.
func (s *TaskService) Update(ctx context.Context, owner domain.Identity, id string, u domain.TaskUpdate) error {
	if !ids.Valid(id) {
		return invalid("Invalid ID")
	}

	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return invalid("Title cannot be empty")
		}
		u.Title = &title
	}
	if u.Description != nil {
		description := strings.TrimSpace(*u.Description)
		if description == "" {
			return invalid("Description cannot be empty")
		}
		u.Description = &description
	}

	if err := s.store.Update(ctx, ids.Normalize(id), owner.Email, u); err != nil {
		return mapTaskErr(err)
	}
	if !u.Empty() {
		s.invalidate(ctx, owner.Email)
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, owner domain.Identity, id string) error {
	if !ids.Valid(id) {
		return invalid("Invalid ID")
	}
	if err := s.store.Delete(ctx, ids.Normalize(id), owner.Email); err != nil {
		return mapTaskErr(err)
	}
	s.invalidate(ctx, owner.Email)
	return nil
}

// DeleteAll removes all of owner's tasks. Zero deleted is not an error.
func (s *TaskService) DeleteAll(ctx context.Context, owner domain.Identity) (int64, error) {
	n, err := s.store.DeleteAll(ctx, owner.Email)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx, owner.Email)
	}
	return n, nil
}

func (s *TaskService) invalidate(ctx context.Context, owner string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, owner)
	}
}

func mapTaskErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

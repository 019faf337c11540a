package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository stores tasks. Every method takes the owner's email and
// filters on it; a task owned by someone else behaves as if it did not exist.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = ids.New()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, owner_email, title, description, completed, important)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_on`,
		t.ID, t.OwnerEmail, t.Title, t.Description, t.Completed, t.Important,
	).Scan(&t.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// List returns up to limit tasks of owner, newest first.
func (r *TaskRepository) List(ctx context.Context, owner string, f domain.TaskFilter, limit int) ([]*domain.Task, error) {
	query, args := buildListQuery(owner, f, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerEmail, &t.Title, &t.Description, &t.Completed, &t.Important, &t.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return res, nil
}

func buildListQuery(owner string, f domain.TaskFilter, limit int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_email, title, description, completed, important, created_on FROM tasks WHERE owner_email = $1`)
	args := []any{owner}

	if f.Completed != nil {
		args = append(args, *f.Completed)
		sb.WriteString(" AND completed = $" + strconv.Itoa(len(args)))
	}
	if f.Important != nil {
		args = append(args, *f.Important)
		sb.WriteString(" AND important = $" + strconv.Itoa(len(args)))
	}

	args = append(args, limit)
	sb.WriteString(" ORDER BY created_on DESC, id DESC LIMIT $" + strconv.Itoa(len(args)))
	return sb.String(), args
}

// Update applies the non-nil fields of u. ErrNotFound when (id, owner) matches nothing.
func (r *TaskRepository) Update(ctx context.Context, id, owner string, u domain.TaskUpdate) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET
		   title = COALESCE($3, title),
		   description = COALESCE($4, description),
		   completed = COALESCE($5, completed),
		   important = COALESCE($6, important)
		 WHERE id = $1 AND owner_email = $2`,
		id, owner, u.Title, u.Description, u.Completed, u.Important,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, owner string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_email = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every task of owner and reports how many were removed.
func (r *TaskRepository) DeleteAll(ctx context.Context, owner string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE owner_email = $1`, owner)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

package domain

import "time"

type Task struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	OwnerEmail  string    `db:"owner_email" json:"email"`
	Completed   bool      `db:"completed" json:"completed"`
	Important   bool      `db:"important" json:"important"`
	CreatedOn   time.Time `db:"created_on" json:"createdOn"`
}

// TaskFilter narrows a task listing. Nil fields are not applied.
type TaskFilter struct {
	Completed *bool
	Important *bool
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Important   *bool
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil && u.Important == nil
}

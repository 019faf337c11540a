package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/response"
	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"
	"github.com/Hamzabaloch08/taskApp-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FlexBool accepts a JSON boolean or a string. Only the string "true" is
// true.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
	case bytes.Equal(data, []byte("false")):
		*b = false
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = s == "true"
	default:
		return fmt.Errorf("cannot use %s as a boolean", data)
	}
	return nil
}

type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Completed   *FlexBool `json:"completed"`
	Important   *FlexBool `json:"important"`
}

func (r updateTaskRequest) toUpdate() domain.TaskUpdate {
	u := domain.TaskUpdate{Title: r.Title, Description: r.Description}
	if r.Completed != nil {
		v := bool(*r.Completed)
		u.Completed = &v
	}
	if r.Important != nil {
		v := bool(*r.Important)
		u.Important = &v
	}
	return u
}

// queryFlag reads a filter parameter: absent means no filter, present means
// value == "true".
func queryFlag(c *gin.Context, key string) *bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b := v == "true"
	return &b
}

func (h *Handler) ListTasks(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	f := domain.TaskFilter{
		Completed: queryFlag(c, "completed"),
		Important: queryFlag(c, "important"),
	}
	tasks, err := h.Tasks.List(c.Request.Context(), id, f)
	if err != nil {
		fail(c, "list tasks", err)
		return
	}
	response.OK(c, http.StatusOK, "Tasks fetched successfully", tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req service.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Title and description are required and must be non-empty")
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), id, req)
	if err != nil {
		fail(c, "create task", err)
		return
	}
	response.OK(c, http.StatusCreated, "Task created successfully", task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if !ids.Valid(taskID) {
		response.Fail(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	// an empty body is an empty update
	var req updateTaskRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if err := h.Tasks.Update(c.Request.Context(), id, taskID, req.toUpdate()); err != nil {
		fail(c, "update task", err)
		return
	}
	response.OK(c, http.StatusOK, "Task updated successfully", nil)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		fail(c, "delete task", err)
		return
	}
	response.OK(c, http.StatusOK, "Task deleted successfully", nil)
}

func (h *Handler) DeleteAllTasks(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	n, err := h.Tasks.DeleteAll(c.Request.Context(), id)
	if err != nil {
		fail(c, "delete all tasks", err)
		return
	}
	response.OK(c, http.StatusOK, "All tasks deleted successfully", gin.H{"deletedCount": n})
}

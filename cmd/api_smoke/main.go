package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"
	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// client is one logged in user. It works against both token transports:
// the cookie jar carries the cookie, bearer holds a body-delivered token.
type client struct {
	name   string
	base   string
	http   *http.Client
	bearer string
}

func newClient(name, base string) *client {
	jar, _ := cookiejar.New(nil)
	return &client{
		name: name,
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (c *client) call(method, path string, body any) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			logger.Fatal("encode body", "error", err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	res, err := c.http.Do(req)
	if err != nil {
		logger.Fatal("request failed", "user", c.name, "method", method, "path", path, "error", err)
	}
	defer res.Body.Close()

	var env envelope
	_ = json.NewDecoder(res.Body).Decode(&env)
	logger.Info("response", "user", c.name, "method", method, "path", path, "status", res.StatusCode, "message", env.Message)
	return res.StatusCode, env
}

func (c *client) expect(want int, method, path string, body any) envelope {
	got, env := c.call(method, path, body)
	if got != want {
		logger.Fatal("unexpected status", "user", c.name, "path", path, "want", want, "got", got, "message", env.Message)
	}
	return env
}

func (c *client) signupAndLogin(email string) {
	c.expect(http.StatusCreated, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"firstName": c.name, "lastName": "Smoke", "email": email, "password": "smoke-password",
	})
	env := c.expect(http.StatusOK, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": email, "password": "smoke-password",
	})

	var tok struct {
		Token string `json:"token"`
	}
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &tok) == nil {
		c.bearer = tok.Token
	}
}

func main() {
	base := flag.String("base", "http://127.0.0.1:8080", "server base url")
	flag.Parse()

	suffix := strings.ToLower(ids.New())
	a := newClient("A", *base)
	b := newClient("B", *base)
	a.signupAndLogin(fmt.Sprintf("smoke-a-%s@example.com", suffix))
	b.signupAndLogin(fmt.Sprintf("smoke-b-%s@example.com", suffix))

	a.expect(http.StatusOK, http.MethodGet, "/api/v1/auth/check", nil)

	env := b.expect(http.StatusCreated, http.MethodPost, "/api/v1/tasks", map[string]string{
		"title": "smoke task", "description": "created by api_smoke",
	})
	var task struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &task); err != nil || task.ID == "" {
		logger.Fatal("created task has no id", "error", err)
	}

	env = a.expect(http.StatusOK, http.MethodGet, "/api/v1/tasks", nil)
	if string(bytes.TrimSpace(env.Data)) != "[]" {
		logger.Fatal("A can see B's tasks", "data", string(env.Data))
	}
	a.expect(http.StatusNotFound, http.MethodPut, "/api/v1/tasks/"+task.ID, map[string]any{"completed": true})
	a.expect(http.StatusNotFound, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)

	b.expect(http.StatusOK, http.MethodPut, "/api/v1/tasks/"+task.ID, map[string]any{"completed": true})
	b.expect(http.StatusOK, http.MethodGet, "/api/v1/tasks?completed=true", nil)
	b.expect(http.StatusOK, http.MethodDelete, "/api/v1/tasks", nil)

	a.expect(http.StatusOK, http.MethodPost, "/api/v1/auth/logout", nil)

	logger.Info("smoke test finished")
}

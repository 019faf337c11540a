package handlers

import (
	"net/http"

	"github.com/Hamzabaloch08/taskApp-backend/internal/http/response"
	"github.com/Hamzabaloch08/taskApp-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Signup(c *gin.Context) {
	var req service.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "All fields required")
		return
	}

	if _, err := h.Auth.Signup(c.Request.Context(), req); err != nil {
		fail(c, "signup", err)
		return
	}
	response.OK(c, http.StatusCreated, "User created", nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Email and password required")
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, "login", err)
		return
	}

	data := h.Transport.Issue(c, res.Token, res.ExpiresAt)
	response.OK(c, http.StatusOK, "Login successful", data)
}

// Logout always succeeds, with or without a session.
func (h *Handler) Logout(c *gin.Context) {
	h.Transport.Clear(c)
	response.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// Check echoes the identity carried by the token. It never reads the store.
func (h *Handler) Check(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	response.OK(c, http.StatusOK, "Authenticated", id)
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/auth"
	"reservas-backend/internal/model"
	"reservas-backend/internal/store"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

// Signup creates a regular account. Admin-created accounts with other roles
// go through the user CRUD endpoints.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleAluno,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		renderError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(user)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Login authenticates by email and password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		renderError(c, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, expiresAt, err := h.tokens.Generate(user)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

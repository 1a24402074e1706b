package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/auth"
	"reservas-backend/internal/model"
	"reservas-backend/internal/mw"
)

type userRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

// ListUsers handles GET /api/users. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/users. Admin only; unlike signup it can
// assign any role.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	user := model.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: req.Role}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /api/users/:id. Admin only. A non-empty password
// resets the account password.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			renderError(c, err)
			return
		}
		user.PasswordHash = hash
	}
	if err := h.store.UpdateUser(c.Request.Context(), &user); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id. Admin only.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile handles GET /api/profile for the authenticated user.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.GetInt64(mw.ContextUserID))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/profile. Changing the password requires
// the current one; name and email changes do not.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), c.GetInt64(mw.ContextUserID))
	if err != nil {
		renderError(c, err)
		return
	}
	if req.NewPassword != "" {
		if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password does not match"})
			return
		}
		if len(req.NewPassword) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			renderError(c, err)
			return
		}
		user.PasswordHash = hash
	}
	user.Name = req.Name
	user.Email = req.Email
	if err := h.store.UpdateUser(c.Request.Context(), &user); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// internal/api/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"requisition-api-server/internal/auth"
	"requisition-api-server/internal/database"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type UserHandler struct {
	Users UserRepository
	// SuperUsername không được dùng lại cho user thường.
	SuperUsername string
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		storeError(c, err, "", "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser kiểm tra trùng username rồi mới insert. Hai request đồng thời vẫn có thể tạo trùng.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}
	if len(req.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	ctx := c.Request.Context()
	if username == h.SuperUsername {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}
	_, err := h.Users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	case !errors.Is(err, database.ErrNotFound):
		storeError(c, err, "", "Failed to create user")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.FromGin(c).Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := &models.User{Username: username, Password: hashed, CreatedAt: time.Now()}
	if err := h.Users.Create(ctx, user); err != nil {
		storeError(c, err, "", "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, "User not found", "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"requisition-api-server/internal/auth"
	"requisition-api-server/internal/database"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Users     UserRepository
	SuperUser auth.SuperUser
	Tokens    *auth.TokenIssuer
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const invalidCredentials = "Invalid username or password"

// Login: tài khoản super-user trong config được kiểm tra trước, sau đó mới tới collection users.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	role := ""
	if h.SuperUser.Matches(req.Username, req.Password) {
		role = models.RoleSuperUser
	} else {
		user, err := h.Users.FindByUsername(c.Request.Context(), req.Username)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
				return
			}
			logger.FromGin(c).Error("Failed to look up user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		if !auth.CheckPasswordHash(req.Password, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
			return
		}
		role = models.RoleUser
	}

	token, expiresAt, err := h.Tokens.Generate(req.Username, role)
	if err != nil {
		logger.FromGin(c).Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"username":  req.Username,
		"role":      role,
	})
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mvalderas/tienda-api/internal/auth"
	"github.com/mvalderas/tienda-api/internal/httpx"
	"github.com/mvalderas/tienda-api/internal/user"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func publicUser(u *user.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Role: u.Role}
}

// registerHandler creates a user and issues its first token.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} product.HTTPError
// @Failure 409 {object} product.HTTPError
// @Router /auth/register [post]
func registerHandler(users *user.Service, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		u, err := users.Register(c.Request.Context(), req.Email, req.Password, req.Role)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		token, err := tokens.Sign(u.ID, u.Email, u.Role)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"user":    publicUser(u),
			"token":   token,
		})
	}
}

// loginHandler authenticates by email/password. The response never reveals
// whether the email or the password was wrong.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} product.HTTPError
// @Router /auth/login [post]
func loginHandler(users *user.Service, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		u, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		token, err := tokens.Sign(u.ID, u.Email, u.Role)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		log.Info().Str("user_id", u.ID).Msg("user logged in")
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    publicUser(u),
			"token":   token,
		})
	}
}

// profileHandler echoes the identity carried by the verified token.
// @Summary Current token identity
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/profile [get]
func profileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.Claims(c)
		c.JSON(http.StatusOK, gin.H{
			"user": userJSON{ID: claims.UserID, Email: claims.Email, Role: claims.Role},
		})
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvalderas/tienda-api/internal/httpx"
	"github.com/mvalderas/tienda-api/internal/user"
)

// listUsersHandler returns every account. Admin only; the password hash is
// never serialized.
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} user.User
// @Router /users [get]
func listUsersHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := users.List(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if out == nil {
			out = []user.User{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// currentUserHandler returns the caller's account from the database (unlike
// /auth/profile, which only echoes token claims).
func currentUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.Claims(c)
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// getUserHandler serves one account to an admin or to its owner.
// @Summary Get user by id
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} user.User
// @Failure 403 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /users/{id} [get]
func getUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.Claims(c)
		id := c.Param("id")
		if !claims.IsAdmin() && claims.UserID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		u, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

type updateUserRequest struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// updateUserHandler applies a partial profile update. Owners may edit their
// own account, admins anyone's; only admins may touch the role.
// @Summary Update user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} product.HTTPError
// @Router /users/{id} [put]
func updateUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.Claims(c)
		id := c.Param("id")
		if !claims.IsAdmin() && claims.UserID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Role != "" && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot change role"})
			return
		}

		u, err := users.Update(c.Request.Context(), id, user.UpdateInput{
			Email:    req.Email,
			Role:     req.Role,
			Password: req.Password,
		})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": u})
	}
}

// deleteUserHandler removes an account. Admin only; self-deletion is refused.
// @Summary Delete user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /users/{id} [delete]
func deleteUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.Claims(c)
		id := c.Param("id")
		if claims.UserID == id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

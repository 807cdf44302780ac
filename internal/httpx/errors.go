package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mvalderas/tienda-api/internal/order"
	"github.com/mvalderas/tienda-api/internal/product"
	"github.com/mvalderas/tienda-api/internal/user"
)

// Status maps a domain error to its HTTP status code. The domain packages
// return a closed set of sentinels, so the boundary never inspects message
// text.
func Status(err error) int {
	switch {
	case errors.Is(err, user.ErrAlreadyExist):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, order.ErrStatusInvalid),
		errors.Is(err, order.ErrQuantityInvalid),
		errors.Is(err, user.ErrRoleInvalid),
		errors.Is(err, user.ErrPasswordTooShort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the JSON error body for err. Unclassified errors are logged
// and reported as a generic 500 so internals never leak to clients.
func Error(c *gin.Context, err error) {
	code := Status(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("rid", c.GetString("rid")).Msg("unhandled error")
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

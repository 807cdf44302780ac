package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mvalderas/tienda-api/internal/auth"
	"github.com/mvalderas/tienda-api/internal/httpx"
	"github.com/mvalderas/tienda-api/internal/order"
	"github.com/mvalderas/tienda-api/internal/product"
	"github.com/mvalderas/tienda-api/internal/user"
)

type deps struct {
	users    *user.Service
	products product.Repository
	orders   *order.Service
	tokens   *auth.TokenManager
	env      string
}

func buildRouter(d deps) *gin.Engine {
	if d.env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	api := r.Group("/api")
	api.GET("/health", healthHandler(d.env))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", registerHandler(d.users, d.tokens))
		authGroup.POST("/login", loginHandler(d.users, d.tokens))
		authGroup.GET("/profile", httpx.Authenticate(d.tokens), profileHandler())
	}

	usersGroup := api.Group("/users", httpx.Authenticate(d.tokens))
	{
		usersGroup.GET("", httpx.RequireAdmin(), listUsersHandler(d.users))
		usersGroup.GET("/profile", currentUserHandler(d.users))
		usersGroup.GET("/:id", getUserHandler(d.users))
		usersGroup.PUT("/:id", updateUserHandler(d.users))
		usersGroup.DELETE("/:id", httpx.RequireAdmin(), deleteUserHandler(d.users))
	}

	productsGroup := api.Group("/products")
	{
		productsGroup.GET("", listProductsHandler(d.products))
		productsGroup.GET("/search", searchProductsHandler(d.products))
		productsGroup.GET("/:id", getProductHandler(d.products))

		adminOnly := productsGroup.Group("", httpx.Authenticate(d.tokens), httpx.RequireAdmin())
		adminOnly.POST("", createProductHandler(d.products))
		adminOnly.PUT("/:id", updateProductHandler(d.products))
		adminOnly.DELETE("/:id", deleteProductHandler(d.products))
	}

	ordersGroup := api.Group("/orders", httpx.Authenticate(d.tokens))
	{
		ordersGroup.POST("", createOrderHandler(d.orders))
		ordersGroup.GET("/my-orders", myOrdersHandler(d.orders))
		ordersGroup.GET("", httpx.RequireAdmin(), listOrdersHandler(d.orders))
		ordersGroup.PUT("/:id/status", httpx.RequireAdmin(), updateOrderStatusHandler(d.orders))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// healthHandler reports liveness.
// @Summary Health check
// @Tags misc
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthHandler(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"environment": env,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvalderas/tienda-api/internal/httpx"
	"github.com/mvalderas/tienda-api/internal/order"
)

// createOrderHandler places an order for the authenticated user. Within a
// placement, a missing referenced product is a bad request on the caller's
// part, not a 404 on the route.
// @Summary Place an order
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param order body order.CreateOrderRequest true "requested items"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} product.HTTPError
// @Router /orders [post]
func createOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
			return
		}

		claims := httpx.Claims(c)
		o, err := orders.Place(c.Request.Context(), claims.UserID, req.Items)
		if err != nil {
			code := httpx.Status(err)
			if code == http.StatusNotFound {
				code = http.StatusBadRequest
			}
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order created successfully",
			"order":   o,
		})
	}
}

// myOrdersHandler lists the caller's orders, items populated.
// @Summary List own orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Success 200 {array} order.Order
// @Router /orders/my-orders [get]
func myOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := httpx.Claims(c)
		out, err := orders.ListByUser(c.Request.Context(), claims.UserID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// listOrdersHandler lists every order with its user attached. Admin only.
// @Summary List all orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Success 200 {array} order.Order
// @Router /orders [get]
func listOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListAll(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// updateOrderStatusHandler sets an order's status. Admin only; cancelled
// orders do not restock.
// @Summary Update order status
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param status body order.UpdateStatusRequest true "new status"
// @Success 200 {object} order.Order
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /orders/{id}/status [put]
func updateOrderStatusHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		o, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

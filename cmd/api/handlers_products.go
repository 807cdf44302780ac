package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mvalderas/tienda-api/internal/httpx"
	"github.com/mvalderas/tienda-api/internal/product"
)

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// listProductsHandler returns the paginated catalog, no search applied.
// @Summary List products
// @Tags products
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} product.ListResponse
// @Router /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		items, err := repo.List(c.Request.Context(), product.Query{Limit: limit, Offset: offset})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// searchProductsHandler filters by name/description. Requires q of at least
// two characters.
// @Summary Search products
// @Tags products
// @Produce json
// @Param q query string true "search term (min 2 chars)"
// @Success 200 {object} product.ListResponse
// @Failure 400 {object} product.HTTPError
// @Router /products/search [get]
func searchProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len(q) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q must have at least 2 characters"})
			return
		}
		limit, offset := pagination(c)
		items, err := repo.List(c.Request.Context(), product.Query{Q: q, Limit: limit, Offset: offset})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q, Limit: limit, Offset: offset, Items: items})
	}
}

// getProductHandler serves one product, public.
// @Summary Get product by id
// @Tags products
// @Produce json
// @Success 200 {object} product.Product
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler inserts a product. Admin only.
// @Summary Create product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product body product.CreateRequest true "product"
// @Success 201 {object} product.Product
// @Failure 400 {object} product.HTTPError
// @Router /products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and category are required"})
			return
		}
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
			return
		}
		if req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be non-negative"})
			return
		}

		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
			Category:    req.Category,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler applies a partial update; absent fields and empty
// strings leave stored values untouched.
// @Summary Update product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product body product.UpdateRequest true "fields to change"
// @Success 200 {object} product.Product
// @Failure 400 {object} product.HTTPError
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Price != nil && !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
			return
		}
		if req.Stock != nil && *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be non-negative"})
			return
		}

		id := c.Param("id")
		err := repo.Update(c.Request.Context(), id, product.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
			Category:    req.Category,
		})
		if err != nil {
			httpx.Error(c, err)
			return
		}

		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// deleteProductHandler removes a product. Admin only.
// @Summary Delete product
// @Tags products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": product.ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

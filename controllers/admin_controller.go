package controllers

import (
	"errors"
	"net/http"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/models"
	"github.com/Danii44/PRIMEHODDIE/repository"
	"github.com/Danii44/PRIMEHODDIE/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController backs the admin dashboard. Writes go to the document store
// and are followed by a catalog refresh so shoppers see them.
type AdminController struct {
	products repository.ProductRepo
	orders   repository.OrderRepo
	catalog  *store.Catalog
	logger   *zap.Logger
}

func NewAdminController(products repository.ProductRepo, orders repository.OrderRepo, catalog *store.Catalog, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{products: products, orders: orders, catalog: catalog, logger: logger}
}

func (ac *AdminController) ListProducts(c *gin.Context) {
	products, err := ac.products.GetAllProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (ac *AdminController) GetProduct(c *gin.Context) {
	p, err := ac.products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ac *AdminController) CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	id, err := ac.products.AddProduct(c.Request.Context(), &p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ac.logger.Info("Product created", zap.String("product_id", id), zap.String("name", p.Name))
	ac.refresh(c)
	c.JSON(http.StatusCreated, p)
}

func (ac *AdminController) UpdateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	id := c.Param("id")
	if err := ac.products.UpdateProduct(c.Request.Context(), id, &p); err != nil {
		_ = c.Error(err)
		return
	}
	ac.logger.Info("Product updated", zap.String("product_id", id))
	ac.refresh(c)
	c.JSON(http.StatusOK, p)
}

func (ac *AdminController) ListOrders(c *gin.Context) {
	orders, err := ac.orders.GetOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// refresh reloads the shared catalog. The write already succeeded, so a
// failed reload is only logged.
func (ac *AdminController) refresh(c *gin.Context) {
	if ac.catalog == nil {
		return
	}
	err := ac.catalog.Fetch(c.Request.Context())
	if err != nil && !errors.Is(err, store.ErrFetchSuperseded) {
		ac.logger.Warn("Catalog refresh after admin write failed", zap.Error(err))
	}
}

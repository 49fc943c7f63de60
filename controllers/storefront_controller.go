package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Danii44/PRIMEHODDIE/auth"
	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/middleware"
	"github.com/Danii44/PRIMEHODDIE/models"
	aws_pkg "github.com/Danii44/PRIMEHODDIE/pkg/aws"
	"github.com/Danii44/PRIMEHODDIE/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CountRecorder is satisfied by pkg/aws.MetricsClient.
type CountRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

type StorefrontController struct {
	catalog *store.Catalog
	auth    *auth.Authenticator
	metrics CountRecorder
	logger  *zap.Logger
}

func NewStorefrontController(catalog *store.Catalog, authenticator *auth.Authenticator, metrics CountRecorder, logger *zap.Logger) *StorefrontController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontController{catalog: catalog, auth: authenticator, metrics: metrics, logger: logger}
}

func (sc *StorefrontController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"products":  len(sc.catalog.Products()),
		"isLoading": sc.catalog.IsLoading(),
	})
}

// ListProducts returns the held catalog, optionally narrowed to one category
// by its slug (?category=graphic-tees).
func (sc *StorefrontController) ListProducts(c *gin.Context) {
	products := sc.catalog.Products()
	if slug := c.Query("category"); slug != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if store.CategorySlug(p.Category) == slug {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"isLoading": sc.catalog.IsLoading(),
	})
}

func (sc *StorefrontController) GetProduct(c *gin.Context) {
	p, ok := sc.catalog.Product(c.Param("id"))
	if !ok {
		_ = c.Error(apperrors.ErrProductNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (sc *StorefrontController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": sc.catalog.Categories()})
}

// RefreshCatalog re-reads the product collection. On failure the previous
// products stay and the response carries the notice to show the shopper.
func (sc *StorefrontController) RefreshCatalog(c *gin.Context) {
	err := sc.catalog.Fetch(c.Request.Context())
	sc.count(aws_pkg.MetricCatalogFetches)

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"products": len(sc.catalog.Products())})
	case errors.Is(err, store.ErrFetchSuperseded):
		c.JSON(http.StatusAccepted, gin.H{"status": "superseded"})
	case errors.Is(err, store.ErrNoProductReader):
		_ = c.Error(apperrors.Wrap(apperrors.ErrServiceUnavailable, err))
	default:
		sc.count(aws_pkg.MetricCatalogFetchFailures)
		appErr := apperrors.As(err)
		c.JSON(appErr.Code, gin.H{
			"code":     appErr.Code,
			"message":  appErr.Message,
			"notice":   store.FetchFailedNotice,
			"products": len(sc.catalog.Products()),
		})
	}
}

func (sc *StorefrontController) GetStore(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetStore(c).View())
}

type uiRequest struct {
	CartOpen      *bool   `json:"cartOpen"`
	SelectedSize  *string `json:"selectedSize"`
	SelectedColor *string `json:"selectedColor"`
}

func (sc *StorefrontController) UpdateUI(c *gin.Context) {
	var req uiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	s := middleware.GetStore(c)
	if req.CartOpen != nil {
		s.SetCartOpen(*req.CartOpen)
	}
	if req.SelectedSize != nil {
		s.SetSelectedSize(*req.SelectedSize)
	}
	if req.SelectedColor != nil {
		s.SetSelectedColor(*req.SelectedColor)
	}
	c.JSON(http.StatusOK, s.UI())
}

func cartResponse(s *store.Store) gin.H {
	return gin.H{
		"items": s.Cart(),
		"total": s.CartTotal(),
		"count": s.CartCount(),
	}
}

func (sc *StorefrontController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(middleware.GetStore(c)))
}

// addItemRequest names a catalog product by id, or carries the whole product
// for items that never went through the catalog (3D configurator designs).
type addItemRequest struct {
	ProductID string          `json:"productId"`
	Product   *models.Product `json:"product"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
}

func (sc *StorefrontController) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	var product models.Product
	switch {
	case req.Product != nil:
		if req.Product.ID == "" {
			_ = c.Error(apperrors.Wrap(apperrors.ErrValidation, models.ErrProductIDRequired))
			return
		}
		if err := req.Product.Validate(); err != nil {
			_ = c.Error(apperrors.Wrap(apperrors.ErrValidation, err))
			return
		}
		product = *req.Product
	case req.ProductID != "":
		p, ok := sc.catalog.Product(req.ProductID)
		if !ok {
			_ = c.Error(apperrors.ErrProductNotFound)
			return
		}
		product = p
	default:
		_ = c.Error(apperrors.Wrap(apperrors.ErrValidation, errors.New("productId or product is required")))
		return
	}

	s := middleware.GetStore(c)
	s.AddToCart(product, req.Color, req.Size)
	c.JSON(http.StatusOK, cartResponse(s))
}

type updateQuantityRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItem sets a line's quantity; values below one are stored as one.
func (sc *StorefrontController) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}
	s := middleware.GetStore(c)
	s.UpdateQuantity(req.ProductID, req.Color, req.Size, req.Quantity)
	c.JSON(http.StatusOK, cartResponse(s))
}

func (sc *StorefrontController) RemoveCartItem(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		_ = c.Error(apperrors.Wrap(apperrors.ErrBadRequest, models.ErrProductIDRequired))
		return
	}
	s := middleware.GetStore(c)
	s.RemoveFromCart(productID, c.Query("color"), c.Query("size"))
	c.JSON(http.StatusOK, cartResponse(s))
}

func (sc *StorefrontController) ClearCart(c *gin.Context) {
	s := middleware.GetStore(c)
	s.ClearCart()
	c.JSON(http.StatusOK, cartResponse(s))
}

func (sc *StorefrontController) GetWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wishlist": middleware.GetStore(c).Wishlist()})
}

func (sc *StorefrontController) IsInWishlist(c *gin.Context) {
	id := c.Param("productId")
	c.JSON(http.StatusOK, gin.H{
		"productId":  id,
		"inWishlist": middleware.GetStore(c).IsInWishlist(id),
	})
}

func (sc *StorefrontController) ToggleWishlist(c *gin.Context) {
	id := c.Param("productId")
	s := middleware.GetStore(c)
	in := s.ToggleWishlist(id)
	c.JSON(http.StatusOK, gin.H{
		"productId":  id,
		"inWishlist": in,
		"wishlist":   s.Wishlist(),
	})
}

// SignIn fills the session's identity slot from the bearer token.
func (sc *StorefrontController) SignIn(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}
	user, err := sc.auth.SignIn(c.Request.Context(), middleware.GetStore(c), token)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "isAuthenticated": true})
}

func (sc *StorefrontController) SignOut(c *gin.Context) {
	sc.auth.SignOut(middleware.GetStore(c))
	c.Status(http.StatusNoContent)
}

func (sc *StorefrontController) count(metric string) {
	if sc.metrics == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sc.metrics.RecordCount(ctx, metric, map[string]string{"Service": "storefront"}); err != nil {
			sc.logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
		}
	}()
}

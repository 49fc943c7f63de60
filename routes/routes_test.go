package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Danii44/PRIMEHODDIE/auth"
	"github.com/Danii44/PRIMEHODDIE/controllers"
	"github.com/Danii44/PRIMEHODDIE/middleware"
	"github.com/Danii44/PRIMEHODDIE/models"
	"github.com/Danii44/PRIMEHODDIE/persistence"
	"github.com/Danii44/PRIMEHODDIE/sessions"
	"github.com/Danii44/PRIMEHODDIE/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type emptyOrders struct{}

func (emptyOrders) GetOrders(context.Context) ([]models.Order, error) { return nil, nil }

type noProducts struct{}

func (noProducts) ListProducts(context.Context) ([]models.Product, error) { return nil, nil }
func (noProducts) GetAllProducts(context.Context) ([]models.Product, error) {
	return nil, nil
}
func (noProducts) GetProduct(context.Context, string) (*models.Product, error) {
	return nil, nil
}
func (noProducts) AddProduct(context.Context, *models.Product) (string, error) { return "", nil }
func (noProducts) UpdateProduct(context.Context, string, *models.Product) error {
	return nil
}

func newRouter(withAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := store.NewCatalog(noProducts{}, zap.NewNop())
	registry := sessions.NewRegistry(catalog, persistence.NewMemoryKV(), sessions.Config{}, zap.NewNop())
	authenticator := auth.NewAuthenticator(auth.NewTokenVerifier("s"), nil, zap.NewNop())

	d := Deps{
		Storefront: controllers.NewStorefrontController(catalog, authenticator, nil, zap.NewNop()),
		Sessions:   registry,
	}
	if withAdmin {
		d.Admin = controllers.NewAdminController(noProducts{}, emptyOrders{}, catalog, zap.NewNop())
	}

	r := gin.New()
	r.Use(middleware.ErrorMiddleware(zap.NewNop()))
	RegisterRoutes(r, d)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter(true)

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/catalog/products", http.StatusOK},
		{http.MethodGet, "/catalog/categories", http.StatusOK},
		{http.MethodGet, "/store", http.StatusOK},
		{http.MethodGet, "/cart", http.StatusOK},
		{http.MethodGet, "/wishlist", http.StatusOK},
		{http.MethodGet, "/admin/orders", http.StatusUnauthorized},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRegisterRoutes_NoAdminWithoutMongo(t *testing.T) {
	r := newRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package repository

import (
	"context"

	"github.com/Danii44/PRIMEHODDIE/models"
)

// ProductRepo is the admin CRUD surface over the products collection. It
// writes the same Product shape the catalog reads.
type ProductRepo interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	AddProduct(ctx context.Context, product *models.Product) (string, error)
	UpdateProduct(ctx context.Context, id string, product *models.Product) error
}

type OrderRepo interface {
	GetOrders(ctx context.Context) ([]models.Order, error)
}

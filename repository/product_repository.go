package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProductsCollection = "products"

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(ProductsCollection),
	}
}

// ListProducts reads the whole collection ordered by name ascending.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return r.ListProducts(ctx)
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &product, nil
}

// AddProduct inserts product, assigning a fresh id when it has none.
func (r *ProductRepository) AddProduct(ctx context.Context, product *models.Product) (string, error) {
	if err := product.Validate(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrValidation, err)
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return product.ID, nil
}

// UpdateProduct replaces every field of the stored product except its id.
func (r *ProductRepository) UpdateProduct(ctx context.Context, id string, product *models.Product) error {
	if id == "" {
		return apperrors.Wrap(apperrors.ErrValidation, models.ErrProductIDRequired)
	}
	if err := product.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, err)
	}

	replacement := product.Clone()
	replacement.ID = id
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, replacement)
	if err != nil {
		return fmt.Errorf("replace product %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrProductNotFound
	}
	product.ID = id
	return nil
}

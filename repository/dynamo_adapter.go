package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/Danii44/PRIMEHODDIE/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the part of the DynamoDB client the adapter needs.
type DynamoAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoAdapter reads the catalog from a table keyed by `product_id`.
type DynamoAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoAdapter(client DynamoAPI, table string) *DynamoAdapter {
	return &DynamoAdapter{client: client, table: table}
}

type ddbProduct struct {
	ProductID     string                `dynamodbav:"product_id"`
	Name          string                `dynamodbav:"name"`
	Price         float64               `dynamodbav:"price"`
	OriginalPrice *float64              `dynamodbav:"original_price,omitempty"`
	Image         string                `dynamodbav:"image"`
	Images        []string              `dynamodbav:"images,omitempty"`
	Category      string                `dynamodbav:"category"`
	Colors        []models.ColorVariant `dynamodbav:"colors,omitempty"`
	Sizes         []string              `dynamodbav:"sizes,omitempty"`
	Rating        float64               `dynamodbav:"rating"`
	Reviews       int                   `dynamodbav:"reviews"`
	Description   string                `dynamodbav:"description"`
	Features      []string              `dynamodbav:"features,omitempty"`
	InStock       bool                  `dynamodbav:"in_stock"`
	IsNew         bool                  `dynamodbav:"is_new"`
	IsBestseller  bool                  `dynamodbav:"is_bestseller"`
}

func (d ddbProduct) toModel() models.Product {
	return models.Product{
		ID:            d.ProductID,
		Name:          d.Name,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Image:         d.Image,
		Images:        d.Images,
		Category:      d.Category,
		Colors:        d.Colors,
		Sizes:         d.Sizes,
		Rating:        d.Rating,
		Reviews:       d.Reviews,
		Description:   d.Description,
		Features:      d.Features,
		InStock:       d.InStock,
		IsNew:         d.IsNew,
		IsBestseller:  d.IsBestseller,
	}
}

func fromModel(p models.Product) ddbProduct {
	return ddbProduct{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Images:        p.Images,
		Category:      p.Category,
		Colors:        p.Colors,
		Sizes:         p.Sizes,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Description:   p.Description,
		Features:      p.Features,
		InStock:       p.InStock,
		IsNew:         p.IsNew,
		IsBestseller:  p.IsBestseller,
	}
}

// PutProduct writes p, overwriting any item with the same id.
func (d *DynamoAdapter) PutProduct(ctx context.Context, p models.Product) error {
	if p.ID == "" {
		return models.ErrProductIDRequired
	}
	item, err := attributevalue.MarshalMap(fromModel(p))
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID, err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// ListProducts scans the whole table and orders the result by name ascending,
// which a Scan does not do on its own.
func (d *DynamoAdapter) ListProducts(ctx context.Context) ([]models.Product, error) {
	input := &dynamodb.ScanInput{TableName: &d.table}
	paginator := dynamodb.NewScanPaginator(d.client, input)

	products := []models.Product{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb Scan failed: %w", err)
		}
		var items []ddbProduct
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		for _, item := range items {
			products = append(products, item.toModel())
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// Command migrate-catalog copies the products collection from MongoDB into the
// DynamoDB table the storefront reads when CATALOG_BACKEND=dynamodb.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Danii44/PRIMEHODDIE/database"
	"github.com/Danii44/PRIMEHODDIE/models"
	aws_pkg "github.com/Danii44/PRIMEHODDIE/pkg/aws"
	"github.com/Danii44/PRIMEHODDIE/repository"
	"github.com/Danii44/PRIMEHODDIE/store"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

type productWriter interface {
	PutProduct(ctx context.Context, p models.Product) error
}

func main() {
	var mongoURL, dbName, table, region, endpoint string
	flag.StringVar(&mongoURL, "mongo", os.Getenv("MONGO_URL"), "MongoDB URI")
	flag.StringVar(&dbName, "db", os.Getenv("MONGO_DB"), "MongoDB database name")
	flag.StringVar(&table, "table", os.Getenv("DDB_TABLE_PRODUCTS"), "DynamoDB table name")
	flag.StringVar(&region, "region", os.Getenv("AWS_REGION"), "AWS region")
	flag.StringVar(&endpoint, "endpoint", os.Getenv("AWS_ENDPOINT"), "AWS endpoint override (LocalStack)")
	flag.Parse()

	if mongoURL == "" || dbName == "" {
		log.Fatal("MONGO_URL and MONGO_DB must be set or provided via flags")
	}
	if table == "" {
		table = "Products"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	mongo, err := database.ConnectMongo(ctx, mongoURL, dbName)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongo.Close()

	awsCfg, err := aws_pkg.LoadAWSConfig(ctx, region, endpoint)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}

	migrated, err := migrate(ctx, repository.NewProductRepository(mongo.DB), repository.NewDynamoAdapter(dynamodb.NewFromConfig(awsCfg), table))
	if err != nil {
		log.Fatalf("migration aborted after %d products: %v", migrated, err)
	}
	fmt.Printf("Migration complete. migrated=%d\n", migrated)
}

// migrate copies every product. Products without an id get one so the
// DynamoDB partition key is never empty; single write failures are skipped.
func migrate(ctx context.Context, src store.ProductReader, dst productWriter) (int, error) {
	products, err := src.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("read products: %w", err)
	}

	count := 0
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := dst.PutProduct(ctx, p); err != nil {
			log.Printf("failed to write product %s: %v", p.ID, err)
			continue
		}
		count++
		if count%100 == 0 {
			log.Printf("migrated %d products", count)
		}
	}
	return count, nil
}

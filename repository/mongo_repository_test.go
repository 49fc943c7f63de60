package repository

import (
	"context"
	"testing"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list products", func(mt *mtest.T) {
		repo := &ProductRepository{collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()

		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a"}, {Key: "name", Value: "Boxy Tee"}, {Key: "price", Value: 35.0}, {Key: "category", Value: "Tees"}},
			bson.D{{Key: "_id", Value: "b"}, {Key: "name", Value: "Core Hoodie"}, {Key: "price", Value: 70.0}, {Key: "category", Value: "Hoodies"}},
		)
		end := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, end)

		products, err := repo.ListProducts(context.Background())
		require.NoError(mt, err)
		require.Len(mt, products, 2)
		assert.Equal(mt, "a", products[0].ID)
		assert.Equal(mt, 70.0, products[1].Price)
	})

	mt.Run("get missing product", func(mt *mtest.T) {
		repo := &ProductRepository{collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetProduct(context.Background(), "nope")
		assert.ErrorIs(mt, err, apperrors.ErrProductNotFound)
	})

	mt.Run("add product assigns id", func(mt *mtest.T) {
		repo := &ProductRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &models.Product{Name: "Crew Sweat", Price: 55, Category: "Sweats"}
		id, err := repo.AddProduct(context.Background(), p)
		require.NoError(mt, err)
		assert.NotEmpty(mt, id)
		assert.Equal(mt, id, p.ID)
	})

	mt.Run("add product rejects invalid", func(mt *mtest.T) {
		repo := &ProductRepository{collection: mt.Coll}
		_, err := repo.AddProduct(context.Background(), &models.Product{Price: -1})
		assert.ErrorIs(mt, err, apperrors.ErrValidation)
	})

	mt.Run("update unknown product", func(mt *mtest.T) {
		repo := &ProductRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateProduct(context.Background(), "ghost", &models.Product{Name: "x", Price: 1})
		assert.ErrorIs(mt, err, apperrors.ErrProductNotFound)
	})

	mt.Run("update product", func(mt *mtest.T) {
		repo := &ProductRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		p := &models.Product{Name: "Core Hoodie", Price: 75}
		require.NoError(mt, repo.UpdateProduct(context.Background(), "b", p))
		assert.Equal(mt, "b", p.ID)
	})
}

func TestProfileRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("admin profile", func(mt *mtest.T) {
		repo := &ProfileRepository{collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u1"}, {Key: "role", Value: "admin"}},
		))

		role, err := repo.LookupRole(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleAdmin, role)
	})

	mt.Run("missing profile is a customer", func(mt *mtest.T) {
		repo := &ProfileRepository{collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		role, err := repo.LookupRole(context.Background(), "u2")
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleCustomer, role)
	})
}

func TestOrderRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get orders", func(mt *mtest.T) {
		repo := &OrderRepository{collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "o1"}, {Key: "userId", Value: "u1"}, {Key: "total", Value: 140.0}, {Key: "status", Value: "paid"}},
		))

		orders, err := repo.GetOrders(context.Background())
		require.NoError(mt, err)
		require.Len(mt, orders, 1)
		assert.Equal(mt, "paid", orders[0].Status)
		assert.Equal(mt, 140.0, orders[0].Total)
	})
}

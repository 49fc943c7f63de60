package main

import (
	"context"
	"errors"
	"testing"

	"github.com/Danii44/PRIMEHODDIE/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceReader struct {
	products []models.Product
	err      error
}

func (r sliceReader) ListProducts(context.Context) ([]models.Product, error) {
	return r.products, r.err
}

type recordingWriter struct {
	written []models.Product
	failID  string
}

func (w *recordingWriter) PutProduct(_ context.Context, p models.Product) error {
	if p.ID == w.failID {
		return errors.New("ProvisionedThroughputExceeded")
	}
	w.written = append(w.written, p)
	return nil
}

func TestMigrate(t *testing.T) {
	src := sliceReader{products: []models.Product{
		{ID: "a", Name: "Boxy Tee"},
		{Name: "Legacy Hoodie"},
		{ID: "bad", Name: "Broken"},
	}}
	dst := &recordingWriter{failID: "bad"}

	n, err := migrate(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, dst.written, 2)
	assert.Equal(t, "a", dst.written[0].ID)
	assert.NotEmpty(t, dst.written[1].ID)
}

func TestMigrate_ReadFailure(t *testing.T) {
	_, err := migrate(context.Background(), sliceReader{err: errors.New("auth failed")}, &recordingWriter{})
	assert.ErrorContains(t, err, "read products")
}

package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

type ColorVariant struct {
	Name  string `json:"name" bson:"name" dynamodbav:"name" validate:"required"`
	Value string `json:"value" bson:"value" dynamodbav:"value"`
	Image string `json:"image,omitempty" bson:"image,omitempty" dynamodbav:"image,omitempty"`
}

// Product is a catalog entry as stored in the document store. Cart lines keep a
// full copy of it, so a Product value must never be patched once handed out.
type Product struct {
	ID            string         `json:"id" bson:"_id,omitempty"`
	Name          string         `json:"name" bson:"name" validate:"required"`
	Price         float64        `json:"price" bson:"price" validate:"gte=0"`
	OriginalPrice *float64       `json:"originalPrice,omitempty" bson:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Image         string         `json:"image" bson:"image"`
	Images        []string       `json:"images" bson:"images"`
	Category      string         `json:"category" bson:"category"`
	Colors        []ColorVariant `json:"colors" bson:"colors" validate:"dive"`
	Sizes         []string       `json:"sizes" bson:"sizes"`
	Rating        float64        `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	Reviews       int            `json:"reviews" bson:"reviews" validate:"gte=0"`
	Description   string         `json:"description" bson:"description"`
	Features      []string       `json:"features" bson:"features"`
	InStock       bool           `json:"inStock" bson:"inStock"`
	IsNew         bool           `json:"isNew,omitempty" bson:"isNew,omitempty"`
	IsBestseller  bool           `json:"isBestseller,omitempty" bson:"isBestseller,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	ErrProductIDRequired   = errors.New("product id is required")
	ErrProductNameRequired = errors.New("product name is required")
	ErrNegativePrice       = errors.New("product price must not be negative")
)

// Clone returns a deep copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	out := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		out.OriginalPrice = &v
	}
	out.Images = slices.Clone(p.Images)
	out.Colors = slices.Clone(p.Colors)
	out.Sizes = slices.Clone(p.Sizes)
	out.Features = slices.Clone(p.Features)
	return out
}

// Validate checks the fields the admin surface must never write empty.
// The id is checked separately because new products get one assigned.
func (p Product) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	switch f := fieldErrs[0]; f.Namespace() {
	case "Product.Name":
		return ErrProductNameRequired
	case "Product.Price":
		return ErrNegativePrice
	default:
		return fmt.Errorf("%s fails %q", f.Namespace(), f.Tag())
	}
}

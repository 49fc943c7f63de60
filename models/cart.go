package models

// LineKey identifies a cart line. Two additions with the same key merge.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

type CartItem struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Color    string  `json:"color" bson:"color"`
	Size     string  `json:"size" bson:"size"`
}

func (i CartItem) Key() LineKey {
	return LineKey{ProductID: i.Product.ID, Color: i.Color, Size: i.Size}
}

// Subtotal uses the price captured when the line was created.
func (i CartItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Clone copies the line together with its product snapshot.
func (i CartItem) Clone() CartItem {
	i.Product = i.Product.Clone()
	return i
}

package models

// Category is derived from the catalog on every read and never stored.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Count int    `json:"count"`
}

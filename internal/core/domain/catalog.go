package domain

import "time"

// Category groups products (e.g. "Tilapia", "Salmon").
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a listing owned by a seller.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit"`
	ImageURL    string    `json:"image_url,omitempty"`
	CategoryID  string    `json:"category_id"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the identity may mutate the product.
func (p *Product) OwnedBy(id Identity) bool {
	return id.IsAdmin() || p.SellerID == id.ID
}

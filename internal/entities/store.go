package entities

import "niuniq/pkg/types"

type Store struct {
	ID             uint64   `json:"id" db:"id"`
	Name           string   `json:"name" db:"name"`
	UserID         uint64   `json:"user" db:"user_id"`
	Logo           string   `json:"logo" db:"logo"`
	Photo          string   `json:"photo" db:"photo"`
	Ecommerces     []string `json:"ecommerces" db:"ecommerces"`
	EcommercesURL  []string `json:"ecommercesUrl" db:"ecommerces_url"`
	YearProduction int      `json:"yearProduction" db:"year_production"`
	Regency        string   `json:"regency" db:"regency"`
	Province       string   `json:"province" db:"province"`

	// Products is filled only by the single-store read.
	Products []Product `json:"products,omitempty" db:"-"`

	types.BaseEntity
}

// OwnedBy reports whether userID may change the store.
func (s *Store) OwnedBy(userID uint64) bool {
	return s.UserID == userID
}

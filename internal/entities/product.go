package entities

import "niuniq/pkg/types"

type Product struct {
	ID             uint64   `json:"id" db:"id"`
	ProductID      string   `json:"productId" db:"product_id"`
	Name           string   `json:"name" db:"name"`
	RawMaterials   string   `json:"rawMaterials" db:"raw_materials"`
	Description    string   `json:"description" db:"description"`
	ProductStorage string   `json:"productStorage" db:"product_storage"`
	Category       string   `json:"category" db:"category"`
	Price          float64  `json:"price" db:"price"`
	Photos         []string `json:"photos" db:"photos"`
	Video          string   `json:"video" db:"video"`
	IsVerification *bool    `json:"isVerification" db:"is_verification"`
	QRCode         string   `json:"qrCode" db:"qr_code"`
	StoreID        uint64   `json:"store" db:"store_id"`
	UserID         uint64   `json:"user" db:"user_id"`

	// StoreDetail is filled on reads that join the owning store.
	StoreDetail *Store `json:"storeDetail,omitempty" db:"-"`

	types.BaseEntity
}

func (p *Product) OwnedBy(userID uint64) bool {
	return p.UserID == userID
}

package dto

import "github.com/aarondl/null/v8"

type CreateProductDTO struct {
	Name           string  `json:"name" form:"name" validate:"required,max=200"`
	RawMaterials   string  `json:"rawMaterials" form:"rawMaterials" validate:"required"`
	Description    string  `json:"description" form:"description" validate:"required"`
	ProductStorage string  `json:"productStorage" form:"productStorage" validate:"required"`
	Category       string  `json:"category" form:"category" validate:"omitempty,max=100"`
	Price          float64 `json:"price" form:"price" validate:"gte=0"`
	Video          string  `json:"video" form:"video" validate:"omitempty,url"`
}

type UpdateProductDTO struct {
	Name           null.String  `json:"name" form:"name" validate:"omitempty,max=200"`
	RawMaterials   null.String  `json:"rawMaterials" form:"rawMaterials"`
	Description    null.String  `json:"description" form:"description"`
	ProductStorage null.String  `json:"productStorage" form:"productStorage"`
	Category       null.String  `json:"category" form:"category" validate:"omitempty,max=100"`
	Price          null.Float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	Video          null.String  `json:"video" form:"video" validate:"omitempty,url"`
	IsVerification null.Bool    `json:"isVerification" form:"isVerification"`
}

type SearchProductDTO struct {
	ProductID string `query:"productId"`
	Product   string `query:"product"`
}

// Key returns the product id from either accepted query key.
func (d SearchProductDTO) Key() string {
	if d.ProductID != "" {
		return d.ProductID
	}
	return d.Product
}

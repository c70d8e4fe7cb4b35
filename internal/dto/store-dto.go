package dto

import "github.com/aarondl/null/v8"

// Store payloads arrive as multipart forms next to the logo and photo files.
type CreateStoreDTO struct {
	Name           string   `json:"name" form:"name" validate:"required,max=100"`
	Ecommerces     []string `json:"ecommerces" form:"ecommerces" validate:"omitempty,dive,required"`
	EcommercesURL  []string `json:"ecommercesUrl" form:"ecommercesUrl" validate:"omitempty,dive,url"`
	YearProduction int      `json:"yearProduction" form:"yearProduction" validate:"required,gte=1900,lte=2100"`
	Regency        string   `json:"regency" form:"regency" validate:"required,min=3"`
	Province       string   `json:"province" form:"province" validate:"required,province"`
}

type UpdateStoreDTO struct {
	Name           null.String `json:"name" form:"name" validate:"omitempty,max=100"`
	Ecommerces     []string    `json:"ecommerces" form:"ecommerces" validate:"omitempty,dive,required"`
	EcommercesURL  []string    `json:"ecommercesUrl" form:"ecommercesUrl" validate:"omitempty,dive,url"`
	YearProduction null.Int    `json:"yearProduction" form:"yearProduction" validate:"omitempty,gte=1900,lte=2100"`
	Regency        null.String `json:"regency" form:"regency" validate:"omitempty,min=3"`
	Province       null.String `json:"province" form:"province" validate:"omitempty,province"`
}

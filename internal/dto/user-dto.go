package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Email     string `json:"email" validate:"required,niuniq_email"`
	NoTelepon string `json:"noTelepon" validate:"required,niuniq_phone"`
	Role      string `json:"role" validate:"omitempty,role"`
	Password  string `json:"password" validate:"required,min=6"`
}

// UpdateUserDTO carries only the fields the admin sent. StoreName renames the
// user's store.
type UpdateUserDTO struct {
	Email           null.String `json:"email" validate:"omitempty,niuniq_email"`
	NoTelepon       null.String `json:"noTelepon" validate:"omitempty,niuniq_phone"`
	Role            null.String `json:"role" validate:"omitempty,role"`
	Password        null.String `json:"password" validate:"omitempty,min=6"`
	HasCreatedStore null.Bool   `json:"hasCreatedStore"`
	StoreName       null.String `json:"storeName" validate:"omitempty,min=1,max=100"`
}

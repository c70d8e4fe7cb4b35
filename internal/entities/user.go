package entities

import "niuniq/pkg/types"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              uint64 `json:"id" db:"id"`
	Email           string `json:"email" db:"email"`
	NoTelepon       string `json:"noTelepon" db:"no_telepon"`
	Role            string `json:"role" db:"role"`
	Password        string `json:"-" db:"password"`
	HasCreatedStore bool   `json:"hasCreatedStore" db:"has_created_store"`

	// Store is filled on reads that join the owner's store.
	Store *StoreRef `json:"store,omitempty" db:"-"`

	types.BaseEntity
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// StoreRef is the short form of a store embedded in user responses.
type StoreRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

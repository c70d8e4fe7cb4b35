package dto

type RegisterDTO struct {
	Email     string `json:"email" validate:"required,niuniq_email"`
	NoTelepon string `json:"noTelepon" validate:"required,niuniq_phone"`
	Role      string `json:"role" validate:"omitempty,role"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateDetailsDTO struct {
	NoTelepon string `json:"noTelepon" validate:"required,niuniq_phone"`
}

// Equality of NewPassword and ConfirmPassword is checked by the service so
// the client gets the dedicated message.
type UpdatePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	Password string `json:"password" validate:"required,min=6"`
}

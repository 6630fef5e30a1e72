package dto

import (
	"github.com/yukikurage/taskflow-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash never leaves
// the credential store.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

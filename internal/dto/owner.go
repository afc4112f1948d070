package dto

import "trainhub/internal/domain"

type OwnerResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	IDDocument    *string `json:"idDocument,omitempty"`
	Role          string  `json:"role"`
	EmailVerified bool    `json:"emailVerified"`
}

func NewOwnerResponse(u *domain.User) OwnerResponse {
	return OwnerResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		IDDocument:    u.IDDocument,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
	}
}

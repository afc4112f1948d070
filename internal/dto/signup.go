package dto

type SignupRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	IDDocument *string `json:"idDocument,omitempty"`
	Password   string  `json:"password"`
}

type SignupResponse struct {
	OwnerID                   string `json:"ownerId"`
	RequiresEmailVerification bool   `json:"requiresEmailVerification"`
}

type VerifySignupRequest struct {
	Token string `json:"token"`
}

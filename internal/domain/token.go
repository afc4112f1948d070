package domain

// TokenType tags every signed token with the purpose it was issued for.
// All kinds share the same secret and shape, so verification must match the
// decoded type against the expected one.
type TokenType string

const (
	TokenAccess        TokenType = "access"
	TokenRefresh       TokenType = "refresh"
	TokenResetPassword TokenType = "reset_password"
	TokenSignup        TokenType = "signup"
)

// TokenClaims is the identity payload carried inside a signed token. It is
// never persisted.
type TokenClaims struct {
	ID         OwnerID
	Name       string
	Email      string
	IDDocument *string
	Type       TokenType
}

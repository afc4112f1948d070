package service

import "trainhub/internal/domain"

// TokenService issues and verifies purpose-tagged signed bearer tokens. Every
// kind shares one secret and shape; Verify enforces the expected type so a
// token minted for one purpose can never stand in for another.
type TokenService interface {
	IssueAccess(claims domain.TokenClaims) (string, error)
	IssueRefresh(claims domain.TokenClaims) (string, error)
	IssueResetPassword(ownerID domain.OwnerID) (string, error)
	IssueSignup(claims domain.TokenClaims) (string, error)
	Verify(token string, expected domain.TokenType) (*domain.TokenClaims, error)
}

package impl

import (
	"time"

	"trainhub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	SigningKey       []byte // HS256 secret, shared by every token kind
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	ResetPasswordTTL time.Duration
	SignupTTL        time.Duration
}

// ====== Claims ======

type signedClaims struct {
	OwnerID    string           `json:"id"`
	Name       string           `json:"name,omitempty"`
	Email      string           `json:"email,omitempty"`
	IDDocument *string          `json:"idDocument,omitempty"`
	Type       domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// ====== Service ======

// TokenServiceImpl signs and verifies purpose-tagged HS256 tokens. It is
// pure: no side effects beyond reading the injected signing secret.
type TokenServiceImpl struct {
	cfg TokenConfig
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg}
}

func (t *TokenServiceImpl) IssueAccess(claims domain.TokenClaims) (string, error) {
	return t.sign(claims, domain.TokenAccess, t.cfg.AccessTTL)
}

func (t *TokenServiceImpl) IssueRefresh(claims domain.TokenClaims) (string, error) {
	return t.sign(claims, domain.TokenRefresh, t.cfg.RefreshTTL)
}

func (t *TokenServiceImpl) IssueResetPassword(ownerID domain.OwnerID) (string, error) {
	return t.sign(domain.TokenClaims{ID: ownerID}, domain.TokenResetPassword, t.cfg.ResetPasswordTTL)
}

func (t *TokenServiceImpl) IssueSignup(claims domain.TokenClaims) (string, error) {
	return t.sign(claims, domain.TokenSignup, t.cfg.SignupTTL)
}

// Verify returns the claims carried by the token, or ErrInvalidToken when the
// signature is bad, the token is expired, or the embedded type does not match
// the expected one. The type check is the whole token-confusion defense: all
// kinds share one secret and shape.
func (t *TokenServiceImpl) Verify(token string, expected domain.TokenType) (*domain.TokenClaims, error) {
	claims := &signedClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, domain.ErrInvalidToken
	}
	ownerID, err := uuid.Parse(claims.OwnerID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.TokenClaims{
		ID:         ownerID,
		Name:       claims.Name,
		Email:      claims.Email,
		IDDocument: claims.IDDocument,
		Type:       claims.Type,
	}, nil
}

func (t *TokenServiceImpl) sign(claims domain.TokenClaims, typ domain.TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	sc := signedClaims{
		OwnerID:    claims.ID.String(),
		Name:       claims.Name,
		Email:      claims.Email,
		IDDocument: claims.IDDocument,
		Type:       typ,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique per issuance: two tokens minted with the same claims in
			// the same second must still differ, or rotation would retire a
			// credential identical to its successor.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	return token.SignedString(t.cfg.SigningKey)
}

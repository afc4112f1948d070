package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/observability/metrics"
	"trainhub/internal/service"
	"trainhub/internal/store"

	"github.com/google/uuid"
)

type AuthConfig struct {
	MaxAttempts int
}

type ownerStore interface {
	Create(ctx context.Context, usr *domain.User) error
	FindByID(ctx context.Context, id domain.OwnerID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetEmailVerified(ctx context.Context, id domain.OwnerID) error
	SetPasswordHash(ctx context.Context, id domain.OwnerID, hash string) error
}

type sessionCloser interface {
	InvalidateAllForOwner(ctx context.Context, ownerID domain.OwnerID) (int64, error)
}

// AuthServiceImpl composes the token, ledger, guard, and owner collaborators
// into the sensitive auth flows.
type AuthServiceImpl struct {
	cfg       AuthConfig
	owners    ownerStore
	sessions  sessionCloser
	passwords service.PasswordService
	tokens    service.TokenService
	ledger    service.AttemptLedger
	guard     service.BlockGuard
	email     service.EmailService
}

func NewAuthServiceImpl(
	cfg AuthConfig,
	st *store.Store,
	passwords service.PasswordService,
	tokens service.TokenService,
	ledger service.AttemptLedger,
	guard service.BlockGuard,
	email service.EmailService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		cfg:       cfg,
		owners:    st.Users(),
		sessions:  st.Sessions(),
		passwords: passwords,
		tokens:    tokens,
		ledger:    ledger,
		guard:     guard,
		email:     email,
	}
}

// Login verifies the owner's password and, on success, issues the token pair
// directly from the token service. No session row is written here; the first
// refresh exchange opens the session lineage.
func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	if r.Email == "" || r.Password == "" {
		return nil, ErrEmptyCredential
	}

	owner, err := a.owners.FindByEmail(ctx, r.Email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Same failure shape as a wrong password: no account probe.
			if err := a.ledger.Record(ctx, domain.ByEmail(r.Email), domain.AttemptLogin, false); err != nil {
				return nil, err
			}
			metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.passwords.Verify(r.Password, owner.PasswordHash) {
		if err := a.recordFailure(ctx, owner.ID, domain.AttemptLogin); err != nil {
			return nil, err
		}
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if err := a.recordSuccess(ctx, owner.ID, domain.AttemptLogin); err != nil {
		return nil, err
	}

	access, err := a.tokens.IssueAccess(claimsFor(owner))
	if err != nil {
		return nil, err
	}
	refresh, err := a.tokens.IssueRefresh(claimsFor(owner))
	if err != nil {
		return nil, err
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	slog.Info("owner logged in", "owner_id", owner.ID)

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Owner:        dto.NewOwnerResponse(owner),
	}, nil
}

func (a *AuthServiceImpl) Signup(ctx context.Context, r dto.SignupRequest) (*dto.SignupResponse, error) {
	if r.Email == "" || r.Name == "" {
		return nil, ErrEmptyCredential
	}
	if len(r.Password) < 8 {
		return nil, ErrPasswordLength
	}

	if _, err := a.owners.FindByEmail(ctx, r.Email); err == nil {
		// Record against the bare email: a third party probing a taken
		// address must not accrue blocks on the existing owner's account.
		if err := a.ledger.Record(ctx, domain.ByEmail(r.Email), domain.AttemptSignup, false); err != nil {
			return nil, err
		}
		metrics.AuthSignupsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := a.passwords.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	owner := &domain.User{
		ID:            uuid.New(),
		Name:          r.Name,
		Email:         r.Email,
		IDDocument:    r.IDDocument,
		Role:          domain.RoleAthlete,
		EmailVerified: false,
		PasswordHash:  hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.owners.Create(ctx, owner); err != nil {
		return nil, err
	}

	token, err := a.tokens.IssueSignup(claimsFor(owner))
	if err != nil {
		return nil, err
	}
	if err := a.email.SendSignupVerification(ctx, owner.Email, token); err != nil {
		// Delivery is an external collaborator; the account exists either way.
		slog.Warn("signup verification email failed", "owner_id", owner.ID, "error", err)
	}

	if err := a.ledger.Record(ctx, domain.ByEmail(r.Email), domain.AttemptSignup, true); err != nil {
		return nil, err
	}
	metrics.AuthSignupsTotal.WithLabelValues("success").Inc()
	slog.Info("owner signed up", "owner_id", owner.ID)

	return &dto.SignupResponse{
		OwnerID:                   owner.ID.String(),
		RequiresEmailVerification: true,
	}, nil
}

func (a *AuthServiceImpl) VerifySignup(ctx context.Context, token string) error {
	claims, err := a.tokens.Verify(token, domain.TokenSignup)
	if err != nil {
		return domain.ErrInvalidToken
	}
	owner, err := a.owners.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if err := a.owners.SetEmailVerified(ctx, owner.ID); err != nil {
		return err
	}
	return a.recordSuccess(ctx, owner.ID, domain.AttemptSignupVerification)
}

// ForgotPassword answers uniformly whether or not the email has an account.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmptyCredential
	}
	owner, err := a.owners.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return a.ledger.Record(ctx, domain.ByEmail(email), domain.AttemptPasswordRecovery, false)
		}
		return err
	}
	token, err := a.tokens.IssueResetPassword(owner.ID)
	if err != nil {
		return err
	}
	if err := a.email.SendPasswordRecovery(ctx, owner.Email, token); err != nil {
		slog.Warn("password recovery email failed", "owner_id", owner.ID, "error", err)
	}
	return nil
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordLength
	}
	claims, err := a.tokens.Verify(token, domain.TokenResetPassword)
	if err != nil {
		return domain.ErrInvalidToken
	}
	owner, err := a.owners.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	hash, err := a.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := a.owners.SetPasswordHash(ctx, owner.ID, hash); err != nil {
		return err
	}
	// A reset proves control of the mailbox: close any open session lineage
	// and lift login/recovery blocks along with their failure counters.
	if _, err := a.sessions.InvalidateAllForOwner(ctx, owner.ID); err != nil {
		return err
	}
	if err := a.recordSuccess(ctx, owner.ID, domain.AttemptPasswordRecovery); err != nil {
		return err
	}
	if err := a.clearFailures(ctx, owner.ID, domain.AttemptLogin); err != nil {
		return err
	}
	if err := a.guard.RemoveBlocks(ctx, owner.ID, domain.AttemptLogin); err != nil {
		return err
	}
	slog.Info("password reset", "owner_id", owner.ID)
	return nil
}

func (a *AuthServiceImpl) ChangePassword(ctx context.Context, ownerID domain.OwnerID, current, next string) error {
	if len(next) < 8 {
		return ErrPasswordLength
	}
	owner, err := a.owners.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !a.passwords.Verify(current, owner.PasswordHash) {
		if err := a.recordFailure(ctx, owner.ID, domain.AttemptPasswordChange); err != nil {
			return err
		}
		return domain.ErrInvalidCredentials
	}
	hash, err := a.passwords.Hash(next)
	if err != nil {
		return err
	}
	if err := a.owners.SetPasswordHash(ctx, owner.ID, hash); err != nil {
		return err
	}
	return a.recordSuccess(ctx, owner.ID, domain.AttemptPasswordChange)
}

// recordFailure appends the failed attempt and re-evaluates the block
// threshold for the owner.
func (a *AuthServiceImpl) recordFailure(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) error {
	if err := a.ledger.Record(ctx, domain.ByOwner(ownerID), typ, false); err != nil {
		return err
	}
	_, err := a.guard.EvaluateAndBlock(ctx, ownerID, typ, a.cfg.MaxAttempts)
	return err
}

// recordSuccess appends the successful attempt and resets the failure counter.
func (a *AuthServiceImpl) recordSuccess(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) error {
	if err := a.ledger.Record(ctx, domain.ByOwner(ownerID), typ, true); err != nil {
		return err
	}
	return a.clearFailures(ctx, ownerID, typ)
}

func (a *AuthServiceImpl) clearFailures(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) error {
	failed := false
	return a.ledger.Purge(ctx, domain.ByOwner(ownerID), typ, &failed)
}

func claimsFor(owner *domain.User) domain.TokenClaims {
	return domain.TokenClaims{
		ID:         owner.ID,
		Name:       owner.Name,
		Email:      owner.Email,
		IDDocument: owner.IDDocument,
	}
}

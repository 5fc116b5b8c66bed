package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/identity"
	"github.com/prperemyshlev/habit-tracker/internal/repository"
	"github.com/prperemyshlev/habit-tracker/internal/utils"
	"github.com/prperemyshlev/habit-tracker/pkg/observability"
	"go.uber.org/zap"
)

const (
	loginSuccess  = "success"
	loginRejected = "rejected"
	loginInvalid  = "invalid"
	loginFailed   = "error"
)

// authService implements AuthService interface
type authService struct {
	userRepo repository.UserRepository
	verifier identity.Verifier
	issuer   TokenIssuer
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	verifier identity.Verifier,
	issuer TokenIssuer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		metrics:  metrics,
		logger:   logger,
	}
}

// LoginWithGoogle verifies a Google credential, upserts the user by email
// and issues a session token for it
func (s *authService) LoginWithGoogle(ctx context.Context, req *dto.GoogleCredentialRequest) (*LoginResult, error) {
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		s.metrics.RecordLogin(ctx, loginInvalid)
		return nil, domain.NewError(domain.ErrInvalidInput, "Missing credential")
	}

	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		s.metrics.RecordLogin(ctx, loginRejected)
		s.logger.Info("google credential rejected", zap.Error(err))
		if errors.Is(err, domain.ErrUpstreamAuth) {
			return nil, domain.NewError(domain.ErrUpstreamAuth, "Invalid Google credential")
		}
		return nil, fmt.Errorf("failed to verify credential: %w", err)
	}

	email := utils.SanitizeEmail(claims.Email)
	if email == "" {
		s.metrics.RecordLogin(ctx, loginInvalid)
		return nil, domain.NewError(domain.ErrInvalidInput, "Google token missing email")
	}

	user, err := s.userRepo.Upsert(ctx, domain.ProviderClaims{
		Email:   email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
	if err != nil {
		s.metrics.RecordLogin(ctx, loginFailed)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		s.metrics.RecordLogin(ctx, loginFailed)
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.metrics.RecordLogin(ctx, loginSuccess)
	s.logger.Debug("user signed in", zap.String("user_id", user.ID))

	return &LoginResult{User: user, Token: token}, nil
}

// GetUser retrieves the signed-in user's profile
func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

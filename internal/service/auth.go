package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/rdcredit-service/internal/domain/dto"
)

var (
	// ErrCustomerNotFound is returned when no customer has the given email.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidToken is returned when a token is invalid or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService is the email gate in front of the customer portal.
type AuthService interface {
	// Lookup issues a session for the customer registered with email.
	Lookup(ctx context.Context, email string) (*dto.LookupResponse, error)
	// ValidateToken returns the claims of a session token.
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// AuthServiceImpl implements AuthService on top of the cached record reads.
type AuthServiceImpl struct {
	records *RecordService
	tokens  TokenService
}

// NewAuthService creates a new auth service.
func NewAuthService(records *RecordService, tokens TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{records: records, tokens: tokens}
}

// Lookup finds the customer by email and signs a session token.
func (s *AuthServiceImpl) Lookup(ctx context.Context, email string) (*dto.LookupResponse, error) {
	customer, err := s.records.CustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	token, expiresAt, err := s.tokens.Issue(customer)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	log.Debug().Str("customer_id", customer.ID).Msg("Session issued")
	return &dto.LookupResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Customer:  *customer,
	}, nil
}

// ValidateToken returns the claims of a session token.
func (s *AuthServiceImpl) ValidateToken(_ context.Context, tokenString string) (*dto.Claims, error) {
	return s.tokens.Validate(tokenString)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validators"
	"yamdb/internal/middleware/auth"

	"gorm.io/gorm"
)

const invalidCodeMessage = "invalid confirmation code"

// CodeSender delivers a confirmation code out of band.
type CodeSender interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	ExchangeToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	sender   CodeSender
	newCode  func() string
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, sender CodeSender) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		sender:   sender,
		newCode:  auth.NewConfirmationCode,
	}
}

// Signup creates the account on first call and reuses it when the exact
// (username, email) pair is submitted again. Either way a fresh code is
// stored and sent, invalidating the previous one.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validators.Username(req.Username); err != nil {
		return nil, NewValidationError("username", err.Error())
	}

	user, err := s.userRepo.FindByUsernameAndEmail(ctx, req.Username, req.Email)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.register(ctx, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	code := s.newCode()
	hashed, err := auth.HashConfirmationCode(code)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, hashed); err != nil {
		return nil, err
	}
	if err := s.sender.SendConfirmationCode(ctx, user.Email, code); err != nil {
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}

	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) register(ctx context.Context, req dto.SignupRequest) (*models.User, error) {
	verr := &ValidationError{}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		verr.Add("username", "a user with that username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		verr.Add("email", "a user with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !verr.empty() {
		return nil, verr
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("non_field_errors", "a user with that username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

// ExchangeToken trades a valid confirmation code for an access token. The
// code is cleared on success so it cannot be replayed.
func (s *authService) ExchangeToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFound(err, "user")
	}

	if !auth.VerifyConfirmationCode(user.ConfirmationCode, req.ConfirmationCode) {
		return nil, NewValidationError("confirmation_code", invalidCodeMessage)
	}

	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, ""); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

// Authenticate resolves a bearer token to the current user record, so role
// changes apply to tokens already issued.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

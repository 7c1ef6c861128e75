package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountService handles registration, login, and capability resolution.
type AccountService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAccountService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput is the registration form. Company fields are required for
// every kind except individual.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Kind     model.UserKind
	Phone    string
	City     string
	Country  string

	CompanyName     string
	CompanyKind     model.CompanyKind
	BusinessLicense string
	TaxID           string
	Address         string
}

// AuthResult bundles the user with a freshly issued token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register validates the whole form in one pass so the caller gets every
// field error at once, then creates the user (and company, for business
// accounts) and issues a token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	fields := map[string]string{}

	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		fields["name"] = "name is required"
	case len(in.Name) < 2:
		fields["name"] = "name must be at least 2 characters"
	case len(in.Name) > 100:
		fields["name"] = "name must be less than 100 characters"
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(in.Email) {
		fields["email"] = "please enter a valid email address"
	}

	switch {
	case in.Password == "":
		fields["password"] = "password is required"
	case len(in.Password) < 8:
		fields["password"] = "password must be at least 8 characters"
	case len(in.Password) > 72:
		fields["password"] = "password must be at most 72 characters"
	}

	if !in.Kind.Valid() {
		fields["kind"] = "invalid account kind"
	}

	needsCompany := in.Kind.Valid() && in.Kind != model.UserKindIndividual
	if needsCompany {
		if strings.TrimSpace(in.CompanyName) == "" {
			fields["companyName"] = "company name is required"
		}
		if !in.CompanyKind.Valid() {
			fields["companyKind"] = "invalid company kind"
		}
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = "Ethiopia"
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Kind:         in.Kind,
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		Country:      country,
		IsActive:     true,
	}

	var company *model.Company
	if needsCompany {
		company = &model.Company{
			Name:            strings.TrimSpace(in.CompanyName),
			Kind:            in.CompanyKind,
			BusinessLicense: strings.TrimSpace(in.BusinessLicense),
			TaxID:           strings.TrimSpace(in.TaxID),
			Address:         strings.TrimSpace(in.Address),
			City:            strings.TrimSpace(in.City),
		}
	}

	if err := s.users.CreateUser(ctx, user, company); err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("kind", string(user.Kind)),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials and issues a token. A wrong email and a
// wrong password produce the same Unauthorized error so the endpoint does
// not leak which accounts exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("logging in %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("this account has been deactivated")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// UserByID returns the full user record behind an authenticated request.
func (s *AccountService) UserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return user, nil
}

// Capabilities resolves the caller's entitlements once per request instead
// of re-deriving "is this a business" with ad hoc joins in every operation.
// Individual accounts get the zero value.
func (s *AccountService) Capabilities(ctx context.Context, userID string) (model.Capabilities, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return model.Capabilities{}, fmt.Errorf("resolving capabilities for %s: %w", userID, err)
	}

	caps := model.Capabilities{
		IsOrganizer: user.Kind == model.UserKindOrganizer,
	}

	company, err := s.users.CompanyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return caps, nil
		}
		return model.Capabilities{}, fmt.Errorf("resolving capabilities for %s: %w", userID, err)
	}

	caps.IsDonorCompany = company.Kind.DonorSide()
	caps.IsRecipientCompany = company.Kind == model.CompanyKindOrganization
	return caps, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/app/logger"
	"inkwell/app/models"
	"inkwell/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

// TokenIssuer signs access tokens for users.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// RegisterInput is a sign up request.
type RegisterInput struct {
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// AuthResult is a signed in user and their token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService registers and signs in users.
type AuthService struct {
	users  repositories.UserRepository
	tokens TokenIssuer
	log    *logger.Logger
	now    func() time.Time
	cost   int
}

func NewAuthService(users repositories.UserRepository, tokens TokenIssuer, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log.With("service", "AuthService"),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

// Register creates a user account with the default role and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (result *AuthResult, err error) {
	_, span := startSpan(ctx, "AuthService.Register")
	defer func() { finishSpan(span, err) }()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = models.NormalizeEmail(input.Email)
	if err := models.ValidateStruct(input); err != nil {
		return nil, invalid(err)
	}
	user, err := s.createUser(input, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.signIn(user)
}

// Provision creates a user with the given role. It backs the seed command,
// which is the only way to create admins.
func (s *AuthService) Provision(ctx context.Context, input RegisterInput, role models.Role) (user *models.User, err error) {
	_, span := startSpan(ctx, "AuthService.Provision")
	defer func() { finishSpan(span, err) }()

	if !role.Valid() {
		return nil, newError(ErrValidation, "Role must be one of: user, admin")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = models.NormalizeEmail(input.Email)
	if err := models.ValidateStruct(input); err != nil {
		return nil, invalid(err)
	}
	return s.createUser(input, role)
}

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (result *AuthResult, err error) {
	_, span := startSpan(ctx, "AuthService.Login")
	defer func() { finishSpan(span, err) }()

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrUnauthenticated, invalidCredentials)
		}
		return nil, storeError(err, "load user", invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, newError(ErrUnauthenticated, invalidCredentials)
	}
	return s.signIn(user)
}

// Me returns the account of principal.
func (s *AuthService) Me(ctx context.Context, principal models.Principal) (user *models.User, err error) {
	_, span := startSpan(ctx, "AuthService.Me")
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	user, err = s.users.GetByID(principal.ID)
	if err != nil {
		return nil, storeError(err, "load user", "User not found")
	}
	return user, nil
}

func (s *AuthService) createUser(input RegisterInput, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	user.BeforeCreate(s.now())
	if err := user.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, storeError(err, "create user", "User not found")
	}
	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

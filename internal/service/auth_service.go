package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"securesphere/internal/apperr"
	"securesphere/internal/model"
	"securesphere/internal/repository"
)

const tokenTTL = 24 * time.Hour

// AuthService handles credentials, JWT issuance, and invitation-gated
// registration.
type AuthService struct {
	userRepo   repository.UserRepo
	inviteRepo repository.InvitationRepo
	jwtSecret  []byte
	log        *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(userRepo repository.UserRepo, inviteRepo repository.InvitationRepo, jwtSecret string, log *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		jwtSecret:  []byte(jwtSecret),
		log:        log,
	}
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized(username, "login")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized(username, "login")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.log.Warn("record last login failed", "user", user.Username, "error", err)
	}

	s.log.Info("user logged in", "user", user.Username, "role", user.Role)
	return &model.LoginResponse{
		Token:      token,
		UserID:     user.ID,
		Role:       user.Role,
		FirstLogin: user.FirstLogin,
	}, nil
}

// RegisterInput holds a registration form submitted against an invitation
// token.
type RegisterInput struct {
	Token     string
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register redeems an invitation and creates the invited account. The role
// comes from the invitation, never from the form.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	inv, err := s.inviteRepo.GetByToken(ctx, in.Token)
	if err != nil {
		return nil, fmt.Errorf("lookup invitation: %w", err)
	}
	if inv == nil || inv.Expired(time.Now()) {
		return nil, apperr.Validation("token", "invitation is invalid or has expired")
	}
	if !strings.EqualFold(inv.Email, in.Email) {
		return nil, apperr.Validation("email", "email does not match the invitation")
	}
	if in.Username == "" {
		return nil, apperr.Validation("username", "username is required")
	}
	if err := checkPasswordPolicy(in.Password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return nil, apperr.Conflict("username is already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, apperr.Conflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        inv.Email,
		PasswordHash: string(hash),
		Role:         inv.Role,
		Organization: inv.Organization,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		FirstLogin:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	inv.IsUsed = true
	usedAt := time.Now()
	inv.UsedAt = &usedAt
	if err := s.inviteRepo.Update(ctx, inv); err != nil {
		s.log.Warn("mark invitation used failed", "invitation", inv.ID, "error", err)
	}

	s.log.Info("user registered", "user", user.Username, "role", user.Role)
	return user, nil
}

// ChangePassword rotates a user's password and clears the first-login flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return apperr.NotFound("user", userID)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperr.Unauthorized(userID, "change password")
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.FirstLogin = false
	return s.userRepo.Update(ctx, user)
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	claims := &model.UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("", "token")
	}
	return claims, nil
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := model.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return apperr.Validation("password", "password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return apperr.Validation("password", "password needs an uppercase letter, a lowercase letter, and a digit")
	}
	return nil
}

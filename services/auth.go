package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when the email is unknown so that a miss
// costs as much as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := HashPassword("dummy_password_for_timing_mitigation")
	return hash
})

// Claims is the payload of an access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput is the public sign-up payload.
type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

// ProfileInput updates the caller's own profile.
type ProfileInput struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type AuthService struct {
	clock
	repos     *repositories.Repositories
	secret    []byte
	expiresIn time.Duration
}

func NewAuthService(repos *repositories.Repositories, secret string, expiresIn time.Duration) *AuthService {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	return &AuthService{repos: repos, secret: []byte(secret), expiresIn: expiresIn}
}

// IssueToken signs an HS256 access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiresIn)
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates signature, algorithm and expiry.
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &AppError{Kind: ErrUnauthorized, Message: "token expired", Err: err}
		}
		return nil, &AppError{Kind: ErrUnauthorized, Message: "invalid token", Err: err}
	}
	if claims.Subject == "" {
		return nil, Unauthorized("invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users.FindByID(ctx, claims.Subject)
	if err != nil || !user.IsActive {
		return nil, Unauthorized("user not found or inactive")
	}
	return user, nil
}

// Register creates an account. The first account of a fresh install is the
// administrator; later sign-ups join as lawyers.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, ip string) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := SanitizeText(input.Name)
	if email == "" || name == "" {
		return nil, Validation("email and name are required")
	}
	if !strings.Contains(email, "@") {
		return nil, Validation("invalid email address")
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, Validation(err.Error())
	}

	if _, err := s.repos.Users.FindByEmail(ctx, email); err == nil {
		return nil, Conflict("email is already registered")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleLawyer,
		Phone:    trimOptional(input.Phone),
		Avatar:   trimOptional(input.Avatar),
		IsActive: true,
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		count, err := tx.Users.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			user.Role = models.RoleAdmin
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return conflictOnDuplicate(err, "email is already registered")
		}
		return recordActivity(ctx, tx, ActorFromUser(user, ip), activityEntry{
			Type:        models.ActivityUserLogin,
			EntityType:  "user",
			EntityID:    user.ID,
			Description: fmt.Sprintf("New user registered: %s", user.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("User registered", "user_id", user.ID, "role", user.Role)
	return s.result(user)
}

// Login checks credentials, stamps lastLogin and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*AuthResult, error) {
	user, err := s.repos.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		CheckPassword(password, dummyHash())
		return nil, Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, Unauthorized("user is inactive, contact an administrator")
	}
	if !CheckPassword(password, user.Password) {
		zap.S().Warnw("Failed login", "user_id", user.ID, "ip", ip)
		return nil, Unauthorized("invalid credentials")
	}

	now := s.now()
	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ActorFromUser(user, ip), activityEntry{
			Type:        models.ActivityUserLogin,
			EntityType:  "user",
			EntityID:    user.ID,
			Description: fmt.Sprintf("User signed in: %s", user.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return s.result(user)
}

// Logout only records the event; tokens expire on their own.
func (s *AuthService) Logout(ctx context.Context, actor Actor) error {
	return recordActivity(ctx, s.repos, actor, activityEntry{
		Type:        models.ActivityUserLogout,
		EntityType:  "user",
		EntityID:    actor.UserID,
		Description: fmt.Sprintf("User signed out: %s", actor.Name),
	})
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "User")
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := SanitizeText(*input.Name)
		if name == "" {
			return nil, Validation("name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = trimOptional(input.Phone)
	}
	if input.Avatar != nil {
		user.Avatar = trimOptional(input.Avatar)
	}
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword requires the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(current, user.Password) {
		return Validation("current password is incorrect")
	}
	if err := ValidatePassword(next); err != nil {
		return Validation(err.Error())
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return err
	}
	zap.S().Infow("Password changed", "user_id", user.ID)
	return nil
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-shoplist/internal/model"
	"go-shoplist/internal/repository"
	"go-shoplist/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

type AuthService interface {
	SignUp(email, password string) (*SessionResponse, error)
	SignIn(email, password string) (*SessionResponse, error)
	SignOut(userID uuid.UUID) error
	GetSession(tokenString string) (*SessionResponse, error)
}

// SessionResponse is the session payload handed to clients: the bearer token,
// its expiry, and a read-only copy of the account.
type SessionResponse struct {
	AccessToken string             `json:"access_token"`
	ExpiresAt   time.Time          `json:"expires_at"`
	User        model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) SignUp(email, password string) (*SessionResponse, error) {
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	if existing, err := s.userRepo.FindByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		IsActive:     true,
		TokenVersion: uuid.New().String(),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

func (s *authService) SignIn(email, password string) (*SessionResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Fresh token version per sign-in: outstanding tokens from older sessions
	// stop validating.
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, user.TokenVersion); err != nil {
		return nil, errors.New("failed to update session")
	}

	return s.issueSession(user)
}

func (s *authService) SignOut(userID uuid.UUID) error {
	// Bumping the version revokes every token minted with the old one.
	return s.userRepo.UpdateTokenVersion(userID, uuid.New().String())
}

func (s *authService) GetSession(tokenString string) (*SessionResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, jwt.ErrInvalidToken
	}

	return &SessionResponse{
		AccessToken: tokenString,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user.ToResponse(),
	}, nil
}

func (s *authService) issueSession(user *model.User) (*SessionResponse, error) {
	token, expiresAt, err := jwt.GenerateToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &SessionResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.ToResponse(),
	}, nil
}

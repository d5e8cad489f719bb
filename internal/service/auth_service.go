package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"
	"go-pos-core/pkg/credential"
	"go-pos-core/pkg/jwt"
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Authenticate(tokenString string) (*model.Account, error)
	Logout(accountID uint) error
}

type LoginResponse struct {
	Token      string         `json:"token"`
	Account    *model.Account `json:"account"`
	Privileges []string       `json:"privileges"` // Flat privileges array for easy checking
}

type authService struct {
	accounts repository.AccountRepository
	hasher   credential.Hasher
	tokens   *jwt.Manager
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(accounts repository.AccountRepository, hasher credential.Hasher, tokens *jwt.Manager, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	// 1. Find account; an unknown username looks exactly like a wrong password
	account, err := s.accounts.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if err := s.hasher.Verify(account.PasswordHash, password); err != nil {
		if !errors.Is(err, credential.ErrMismatch) {
			s.log.Warn("credential verify failed", zap.Uint("account_id", account.ID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	// 3. Unknown roles grant nothing, so there is no session to start
	if !account.Role.Valid() {
		return nil, ErrForbiddenRole
	}

	// 4. Single session: rotating the version invalidates older tokens
	version := uuid.NewString()
	now := s.now().UTC()
	if err := s.accounts.UpdateSession(account.ID, version, now); err != nil {
		return nil, err
	}
	account.TokenVersion = version
	account.LastLoginAt = &now

	token, err := s.tokens.GenerateToken(account.ID, account.Username, string(account.Role), version)
	if err != nil {
		return nil, err
	}

	s.log.Info("login", zap.Uint("account_id", account.ID), zap.String("username", account.Username))
	return &LoginResponse{
		Token:      token,
		Account:    account,
		Privileges: account.Privileges(),
	}, nil
}

// Authenticate resolves a bearer token to the current account row. Role and
// privileges come from the row, not the token, so edits apply immediately.
func (s *authService) Authenticate(tokenString string) (*model.Account, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}

	if account.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return account, nil
}

// Logout rotates the token version so the current token stops working.
func (s *authService) Logout(accountID uint) error {
	return s.accounts.UpdateTokenVersion(accountID, uuid.NewString())
}

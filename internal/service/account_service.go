package service

import (
	"strings"

	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"
	"go-pos-core/pkg/credential"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountService interface {
	CreateAccount(req *CreateAccountRequest) (*model.Account, error)
	UpdateAccount(id uint, req *UpdateAccountRequest) (*model.Account, error)
	ChangePassword(id uint, newPassword string) error
	DeleteAccount(id uint) error
	GetAccount(id uint) (*model.Account, error)
	ListAccounts() ([]model.Account, error)
}

type CreateAccountRequest struct {
	Username  string `json:"username" validate:"required,notblank,max=50"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Role      string `json:"role" validate:"required"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type UpdateAccountRequest struct {
	Role      string `json:"role" validate:"required"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type passwordRequest struct {
	Password string `validate:"required,min=6,max=72"`
}

type accountService struct {
	accounts repository.AccountRepository
	hasher   credential.Hasher
	log      *zap.Logger
}

func NewAccountService(accounts repository.AccountRepository, hasher credential.Hasher, log *zap.Logger) AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &accountService{accounts: accounts, hasher: hasher, log: log}
}

func (s *accountService) CreateAccount(req *CreateAccountRequest) (*model.Account, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, ErrForbiddenRole
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}

	s.log.Info("account created", zap.Uint("account_id", account.ID), zap.String("username", account.Username), zap.String("role", string(role)))
	return account, nil
}

func (s *accountService) UpdateAccount(id uint, req *UpdateAccountRequest) (*model.Account, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, ErrForbiddenRole
	}

	account, err := s.accounts.FindByID(id)
	if err != nil {
		return nil, err
	}
	account.Role = role
	account.FirstName = strings.TrimSpace(req.FirstName)
	account.LastName = strings.TrimSpace(req.LastName)
	if err := s.accounts.UpdateProfile(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ChangePassword(id uint, newPassword string) error {
	if err := validate(passwordRequest{Password: newPassword}); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(id, hash); err != nil {
		return err
	}
	// Existing sessions end with the old password.
	if err := s.accounts.UpdateTokenVersion(id, uuid.NewString()); err != nil {
		return err
	}
	s.log.Info("account password changed", zap.Uint("account_id", id))
	return nil
}

// DeleteAccount refuses accounts that sales or adjustments are attributed to.
func (s *accountService) DeleteAccount(id uint) error {
	if _, err := s.accounts.FindByID(id); err != nil {
		return err
	}
	refs, err := s.accounts.CountReferences(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrAccountInUse
	}
	if err := s.accounts.Delete(id); err != nil {
		return err
	}
	s.log.Info("account deleted", zap.Uint("account_id", id))
	return nil
}

func (s *accountService) GetAccount(id uint) (*model.Account, error) {
	return s.accounts.FindByID(id)
}

func (s *accountService) ListAccounts() ([]model.Account, error) {
	return s.accounts.FindAll()
}

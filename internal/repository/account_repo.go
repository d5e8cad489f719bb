package repository

import (
	"errors"
	"strings"
	"time"

	"go-pos-core/internal/model"

	"gorm.io/gorm"
)

type AccountRepository interface {
	FindByUsername(username string) (*model.Account, error)
	FindByID(id uint) (*model.Account, error)
	Create(account *model.Account) error
	UpdateProfile(account *model.Account) error
	Delete(id uint) error
	UpdatePassword(accountID uint, hashedPassword string) error
	FindAll() ([]model.Account, error)
	UpdateSession(accountID uint, version string, loginAt time.Time) error
	UpdateTokenVersion(accountID uint, version string) error
	CountReferences(accountID uint) (int64, error)
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db}
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

func (r *accountRepo) FindByUsername(username string) (*model.Account, error) {
	var account model.Account
	if err := r.db.Where("username = ?", normalizeUsername(username)).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (r *accountRepo) FindByID(id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (r *accountRepo) Create(account *model.Account) error {
	account.Username = normalizeUsername(account.Username)

	var count int64
	if err := r.db.Model(&model.Account{}).Where("username = ?", account.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateUsername
	}
	if err := r.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// UpdateProfile writes names and role only; credentials have their own paths.
func (r *accountRepo) UpdateProfile(account *model.Account) error {
	res := r.db.Model(&model.Account{}).
		Where("id = ?", account.ID).
		Select("first_name", "last_name", "role", "updated_at").
		Updates(account)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepo) UpdatePassword(accountID uint, hashedPassword string) error {
	res := r.db.Model(&model.Account{}).Where("id = ?", accountID).Update("password_hash", hashedPassword)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepo) Delete(id uint) error {
	res := r.db.Delete(&model.Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepo) FindAll() ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.Order("username ASC").Find(&accounts).Error
	return accounts, err
}

// UpdateSession rotates the token version, which invalidates every earlier token.
func (r *accountRepo) UpdateSession(accountID uint, version string, loginAt time.Time) error {
	res := r.db.Model(&model.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"token_version": version,
		"last_login_at": loginAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepo) UpdateTokenVersion(accountID uint, version string) error {
	res := r.db.Model(&model.Account{}).Where("id = ?", accountID).Update("token_version", version)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountReferences counts sales and stock adjustments attributed to the account.
func (r *accountRepo) CountReferences(accountID uint) (int64, error) {
	var sales, adjustments int64
	if err := r.db.Model(&model.Sale{}).Where("account_id = ?", accountID).Count(&sales).Error; err != nil {
		return 0, err
	}
	if err := r.db.Model(&model.StockAdjustment{}).Where("created_by = ?", accountID).Count(&adjustments).Error; err != nil {
		return 0, err
	}
	return sales + adjustments, nil
}

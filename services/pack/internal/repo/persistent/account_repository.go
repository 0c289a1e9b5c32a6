package persistent

import (
	"errors"
	"fmt"

	"emoticon-hub/services/pack/internal/entity"
	"emoticon-hub/services/pack/internal/model"

	"gorm.io/gorm"
)

// AccountRepository resolves the owning account for an ingest call. Read-only:
// accounts are managed by the auth collaborator, not by this service.
type AccountRepository interface {
	FindByIdentifier(identifier string) (*entity.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByIdentifier(identifier string) (*entity.Account, error) {
	var accountModel model.AccountModel
	if err := r.db.Where("id = ?", identifier).First(&accountModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}
	return ToAccountEntity(&accountModel), nil
}

package persistent

import (
	"errors"
	"fmt"
	"time"

	"emoticon-hub/services/pack/internal/entity"
	"emoticon-hub/services/pack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PackRepository interface {
	CreatePackWithEmoticons(pack *entity.Pack, emoticons []entity.Emoticon) error
	GetByID(id string) (*entity.Pack, error)
	GetByTitle(title string) (*entity.Pack, error)
	GetByShareLink(shareLink string) (*entity.Pack, error)
	List(limit, offset int, category string, state entity.ExamineState) ([]*entity.Pack, error)
	IncrementView(id string) error
	UpdateExamineState(id string, state entity.ExamineState) error
}

type packRepository struct {
	db *gorm.DB
}

func NewPackRepository(db *gorm.DB) PackRepository {
	return &packRepository{db: db}
}

// CreatePackWithEmoticons commits the pack and all its emoticons as one
// transaction. Timestamps are assigned here, in the write path, so the
// transactional boundary stays explicit. On success the pack argument is
// refreshed with the generated ids and timestamps; on conflict or backend
// failure nothing is persisted.
func (r *packRepository) CreatePackWithEmoticons(pack *entity.Pack, emoticons []entity.Emoticon) error {
	now := time.Now()

	packModel := ToPackModel(pack)
	packModel.Emoticons = nil
	if packModel.ID == "" {
		packModel.ID = uuid.New().String()
	}
	packModel.CreatedAt = now
	packModel.UpdatedAt = now

	emoticonModels := make([]model.EmoticonModel, len(emoticons))
	for i := range emoticons {
		em := ToEmoticonModel(&emoticons[i])
		if em.ID == "" {
			em.ID = uuid.New().String()
		}
		em.PackID = packModel.ID
		em.Order = i
		em.CreatedAt = now
		em.UpdatedAt = now
		emoticonModels[i] = *em
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(packModel).Error; err != nil {
			return err
		}
		for i := range emoticonModels {
			if err := tx.Create(&emoticonModels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classifyWriteError(err)
	}

	packModel.Emoticons = emoticonModels
	*pack = *ToPackEntity(packModel)
	return nil
}

func (r *packRepository) GetByID(id string) (*entity.Pack, error) {
	return r.getOne("id = ?", id)
}

func (r *packRepository) GetByTitle(title string) (*entity.Pack, error) {
	return r.getOne("title = ?", title)
}

func (r *packRepository) GetByShareLink(shareLink string) (*entity.Pack, error) {
	return r.getOne("share_link = ?", shareLink)
}

func (r *packRepository) getOne(query string, arg string) (*entity.Pack, error) {
	var packModel model.PackModel
	err := r.db.Preload("Emoticons", func(db *gorm.DB) *gorm.DB {
		return db.Order("emoticons.sort_order ASC")
	}).Where(query, arg).First(&packModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPackNotFound
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}
	return ToPackEntity(&packModel), nil
}

func (r *packRepository) List(limit, offset int, category string, state entity.ExamineState) ([]*entity.Pack, error) {
	var packModels []model.PackModel
	query := r.db.Preload("Emoticons", func(db *gorm.DB) *gorm.DB {
		return db.Order("emoticons.sort_order ASC")
	}).Where("is_public = ? AND is_blacklist = ?", true, false).Order("created_at DESC")

	if state != "" {
		query = query.Where("examine_state = ?", string(state))
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&packModels).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}

	packs := make([]*entity.Pack, len(packModels))
	for i := range packModels {
		packs[i] = ToPackEntity(&packModels[i])
	}
	return packs, nil
}

func (r *packRepository) IncrementView(id string) error {
	result := r.db.Model(&model.PackModel{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"view":       clause.Expr{SQL: "view + ?", Vars: []interface{}{1}},
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrPackNotFound
	}
	return nil
}

// UpdateExamineState applies a moderation verdict. The read and the write run
// in one transaction so a concurrent verdict cannot slip between them.
func (r *packRepository) UpdateExamineState(id string, state entity.ExamineState) error {
	if !state.Valid() {
		return entity.ErrInvalidTransition
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var packModel model.PackModel
		if err := tx.Where("id = ?", id).First(&packModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrPackNotFound
			}
			return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
		}

		if !entity.ExamineState(packModel.ExamineState).CanTransitionTo(state) {
			return entity.ErrInvalidTransition
		}

		err := tx.Model(&model.PackModel{}).Where("id = ?", id).Updates(map[string]interface{}{
			"examine_state": string(state),
			"updated_at":    time.Now(),
		}).Error
		if err != nil {
			return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
		}
		return nil
	})
}

func classifyWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", entity.ErrPersistenceConflict, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
}

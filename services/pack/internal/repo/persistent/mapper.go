package persistent

import (
	"emoticon-hub/services/pack/internal/entity"
	"emoticon-hub/services/pack/internal/model"
)

func ToPackEntity(m *model.PackModel) *entity.Pack {
	if m == nil {
		return nil
	}

	pack := &entity.Pack{
		ID:            m.ID,
		Title:         m.Title,
		AccountID:     m.AccountID,
		IsAIGenerated: m.IsAIGenerated,
		Price:         m.Price,
		View:          m.View,
		IsPublic:      m.IsPublic,
		IsBlacklist:   m.IsBlacklist,
		Category:      entity.Category(m.Category),
		ThumbnailImg:  m.ThumbnailImg,
		ListImg:       m.ListImg,
		Description:   m.Description,
		ExamineState:  entity.ExamineState(m.ExamineState),
		ShareLink:     m.ShareLink,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	if len(m.Emoticons) > 0 {
		pack.Emoticons = make([]entity.Emoticon, len(m.Emoticons))
		for i, em := range m.Emoticons {
			pack.Emoticons[i] = ToEmoticonEntity(&em)
		}
	}

	return pack
}

func ToPackModel(e *entity.Pack) *model.PackModel {
	if e == nil {
		return nil
	}

	pack := &model.PackModel{
		ID:            e.ID,
		Title:         e.Title,
		AccountID:     e.AccountID,
		IsAIGenerated: e.IsAIGenerated,
		Price:         e.Price,
		View:          e.View,
		IsPublic:      e.IsPublic,
		IsBlacklist:   e.IsBlacklist,
		Category:      string(e.Category),
		ThumbnailImg:  e.ThumbnailImg,
		ListImg:       e.ListImg,
		Description:   e.Description,
		ExamineState:  string(e.ExamineState),
		ShareLink:     e.ShareLink,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}

	if len(e.Emoticons) > 0 {
		pack.Emoticons = make([]model.EmoticonModel, len(e.Emoticons))
		for i, em := range e.Emoticons {
			pack.Emoticons[i] = *ToEmoticonModel(&em)
		}
	}

	return pack
}

func ToEmoticonEntity(m *model.EmoticonModel) entity.Emoticon {
	if m == nil {
		return entity.Emoticon{}
	}

	return entity.Emoticon{
		ID:        m.ID,
		PackID:    m.PackID,
		ImageURL:  m.ImageURL,
		Order:     m.Order,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToEmoticonModel(e *entity.Emoticon) *model.EmoticonModel {
	if e == nil {
		return nil
	}

	return &model.EmoticonModel{
		ID:        e.ID,
		PackID:    e.PackID,
		ImageURL:  e.ImageURL,
		Order:     e.Order,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToAccountEntity(m *model.AccountModel) *entity.Account {
	if m == nil {
		return nil
	}

	return &entity.Account{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

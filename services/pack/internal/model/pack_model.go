package model

import (
	"time"

	"gorm.io/gorm"
)

type PackModel struct {
	ID            string          `gorm:"type:uuid;primary_key" json:"id"`
	Title         string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"title"`
	AccountID     string          `gorm:"type:uuid;not null;index" json:"account_id"`
	IsAIGenerated bool            `gorm:"not null;default:false" json:"is_ai_generated"`
	Price         int             `gorm:"not null;default:0" json:"price"`
	View          int64           `gorm:"not null;default:0" json:"view"`
	IsPublic      bool            `gorm:"not null;default:true" json:"is_public"`
	IsBlacklist   bool            `gorm:"not null;default:false" json:"is_blacklist"`
	Category      string          `gorm:"type:varchar(50);not null;index" json:"category"`
	ThumbnailImg  string          `gorm:"type:varchar(500)" json:"thumbnail_img"`
	ListImg       string          `gorm:"type:varchar(500)" json:"list_img"`
	Description   string          `gorm:"type:text" json:"description"`
	ExamineState  string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"examine_state"`
	ShareLink     string          `gorm:"type:varchar(255);not null;default:'public'" json:"share_link"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
	Emoticons     []EmoticonModel `gorm:"foreignKey:PackID" json:"emoticons,omitempty"`
}

func (PackModel) TableName() string {
	return "packs"
}

type EmoticonModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	PackID    string         `gorm:"type:uuid;not null;index" json:"pack_id"`
	ImageURL  string         `gorm:"type:varchar(500);not null" json:"image_url"`
	Order     int            `gorm:"column:sort_order;not null;default:0;index" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EmoticonModel) TableName() string {
	return "emoticons"
}

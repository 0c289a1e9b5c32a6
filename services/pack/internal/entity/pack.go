package entity

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryFunny     Category = "FUNNY"
	CategoryCute      Category = "CUTE"
	CategoryCharacter Category = "CHARACTER"
	CategoryMeme      Category = "MEME"
	CategoryAnimal    Category = "ANIMAL"
	CategoryText      Category = "TEXT"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFunny, CategoryCute, CategoryCharacter, CategoryMeme, CategoryAnimal, CategoryText:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ExamineState is the moderation state of a pack. Packs are created PENDING;
// APPROVED and REJECTED are terminal and set by the moderation collaborator.
type ExamineState string

const (
	ExaminePending  ExamineState = "PENDING"
	ExamineApproved ExamineState = "APPROVED"
	ExamineRejected ExamineState = "REJECTED"
)

func (s ExamineState) Valid() bool {
	switch s {
	case ExaminePending, ExamineApproved, ExamineRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving to next.
// Only PENDING -> APPROVED and PENDING -> REJECTED are legal.
func (s ExamineState) CanTransitionTo(next ExamineState) bool {
	return s == ExaminePending && (next == ExamineApproved || next == ExamineRejected)
}

// ShareLinkPublic is the sentinel share link for packs visible without an
// invite; private packs get a generated link instead.
const ShareLinkPublic = "public"

type Pack struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	AccountID     string       `json:"account_id"`
	IsAIGenerated bool         `json:"is_ai_generated"`
	Price         int          `json:"price"`
	View          int64        `json:"view"`
	IsPublic      bool         `json:"is_public"`
	IsBlacklist   bool         `json:"is_blacklist"`
	Category      Category     `json:"category"`
	ThumbnailImg  string       `json:"thumbnail_img"`
	ListImg       string       `json:"list_img"`
	Description   string       `json:"description"`
	ExamineState  ExamineState `json:"examine_state"`
	ShareLink     string       `json:"share_link"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Emoticons     []Emoticon   `json:"emoticons,omitempty"`
}

type Emoticon struct {
	ID        string    `json:"id"`
	PackID    string    `json:"pack_id"`
	ImageURL  string    `json:"image_url"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"emoticon-hub/pkg/imagestore"
	"emoticon-hub/pkg/logger"
	"emoticon-hub/pkg/queue"
	"emoticon-hub/services/pack/internal/entity"
	"emoticon-hub/services/pack/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// ImageFile is one raw image payload as submitted by the caller.
type ImageFile struct {
	Filename string
	Data     []byte
}

// IngestRequest carries everything needed to register one emoticon pack.
// Emoticons order is render order and is preserved end to end.
type IngestRequest struct {
	Title         string
	Category      string
	Description   string
	Price         int
	IsAIGenerated bool
	IsPublic      bool
	AccountID     string
	Thumbnail     ImageFile
	ListImage     ImageFile
	Emoticons     []ImageFile
}

type PackUseCase interface {
	IngestPack(ctx context.Context, req IngestRequest) (string, error)
	GetPack(packID string) (*entity.Pack, error)
	GetPackByShareLink(shareLink string) (*entity.Pack, error)
	ListPacks(limit, offset int, category string, state entity.ExamineState) ([]*entity.Pack, error)
	ExaminePack(packID string, state entity.ExamineState) error
}

type packUseCase struct {
	packRepo     persistent.PackRepository
	accountRepo  persistent.AccountRepository
	uploader     imagestore.Uploader
	redisClient  *redis.Client
	queueClient  *queue.Client
	logger       *logger.Logger
	uploadLimit  int
}

func NewPackUseCase(
	packRepo persistent.PackRepository,
	accountRepo persistent.AccountRepository,
	uploader imagestore.Uploader,
	redisClient *redis.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
	uploadLimit int,
) PackUseCase {
	if uploadLimit <= 0 {
		uploadLimit = 4
	}
	return &packUseCase{
		packRepo:    packRepo,
		accountRepo: accountRepo,
		uploader:    uploader,
		redisClient: redisClient,
		queueClient: queueClient,
		logger:      logger,
		uploadLimit: uploadLimit,
	}
}

// IngestPack uploads the thumbnail, the list image and every emoticon, then
// registers the pack and its emoticons as one transaction. The caller sees it
// as atomic: any upload or commit failure leaves no catalog rows behind.
// Blobs already uploaded when a sibling fails are orphaned in remote storage
// and never referenced.
func (uc *packUseCase) IngestPack(ctx context.Context, req IngestRequest) (string, error) {
	if req.Title == "" {
		return "", fmt.Errorf("title is required")
	}
	category, err := entity.ParseCategory(req.Category)
	if err != nil {
		return "", err
	}

	// Resolve the owner before any upload; an unknown account fails fast.
	if _, err := uc.accountRepo.FindByIdentifier(req.AccountID); err != nil {
		return "", err
	}

	uploaded, err := uc.uploadAll(ctx, req)
	if err != nil {
		uc.logger.Error("Pack upload fan-out failed for %q: %v", req.Title, err)
		return "", fmt.Errorf("%w: %v", entity.ErrImageUpload, err)
	}

	shareLink := entity.ShareLinkPublic
	if !req.IsPublic {
		shareLink = uuid.New().String()
	}

	pack := &entity.Pack{
		Title:         req.Title,
		AccountID:     req.AccountID,
		IsAIGenerated: req.IsAIGenerated,
		Price:         req.Price,
		IsPublic:      req.IsPublic,
		Category:      category,
		ThumbnailImg:  uploaded.thumbnail,
		ListImg:       uploaded.list,
		Description:   req.Description,
		ExamineState:  entity.ExaminePending,
		ShareLink:     shareLink,
	}

	emoticons := make([]entity.Emoticon, len(uploaded.items))
	for i, url := range uploaded.items {
		emoticons[i] = entity.Emoticon{ImageURL: url, Order: i}
	}

	if err := uc.packRepo.CreatePackWithEmoticons(pack, emoticons); err != nil {
		return "", err
	}

	uc.cachePack(pack)
	if uc.queueClient != nil {
		go uc.publishExamineTask(pack)
	}

	return pack.ShareLink, nil
}

type uploadedURLs struct {
	thumbnail string
	list      string
	items     []string
}

// uploadAll fans the N+2 uploads out with bounded parallelism and joins
// before returning. Item URLs land at the index their payload was submitted
// at, so submission order survives the concurrency. On the first failure the
// group context is cancelled and every completed result is discarded.
func (uc *packUseCase) uploadAll(ctx context.Context, req IngestRequest) (*uploadedURLs, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.uploadLimit)

	out := &uploadedURLs{items: make([]string, len(req.Emoticons))}

	g.Go(func() error {
		url, err := uc.uploader.Upload(ctx, req.Thumbnail.Data, req.Thumbnail.Filename)
		if err != nil {
			return fmt.Errorf("thumbnail %s: %w", req.Thumbnail.Filename, err)
		}
		out.thumbnail = url
		return nil
	})

	g.Go(func() error {
		url, err := uc.uploader.Upload(ctx, req.ListImage.Data, req.ListImage.Filename)
		if err != nil {
			return fmt.Errorf("list image %s: %w", req.ListImage.Filename, err)
		}
		out.list = url
		return nil
	})

	for i, item := range req.Emoticons {
		i, item := i, item
		g.Go(func() error {
			url, err := uc.uploader.Upload(ctx, item.Data, item.Filename)
			if err != nil {
				return fmt.Errorf("emoticon %d %s: %w", i, item.Filename, err)
			}
			out.items[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *packUseCase) GetPack(packID string) (*entity.Pack, error) {
	pack, err := uc.packRepo.GetByID(packID)
	if err != nil {
		return nil, err
	}

	if err := uc.packRepo.IncrementView(packID); err != nil {
		uc.logger.Warn("Failed to increment view for pack %s: %v", packID, err)
	} else {
		pack.View++
	}

	return pack, nil
}

func (uc *packUseCase) GetPackByShareLink(shareLink string) (*entity.Pack, error) {
	return uc.packRepo.GetByShareLink(shareLink)
}

func (uc *packUseCase) ListPacks(limit, offset int, category string, state entity.ExamineState) ([]*entity.Pack, error) {
	return uc.packRepo.List(limit, offset, category, state)
}

// ExaminePack applies a moderation verdict. The verdict itself comes from the
// external moderation collaborator; this only enforces the state machine.
func (uc *packUseCase) ExaminePack(packID string, state entity.ExamineState) error {
	return uc.packRepo.UpdateExamineState(packID, state)
}

func (uc *packUseCase) cachePack(pack *entity.Pack) {
	if uc.redisClient == nil {
		return
	}

	ctx := context.Background()
	packKey := fmt.Sprintf("pack:%s", pack.ID)
	packData := map[string]interface{}{
		"id":            pack.ID,
		"title":         pack.Title,
		"account_id":    pack.AccountID,
		"category":      string(pack.Category),
		"examine_state": string(pack.ExamineState),
		"thumbnail_img": pack.ThumbnailImg,
		"list_img":      pack.ListImg,
		"share_link":    pack.ShareLink,
	}

	for k, v := range packData {
		uc.redisClient.HSet(ctx, packKey, k, v)
	}
	uc.redisClient.Expire(ctx, packKey, 24*time.Hour)
}

func (uc *packUseCase) publishExamineTask(pack *entity.Pack) {
	task := map[string]interface{}{
		"type":       "pack_submitted",
		"pack_id":    pack.ID,
		"title":      pack.Title,
		"account_id": pack.AccountID,
	}

	if err := uc.queueClient.PublishExamineTask(task); err != nil {
		uc.logger.Error("[EXAMINE QUEUE] Failed to publish examine task for pack %s: %v", pack.ID, err)
	}
}

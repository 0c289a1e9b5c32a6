package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"emoticon-hub/pkg/logger"
	"emoticon-hub/services/pack/internal/entity"
	"emoticon-hub/services/pack/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PackHandler struct {
	packUseCase usecase.PackUseCase
	logger      *logger.Logger
}

func NewPackHandler(packUseCase usecase.PackUseCase, logger *logger.Logger) *PackHandler {
	return &PackHandler{
		packUseCase: packUseCase,
		logger:      logger,
	}
}

type IngestPackRequest struct {
	Title         string `form:"title" binding:"required"`
	Category      string `form:"category" binding:"required"`
	Description   string `form:"description"`
	Price         int    `form:"price"`
	IsAIGenerated bool   `form:"is_ai_generated"`
	IsPublic      bool   `form:"is_public,default=true"`
}

// IngestPack godoc
// @Summary      Submit a new emoticon pack
// @Description  Upload a thumbnail, a list image and zero or more emoticon images, and register the pack for moderation. The pack becomes visible all-or-nothing.
// @Tags         packs
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Pack title (globally unique)"
// @Param        category formData string true "Pack category" Enums(FUNNY, CUTE, CHARACTER, MEME, ANIMAL, TEXT)
// @Param        description formData string false "Pack description"
// @Param        price formData int false "Price, 0 for free"
// @Param        is_ai_generated formData bool false "Whether the images are AI generated"
// @Param        is_public formData bool false "Public visibility (default true)"
// @Param        thumbnail_img formData file true "Thumbnail image"
// @Param        list_img formData file true "List image"
// @Param        emoticons formData file false "Emoticon images, submission order is render order"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /packs [post]
func (h *PackHandler) IngestPack(c *gin.Context) {
	userID := c.GetString("user_id")

	var req IngestPackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := entity.ParseCategory(req.Category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	thumbnail, err := h.formImage(c, "thumbnail_img")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thumbnail image is required"})
		return
	}
	listImage, err := h.formImage(c, "list_img")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "List image is required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form"})
		return
	}

	emoticons := make([]usecase.ImageFile, 0, len(form.File["emoticons"]))
	for _, header := range form.File["emoticons"] {
		file, err := readImage(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read emoticon image"})
			return
		}
		emoticons = append(emoticons, file)
	}

	shareLink, err := h.packUseCase.IngestPack(c.Request.Context(), usecase.IngestRequest{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Price:         req.Price,
		IsAIGenerated: req.IsAIGenerated,
		IsPublic:      req.IsPublic,
		AccountID:     userID,
		Thumbnail:     thumbnail,
		ListImage:     listImage,
		Emoticons:     emoticons,
	})
	if err != nil {
		h.logger.Error("Failed to ingest pack %q: %v", req.Title, err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"share_link": shareLink})
}

// GetPack godoc
// @Summary      Get pack by ID
// @Description  Get pack details with its emoticons and increment the view counter
// @Tags         packs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pack ID"
// @Success      200  {object}  entity.Pack
// @Failure      404  {object}  map[string]string
// @Router       /packs/{id} [get]
func (h *PackHandler) GetPack(c *gin.Context) {
	pack, err := h.packUseCase.GetPack(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pack)
}

// GetPackByShareLink godoc
// @Summary      Get pack by share link
// @Tags         packs
// @Produce      json
// @Security     BearerAuth
// @Param        share_link path string true "Share link"
// @Success      200  {object}  entity.Pack
// @Failure      404  {object}  map[string]string
// @Router       /packs/share/{share_link} [get]
func (h *PackHandler) GetPackByShareLink(c *gin.Context) {
	pack, err := h.packUseCase.GetPackByShareLink(c.Param("share_link"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pack)
}

// ListPacks godoc
// @Summary      List public packs
// @Tags         packs
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Offset"
// @Param        category query string false "Category filter"
// @Param        state query string false "Examine state filter" Enums(PENDING, APPROVED, REJECTED)
// @Success      200  {object}  map[string]interface{}
// @Router       /packs [get]
func (h *PackHandler) ListPacks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	category := c.Query("category")

	state := entity.ExamineState(c.Query("state"))
	if state != "" && !state.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown examine state"})
		return
	}

	packs, err := h.packUseCase.ListPacks(limit, offset, category, state)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"packs": packs})
}

// ApprovePack godoc
// @Summary      Approve a pending pack
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pack ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /packs/{id}/approve [post]
func (h *PackHandler) ApprovePack(c *gin.Context) {
	h.examinePack(c, entity.ExamineApproved, "Pack approved")
}

// RejectPack godoc
// @Summary      Reject a pending pack
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pack ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /packs/{id}/reject [post]
func (h *PackHandler) RejectPack(c *gin.Context) {
	h.examinePack(c, entity.ExamineRejected, "Pack rejected")
}

func (h *PackHandler) examinePack(c *gin.Context, state entity.ExamineState, message string) {
	if c.GetString("role") != "moderator" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Moderator role required"})
		return
	}

	if err := h.packUseCase.ExaminePack(c.Param("id"), state); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *PackHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, entity.ErrPackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pack not found"})
	case errors.Is(err, entity.ErrImageUpload):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Image upload failed"})
	case errors.Is(err, entity.ErrPersistenceConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "A pack with this title already exists"})
	case errors.Is(err, entity.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Pack is not pending review"})
	case errors.Is(err, entity.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *PackHandler) formImage(c *gin.Context, field string) (usecase.ImageFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return usecase.ImageFile{}, err
	}
	return readImage(header)
}

func readImage(header *multipart.FileHeader) (usecase.ImageFile, error) {
	src, err := header.Open()
	if err != nil {
		return usecase.ImageFile{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return usecase.ImageFile{}, err
	}

	return usecase.ImageFile{Filename: header.Filename, Data: data}, nil
}

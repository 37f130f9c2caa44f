package controllers

import (
	"net/http"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/app/services"
	"github.com/emre/educore/internal/middleware"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ContentController handles the polymorphic content endpoints. Text and video
// kinds take a JSON body; image and file kinds take a multipart form with the
// payload as an uploaded file.
type ContentController struct {
	contentService services.ContentService
	storage        filestorage.FileStorage
	logger         zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController(contentService services.ContentService, storage filestorage.FileStorage, logger zerolog.Logger) *ContentController {
	return &ContentController{
		contentService: contentService,
		storage:        storage,
		logger:         logger,
	}
}

// ListContents lists the ordered contents of one of the requester's modules
// @Summary List contents of own module
// @Tags contents
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "Module ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContentListResponse}
// @Failure 404 {object} dto.ErrorResponse "Module not found or owned by someone else"
// @Router /modules/{moduleId}/contents [get]
func (c *ContentController) ListContents(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := parseIDParam(ctx, "moduleId")
	if !ok {
		return
	}

	list, err := c.contentService.ListContents(ctx.Request.Context(), moduleID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: list})
}

// CreateContent creates a new content item and appends it to the module
// @Summary Create content
// @Description Creates an item of the kind named in the path and links it at the end of the module's ordering. The kind set is fixed: text, video, image, file. Unknown kinds 404.
// @Tags contents
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "Module ID"
// @Param kind path string true "Content kind" Enums(text, video, image, file)
// @Success 201 {object} dto.APIResponse{data=dto.ContentResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Module or kind not found"
// @Router /modules/{moduleId}/contents/{kind} [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := parseIDParam(ctx, "moduleId")
	if !ok {
		return
	}

	kindName := ctx.Param("kind")
	req, ok := c.bindContentRequest(ctx, kindName)
	if !ok {
		return
	}

	resp, err := c.contentService.CreateContent(ctx.Request.Context(), moduleID, userID, kindName, req)
	if err != nil {
		c.discardUpload(req)
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// UpdateContent edits an existing content item in place
// @Summary Update content item
// @Description Edits the item's title and payload. The module link and its position are untouched.
// @Tags contents
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param moduleId path int true "Module ID"
// @Param kind path string true "Content kind" Enums(text, video, image, file)
// @Param itemId path int true "Item ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContentResponse}
// @Failure 404 {object} dto.ErrorResponse "Module, kind or item not found"
// @Router /modules/{moduleId}/contents/{kind}/{itemId} [put]
func (c *ContentController) UpdateContent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	moduleID, ok := parseIDParam(ctx, "moduleId")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(ctx, "itemId")
	if !ok {
		return
	}

	kindName := ctx.Param("kind")
	req, ok := c.bindContentRequest(ctx, kindName)
	if !ok {
		return
	}

	resp, err := c.contentService.UpdateContent(ctx.Request.Context(), moduleID, userID, itemID, kindName, req)
	if err != nil {
		c.discardUpload(req)
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// DeleteContent removes a content link together with its item
// @Summary Delete content
// @Description Removes the link and the item it points at in one transaction. For image and file kinds the stored file is removed as well.
// @Tags contents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Content not found or owned by someone else"
// @Router /contents/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.contentService.DeleteContent(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Content deleted"}})
}

// ReorderContents applies a batch of content position assignments
// @Summary Reorder contents
// @Description Takes a map of content id to position. Ids the requester does not own are skipped; the response is always {"saved":"OK"}.
// @Tags contents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]int true "Content id to position map"
// @Success 200 {object} dto.OrderSavedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /contents/order [post]
func (c *ContentController) ReorderContents(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	orders, ok := bindOrderMap(ctx)
	if !ok {
		return
	}

	resp, err := c.contentService.ReorderContents(ctx.Request.Context(), userID, orders)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// bindContentRequest binds the save request for the kind: multipart with an
// uploaded file for image and file kinds, JSON for the rest. The upload is
// stored before the service runs; discardUpload cleans it up if the service
// rejects the request.
func (c *ContentController) bindContentRequest(ctx *gin.Context, kindName string) (*dto.SaveContentRequest, bool) {
	kind, known := models.ParseContentKind(kindName)
	if !known {
		middleware.HandleAPIError(ctx, apperrors.ErrContentKindUnknown)
		return nil, false
	}

	if kind == models.KindImage || kind == models.KindFile {
		var req dto.SaveContentRequest
		req.Title = ctx.PostForm("title")

		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file is required")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return nil, false
		}

		path, err := c.storage.SaveFileWithPath(fileHeader, string(kind)+"s")
		if err != nil {
			c.logger.Error().Err(err).Str("kind", kindName).Msg("Failed to store uploaded file")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to store uploaded file")
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return nil, false
		}
		req.FilePath = path

		if err := middleware.ValidateStruct(&req); err != nil {
			c.discardUpload(&req)
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, middleware.FormatValidationError(err))
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return nil, false
		}
		return &req, true
	}

	var req dto.SaveContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, middleware.FormatValidationError(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &req, true
}

// discardUpload removes a stored upload that never made it into the database.
func (c *ContentController) discardUpload(req *dto.SaveContentRequest) {
	if req == nil || req.FilePath == "" {
		return
	}
	if err := c.storage.DeleteFile(req.FilePath); err != nil {
		c.logger.Warn().Err(err).Str("path", req.FilePath).Msg("Failed to remove orphaned upload")
	}
}

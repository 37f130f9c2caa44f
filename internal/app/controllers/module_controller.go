package controllers

import (
	"net/http"

	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/app/services"
	"github.com/emre/educore/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ModuleController handles the module formset and reorder endpoints.
type ModuleController struct {
	moduleService services.ModuleService
	logger        zerolog.Logger
}

// NewModuleController creates a new ModuleController
func NewModuleController(moduleService services.ModuleService, logger zerolog.Logger) *ModuleController {
	return &ModuleController{
		moduleService: moduleService,
		logger:        logger,
	}
}

// ListModules lists the ordered modules of one of the requester's courses
// @Summary List modules of own course
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.ModuleListResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found or owned by someone else"
// @Router /courses/{id}/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	list, err := c.moduleService.ListModules(ctx.Request.Context(), courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: list})
}

// UpdateModules applies a module formset to one of the requester's courses
// @Summary Save module formset
// @Description Creates, updates and deletes the modules of a course in one atomic batch. Entries without an id are created; entries flagged delete are removed.
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.ModuleFormsetRequest true "Module formset"
// @Success 200 {object} dto.APIResponse{data=dto.ModuleListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found or owned by someone else"
// @Router /courses/{id}/modules [put]
func (c *ModuleController) UpdateModules(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ModuleFormsetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, middleware.FormatValidationError(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	list, err := c.moduleService.UpdateModules(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: list})
}

// ReorderModules applies a batch of module position assignments
// @Summary Reorder modules
// @Description Takes a map of module id to position. Ids the requester does not own are skipped; the response is always {"saved":"OK"}.
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]int true "Module id to position map"
// @Success 200 {object} dto.OrderSavedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /modules/order [post]
func (c *ModuleController) ReorderModules(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	orders, ok := bindOrderMap(ctx)
	if !ok {
		return
	}

	resp, err := c.moduleService.ReorderModules(ctx.Request.Context(), userID, orders)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

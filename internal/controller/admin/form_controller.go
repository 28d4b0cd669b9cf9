package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/service"
	"github.com/rs/zerolog/log"
)

type FormController struct {
	schemaService     service.SchemaService
	activationService service.ActivationService
}

func NewFormController(schemaService service.SchemaService, activationService service.ActivationService) *FormController {
	return &FormController{schemaService: schemaService, activationService: activationService}
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	raw := ctx.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + param + " format"})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Storage errors never leak; conflicts and invariant refusals come back as
// actionable messages.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Not found"})
	case errors.Is(err, service.ErrConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNoQuestions),
		errors.Is(err, service.ErrFormActive),
		errors.Is(err, service.ErrHasInstances),
		errors.Is(err, service.ErrLastQuestion):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("Admin controller: internal error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal error, please retry", Details: []string{err.Error()}})
	}
}

// CreateForm godoc
// @Summary (Admin) Create an evaluation form
// @Description Creates a form for a department and cadence. Without questions, the default set for the cadence is seeded.
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Param form_data body dto.FormCreateDTO true "Form definition"
// @Success 201 {object} dto.FormResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/forms [post]
func (c *FormController) CreateForm(ctx *gin.Context) {
	var req dto.FormCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateForm: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.schemaService.CreateForm(req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListForms godoc
// @Summary (Admin) List all forms
// @Tags Admin - Forms
// @Produce json
// @Success 200 {array} dto.FormSummaryDTO
// @Router /admin/forms [get]
func (c *FormController) ListForms(ctx *gin.Context) {
	forms, err := c.schemaService.ListForms()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, forms)
}

// GetForm godoc
// @Summary (Admin) Get one form with its ordered questions
// @Tags Admin - Forms
// @Produce json
// @Param form_id path int true "Form ID"
// @Success 200 {object} dto.FormResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/forms/{form_id} [get]
func (c *FormController) GetForm(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	resp, err := c.schemaService.GetForm(formID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateForm godoc
// @Summary (Admin) Rename a form
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Param form_id path int true "Form ID"
// @Param form_data body dto.FormUpdateDTO true "Form metadata"
// @Success 200 {object} dto.FormResponseDTO
// @Router /admin/forms/{form_id} [put]
func (c *FormController) UpdateForm(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	var req dto.FormUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.schemaService.UpdateForm(formID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteForm godoc
// @Summary (Admin) Delete an inactive form without dependent instances
// @Tags Admin - Forms
// @Param form_id path int true "Form ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Form is active or has instances"
// @Router /admin/forms/{form_id} [delete]
func (c *FormController) DeleteForm(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	if err := c.schemaService.DeleteForm(formID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary (Admin) Append a question to a form
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Param form_id path int true "Form ID"
// @Param question_data body dto.QuestionCreateDTO true "Question definition"
// @Success 201 {object} dto.QuestionResponseDTO
// @Router /admin/forms/{form_id}/questions [post]
func (c *FormController) AddQuestion(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.schemaService.AddQuestion(formID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Edit a question in place
// @Description Changing the type off a numeric kind clears min/max; choices are replaced wholesale.
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question_data body dto.QuestionUpdateDTO true "Question definition"
// @Success 200 {object} dto.QuestionResponseDTO
// @Router /admin/questions/{question_id} [put]
func (c *FormController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.schemaService.UpdateQuestion(questionID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Description Refused when the owning form is active and would be left empty.
// @Tags Admin - Forms
// @Param question_id path int true "Question ID"
// @Success 204
// @Router /admin/questions/{question_id} [delete]
func (c *FormController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.schemaService.DeleteQuestion(questionID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ReorderQuestion godoc
// @Summary (Admin) Move a question to a new position
// @Description Renumbers the whole sibling sequence atomically, keeping order dense.
// @Tags Admin - Forms
// @Accept json
// @Param question_id path int true "Question ID"
// @Param reorder_data body dto.QuestionReorderDTO true "Target position"
// @Success 204
// @Router /admin/questions/{question_id}/reorder [post]
func (c *FormController) ReorderQuestion(ctx *gin.Context) {
	questionID, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionReorderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.schemaService.ReorderQuestion(questionID, req.Position); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PreviewForm godoc
// @Summary (Admin) Preview a form before activation
// @Description Renders the form's fields read-only and non-required; nothing can be submitted from a preview.
// @Tags Admin - Forms
// @Produce json
// @Param form_id path int true "Form ID"
// @Success 200 {array} form.Field
// @Router /admin/forms/{form_id}/preview [get]
func (c *FormController) PreviewForm(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	fields, err := c.schemaService.PreviewForm(formID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, fields)
}

// ActivateForm godoc
// @Summary (Admin) Activate a form for its department and cadence
// @Description Deactivates any sibling form in the same (department, type) group under row locks. A concurrent activation race surfaces as 409.
// @Tags Admin - Forms
// @Param form_id path int true "Form ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Another form is already active"
// @Router /admin/forms/{form_id}/activate [post]
func (c *FormController) ActivateForm(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	if err := c.activationService.Activate(formID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeactivateForm godoc
// @Summary (Admin) Deactivate a form
// @Tags Admin - Forms
// @Param form_id path int true "Form ID"
// @Success 204
// @Router /admin/forms/{form_id}/deactivate [post]
func (c *FormController) DeactivateForm(ctx *gin.Context) {
	formID, ok := parseID(ctx, "form_id")
	if !ok {
		return
	}
	if err := c.activationService.Deactivate(formID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

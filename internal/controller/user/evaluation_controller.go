package user

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/form"
	"github.com/lshigami/Wombats/internal/middleware"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/lshigami/Wombats/internal/service"
	"github.com/rs/zerolog/log"
)

type EvaluationController struct {
	submissionService service.SubmissionService
	lockService       service.LockService
	metricsService    service.MetricsService
}

func NewEvaluationController(
	submissionService service.SubmissionService,
	lockService service.LockService,
	metricsService service.MetricsService,
) *EvaluationController {
	return &EvaluationController{
		submissionService: submissionService,
		lockService:       lockService,
		metricsService:    metricsService,
	}
}

// ListPending godoc
// @Summary (User) List the evaluator's pending evaluations
// @Description The overdue-resolution screen: everything still waiting on the current evaluator, overdue flagged.
// @Tags User - Evaluations
// @Produce json
// @Success 200 {array} dto.InstanceSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing identity"
// @Router /evaluations/pending [get]
func (c *EvaluationController) ListPending(ctx *gin.Context) {
	evaluatorID, ok := middleware.EmployeeID(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid employee identity"})
		return
	}
	instances, err := c.submissionService.ListPending(evaluatorID, time.Now())
	if err != nil {
		log.Error().Err(err).Uint("evaluatorID", evaluatorID).Msg("User ListPending: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list pending evaluations", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, instances)
}

// GetInstance godoc
// @Summary (User) Get one evaluation with its rendered fields
// @Tags User - Evaluations
// @Produce json
// @Param instance_id path int true "Evaluation instance ID"
// @Success 200 {object} dto.InstanceDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /evaluations/{instance_id} [get]
func (c *EvaluationController) GetInstance(ctx *gin.Context) {
	instanceID, err := strconv.ParseUint(ctx.Param("instance_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid instance ID format"})
		return
	}
	detail, err := c.submissionService.GetInstance(uint(instanceID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Evaluation not found"})
			return
		}
		log.Error().Err(err).Uint64("instanceID", instanceID).Msg("User GetInstance: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load evaluation", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// Submit godoc
// @Summary (User) Submit answers for an evaluation
// @Description Validates and saves all answers in one transaction. Field-level failures reject the save wholesale with a 422.
// @Tags User - Evaluations
// @Accept json
// @Produce json
// @Param instance_id path int true "Evaluation instance ID"
// @Param submission body dto.SubmitDTO true "Submitted answers"
// @Success 200 {object} dto.SubmitResultDTO
// @Failure 422 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /evaluations/{instance_id}/submit [post]
func (c *EvaluationController) Submit(ctx *gin.Context) {
	instanceID, err := strconv.ParseUint(ctx.Param("instance_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid instance ID format"})
		return
	}
	var req dto.SubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User Submit: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.submissionService.Submit(uint(instanceID), req, time.Now())
	if err != nil {
		var verrs form.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]dto.FieldErrorDTO, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, dto.FieldErrorDTO{QuestionID: fe.QuestionID, Message: fe.Message})
			}
			ctx.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Message: "Submission failed validation", Fields: fields})
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Evaluation not found"})
			return
		}
		log.Error().Err(err).Uint64("instanceID", instanceID).Msg("User Submit: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save submission, please retry"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CheckOverdue godoc
// @Summary (User) Check whether an evaluator is locked by overdue evaluations
// @Tags User - Evaluations
// @Produce json
// @Success 200 {object} dto.OverdueDTO
// @Router /evaluations/overdue-check [get]
func (c *EvaluationController) CheckOverdue(ctx *gin.Context) {
	evaluatorID, ok := middleware.EmployeeID(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid employee identity"})
		return
	}
	overdue, err := c.lockService.HasOverdue(evaluatorID, time.Now())
	if err != nil {
		log.Error().Err(err).Uint("evaluatorID", evaluatorID).Msg("User CheckOverdue: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to check overdue state"})
		return
	}
	ctx.JSON(http.StatusOK, dto.OverdueDTO{EvaluatorID: evaluatorID, HasOverdue: overdue})
}

// GetMetrics godoc
// @Summary (User) Aggregated evaluation metrics
// @Description Per-question time series and emoji distributions for a department/evaluatee/evaluator scope and date range. Cache-backed per viewer and day.
// @Tags User - Metrics
// @Produce json
// @Param department_id query int false "Department scope"
// @Param evaluatee_id query int false "Evaluatee scope"
// @Param evaluator_id_scope query int false "Evaluator scope"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.MetricsResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /metrics [get]
func (c *EvaluationController) GetMetrics(ctx *gin.Context) {
	viewerID, ok := middleware.EmployeeID(ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid employee identity"})
		return
	}

	from, err := time.Parse("2006-01-02", ctx.Query("from"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid or missing 'from' date, want YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", ctx.Query("to"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid or missing 'to' date, want YYYY-MM-DD"})
		return
	}

	var scope repository.MetricsScope
	if raw := ctx.Query("department_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid department_id"})
			return
		}
		deptID := uint(id)
		scope.DepartmentID = &deptID
	}
	if raw := ctx.Query("evaluatee_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid evaluatee_id"})
			return
		}
		evaluateeID := uint(id)
		scope.EvaluateeID = &evaluateeID
	}
	if raw := ctx.Query("evaluator_id_scope"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid evaluator_id_scope"})
			return
		}
		evaluatorID := uint(id)
		scope.EvaluatorID = &evaluatorID
	}

	metrics, err := c.metricsService.GetMetrics(viewerID, scope, from, to)
	if err != nil {
		log.Error().Err(err).Uint("viewerID", viewerID).Msg("User GetMetrics: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute metrics", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, metrics)
}

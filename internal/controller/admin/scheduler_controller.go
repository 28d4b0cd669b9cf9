package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/service"
	"github.com/rs/zerolog/log"
)

// SchedulerController exposes the two daily batch passes to the external
// scheduler (a cron entry hitting these endpoints once per calendar day).
type SchedulerController struct {
	schedulerService service.SchedulerService
}

func NewSchedulerController(schedulerService service.SchedulerService) *SchedulerController {
	return &SchedulerController{schedulerService: schedulerService}
}

// batchParams resolves the dry_run flag and the "today" reference. An
// explicit date lets operators re-run a missed day.
func batchParams(ctx *gin.Context) (time.Time, bool, bool) {
	dryRun := ctx.Query("dry_run") == "true"
	today := time.Now()
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid date, want YYYY-MM-DD"})
			return time.Time{}, false, false
		}
		today = parsed
	}
	return today, dryRun, true
}

// RunGeneration godoc
// @Summary (Admin) Run the instance generation pass
// @Description Idempotently stamps out evaluation instances for every active form due today and every evaluator/evaluatee pair. Safe to re-run.
// @Tags Admin - Scheduler
// @Produce json
// @Param dry_run query bool false "Report intended creations without writing"
// @Param date query string false "Override the batch reference date (YYYY-MM-DD)"
// @Success 200 {object} dto.GenerationReportDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/scheduler/generation [post]
func (c *SchedulerController) RunGeneration(ctx *gin.Context) {
	today, dryRun, ok := batchParams(ctx)
	if !ok {
		return
	}
	report, err := c.schedulerService.RunGeneration(today, dryRun)
	if err != nil {
		log.Error().Err(err).Msg("Generation pass failed")
		// Partial progress is still worth reporting to the operator.
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "partial": report})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// RunReminders godoc
// @Summary (Admin) Run the reminder digest pass
// @Description Sends at most one digest per evaluator listing their outstanding evaluatees. Delivery failures are counted, not fatal.
// @Tags Admin - Scheduler
// @Produce json
// @Param dry_run query bool false "Log digests without sending or recording"
// @Param date query string false "Override the batch reference date (YYYY-MM-DD)"
// @Success 200 {object} dto.ReminderReportDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/scheduler/reminders [post]
func (c *SchedulerController) RunReminders(ctx *gin.Context) {
	today, dryRun, ok := batchParams(ctx)
	if !ok {
		return
	}
	report, err := c.schedulerService.RunReminders(today, dryRun)
	if err != nil {
		log.Error().Err(err).Msg("Reminder pass failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "partial": report})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

// ScoringController serves the reviewer-facing score writes and the
// reconciliation views over the whole score ledger.
type ScoringController struct {
	scoringService   service.ScoringService
	dashboardService service.DashboardService
}

func NewScoringController(scoringService service.ScoringService, dashboardService service.DashboardService) *ScoringController {
	return &ScoringController{scoringService: scoringService, dashboardService: dashboardService}
}

// BatchScore godoc
// @Summary (Reviewer) Upsert scores for a batch of answers
// @Description Validates that every referenced answer exists before writing anything. One score row per (answer, reviewer); re-scoring the same answer updates in place. Returns the recomputed per-user totals.
// @Tags Admin - Scoring
// @Accept json
// @Produce json
// @Param request body dto.BatchScoreRequest true "Scores keyed by answer id"
// @Success 200 {array} dto.UserTotalScoreDTO
// @Failure 400 {object} dto.ErrorResponse "Missing answer ids, all enumerated"
// @Security BearerAuth
// @Router /admin/scores/batch [post]
func (ctl *ScoringController) BatchScore(c *gin.Context) {
	var req dto.BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	reviewerID := middleware.UserID(c)
	result, err := ctl.scoringService.BatchUpsertScores(c.Request.Context(), reviewerID, req)
	if err != nil {
		log.Error().Err(err).Uint("reviewer_id", reviewerID).Msg("BatchScore failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BatchUpdate godoc
// @Summary (Reviewer) Update existing scores only
// @Description Strict variant for fixing already-submitted scores. Every answer must belong to the given user and already carry a score from the acting reviewer, otherwise nothing is written.
// @Tags Admin - Scoring
// @Accept json
// @Produce json
// @Param request body dto.BatchUpdateOnlyRequest true "Target user and score updates"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/scores/batch-update [put]
func (ctl *ScoringController) BatchUpdate(c *gin.Context) {
	var req dto.BatchUpdateOnlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	reviewerID := middleware.UserID(c)
	if err := ctl.scoringService.BatchUpdateOnly(c.Request.Context(), reviewerID, req); err != nil {
		log.Error().Err(err).Uint("reviewer_id", reviewerID).Msg("BatchUpdate failed")
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnscoredByUser godoc
// @Summary (Reviewer) List a user's answers that have no score yet
// @Tags Admin - Scoring
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} dto.UnscoredAnswerDTO
// @Security BearerAuth
// @Router /admin/users/{id}/answers/unscored [get]
func (ctl *ScoringController) UnscoredByUser(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ctl.dashboardService.UnscoredAnswersByUser(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ScoredByUser godoc
// @Summary (Reviewer) List a user's scored answers with per-reviewer detail
// @Tags Admin - Scoring
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} dto.ScoredAnswerDTO
// @Security BearerAuth
// @Router /admin/users/{id}/answers/scored [get]
func (ctl *ScoringController) ScoredByUser(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ctl.dashboardService.ScoredAnswersByUser(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ReviewerSummary godoc
// @Summary (Admin) Per-reviewer activity summary
// @Description Reviewers ordered by the number of answers they have scored, with the time of their latest score.
// @Tags Admin - Scoring
// @Produce json
// @Success 200 {array} dto.ReviewerSummaryDTO
// @Security BearerAuth
// @Router /admin/reviewers/summary [get]
func (ctl *ScoringController) ReviewerSummary(c *gin.Context) {
	result, err := ctl.dashboardService.ReviewerSummary(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UserTotals godoc
// @Summary (Admin) Per-user score totals across all reviewers
// @Tags Admin - Scoring
// @Produce json
// @Success 200 {array} dto.UserTotalScoreDTO
// @Security BearerAuth
// @Router /admin/scores/totals [get]
func (ctl *ScoringController) UserTotals(c *gin.Context) {
	result, err := ctl.dashboardService.UserTotalScores(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UsersWithUnscored godoc
// @Summary (Admin) Users who still have unscored answers
// @Tags Admin - Scoring
// @Produce json
// @Success 200 {array} dto.UserWithUnscoredDTO
// @Security BearerAuth
// @Router /admin/users/unscored [get]
func (ctl *ScoringController) UsersWithUnscored(c *gin.Context) {
	result, err := ctl.dashboardService.UsersWithUnscoredAnswers(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UsersScoredStatus godoc
// @Summary (Admin) Split every answering user into scored and not-yet-scored panes
// @Tags Admin - Scoring
// @Produce json
// @Success 200 {object} dto.UsersScoredStatusDTO
// @Security BearerAuth
// @Router /admin/users/scored-status [get]
func (ctl *ScoringController) UsersScoredStatus(c *gin.Context) {
	result, err := ctl.dashboardService.UsersScoredStatus(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

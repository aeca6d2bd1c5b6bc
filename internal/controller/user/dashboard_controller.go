package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
)

type DashboardController struct {
	assignmentService service.AssignmentService
	dashboardService  service.DashboardService
}

func NewDashboardController(assignmentService service.AssignmentService, dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{assignmentService: assignmentService, dashboardService: dashboardService}
}

// MyAssignments godoc
// @Summary List my pending assignments
// @Description Active assignments whose question still has unanswered items for me. Each entry lists only the items I have not answered yet; fully answered assignments are excluded.
// @Tags Dashboard
// @Produce json
// @Success 200 {array} dto.PendingAssignmentDTO
// @Security BearerAuth
// @Router /me/assignments [get]
func (ctl *DashboardController) MyAssignments(c *gin.Context) {
	result, err := ctl.assignmentService.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MyMetrics godoc
// @Summary My dashboard metrics
// @Description Personal counters for everyone, plus system-wide totals gated by the caller's role flags.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardDTO
// @Security BearerAuth
// @Router /me/dashboard [get]
func (ctl *DashboardController) MyMetrics(c *gin.Context) {
	result, err := ctl.dashboardService.MyMetrics(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type AssignmentController struct {
	assignmentService service.AssignmentService
}

func NewAssignmentController(assignmentService service.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// BulkAssign godoc
// @Summary (Admin) Assign questions to users in bulk
// @Description Expands the cross-product of question ids x user ids and ensures an active assignment exists for each pair. Already-active pairs are left untouched, deactivated pairs are reactivated.
// @Tags Admin - Assignments
// @Accept json
// @Produce json
// @Param request body dto.BulkAssignRequest true "Question ids and user ids to cross"
// @Success 200 {object} dto.BulkAssignResult
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unknown ids"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/assignments/bulk [post]
func (ctl *AssignmentController) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.assignmentService.BulkAssign(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("BulkAssign failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Activate godoc
// @Summary (Admin) Reactivate an assignment
// @Tags Admin - Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/assignments/{id}/activate [post]
func (ctl *AssignmentController) Activate(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.assignmentService.Activate(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Deactivate godoc
// @Summary (Admin) Deactivate an assignment
// @Description The assignment row survives but no longer counts as pending work for the user.
// @Tags Admin - Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/assignments/{id}/deactivate [post]
func (ctl *AssignmentController) Deactivate(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.assignmentService.Deactivate(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAll godoc
// @Summary (Admin) List all assignments
// @Tags Admin - Assignments
// @Produce json
// @Success 200 {array} dto.AssignmentDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/assignments [get]
func (ctl *AssignmentController) ListAll(c *gin.Context) {
	result, err := ctl.assignmentService.ListAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("ListAll assignments failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByQuestion godoc
// @Summary (Admin) List users assigned to a question
// @Tags Admin - Assignments
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionAssigneesDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id}/assignees [get]
func (ctl *AssignmentController) ListByQuestion(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ctl.assignmentService.ListByQuestion(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

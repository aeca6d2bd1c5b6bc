package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// Create godoc
// @Summary (Admin) Create a question with its items
// @Description Creates a question together with at least one item. Item types are text, single_choice, multi_choice, number or date.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateDTO true "Question with items"
// @Success 201 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions [post]
func (ctl *QuestionController) Create(c *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Create question: failed to bind JSON")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.questionService.Create(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Create question failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Get godoc
// @Summary (Admin) Get a question by id
// @Tags Admin - Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [get]
func (ctl *QuestionController) Get(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ctl.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List godoc
// @Summary (Admin) List all questions with their items
// @Tags Admin - Questions
// @Produce json
// @Success 200 {array} dto.QuestionDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions [get]
func (ctl *QuestionController) List(c *gin.Context) {
	result, err := ctl.questionService.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("List questions failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary (Admin) Update a question and reconcile its items
// @Description Items with a matching id are updated, items without an id are created, stored items missing from the request are deleted. Unknown item ids fail the whole request and are all listed in the response.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "Updated question with full item list"
// @Success 200 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown item ids, all enumerated"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [put]
func (ctl *QuestionController) Update(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.questionService.Update(c.Request.Context(), id, req)
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("Update question failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete godoc
// @Summary (Admin) Delete a question and its items
// @Tags Admin - Questions
// @Param id path int true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [delete]
func (ctl *QuestionController) Delete(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.questionService.Delete(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type AnswerController struct {
	answerService service.AnswerService
}

func NewAnswerController(answerService service.AnswerService) *AnswerController {
	return &AnswerController{answerService: answerService}
}

// Submit godoc
// @Summary Submit answers in batch
// @Description Upserts one answer per (question, item) tuple for the acting user. Resubmitting a tuple replaces its value. The whole batch is atomic.
// @Tags Answers
// @Accept json
// @Produce json
// @Param request body dto.BatchSubmitRequest true "Answer tuples"
// @Success 200 {array} dto.AnswerDTO
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /answers/batch [post]
func (ctl *AnswerController) Submit(c *gin.Context) {
	var req dto.BatchSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	userID := middleware.UserID(c)
	result, err := ctl.answerService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("Submit answers failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary Update one of my answers
// @Tags Answers
// @Accept json
// @Produce json
// @Param id path int true "Answer ID"
// @Param request body dto.AnswerUpdateDTO true "New value"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Not found or not owned by the caller"
// @Security BearerAuth
// @Router /answers/{id} [put]
func (ctl *AnswerController) Update(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AnswerUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctl.answerService.Update(c.Request.Context(), middleware.UserID(c), id, req.Value); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete one of my answers
// @Description Soft deletes the answer. Its tuple becomes free for resubmission; scores attached to it stop appearing in every view.
// @Tags Answers
// @Param id path int true "Answer ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /answers/{id} [delete]
func (ctl *AnswerController) Delete(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.answerService.SoftDelete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AttachFile godoc
// @Summary Attach an uploaded file to one of my answers
// @Tags Answers
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Answer ID"
// @Param file formData file true "File to attach"
// @Success 201 {object} dto.AnswerFileDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /answers/{id}/files [post]
func (ctl *AnswerController) AttachFile(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file form field is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "cannot read uploaded file"})
		return
	}
	defer f.Close()

	userID := middleware.UserID(c)
	result, err := ctl.answerService.AttachFile(c.Request.Context(), userID, id, header.Filename, f, header.Header.Get("Content-Type"))
	if err != nil {
		log.Error().Err(err).Uint("answer_id", id).Msg("AttachFile failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DetachFile godoc
// @Summary Detach a file from one of my answers
// @Description Removes the link; when no other answer references the underlying blob it is deleted from storage as well.
// @Tags Answers
// @Param id path int true "Answer file link ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Storage failure, nothing was removed"
// @Security BearerAuth
// @Router /answers/files/{id} [delete]
func (ctl *AnswerController) DetachFile(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.answerService.DetachFile(c.Request.Context(), middleware.UserID(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMine godoc
// @Summary List my answers with item text and attachments
// @Tags Answers
// @Produce json
// @Success 200 {array} dto.AnswerDTO
// @Security BearerAuth
// @Router /answers [get]
func (ctl *AnswerController) ListMine(c *gin.Context) {
	result, err := ctl.answerService.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

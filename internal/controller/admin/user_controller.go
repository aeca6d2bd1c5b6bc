package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Create godoc
// @Summary (Admin) Create a user
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateDTO true "User data"
// @Success 201 {object} dto.UserDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "User name taken"
// @Security BearerAuth
// @Router /admin/users [post]
func (ctl *UserController) Create(c *gin.Context) {
	var req dto.UserCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.userService.Create(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("user_name", req.UserName).Msg("Create user failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Get godoc
// @Summary (Admin) Get a user by id
// @Tags Admin - Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (ctl *UserController) Get(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := ctl.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List godoc
// @Summary (Admin) List all users
// @Tags Admin - Users
// @Produce json
// @Success 200 {array} dto.UserDTO
// @Security BearerAuth
// @Router /admin/users [get]
func (ctl *UserController) List(c *gin.Context) {
	result, err := ctl.userService.List(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary (Admin) Update a user's profile, role and active flag
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body dto.UserUpdateDTO true "Updated user data"
// @Success 200 {object} dto.UserDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (ctl *UserController) Update(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UserUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete godoc
// @Summary (Admin) Delete a user
// @Tags Admin - Users
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (ctl *UserController) Delete(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.userService.Delete(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

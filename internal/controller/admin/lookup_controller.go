package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/controller"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type LookupController struct {
	lookupService service.LookupService
}

func NewLookupController(lookupService service.LookupService) *LookupController {
	return &LookupController{lookupService: lookupService}
}

// Create godoc
// @Summary (Admin) Create a lookup
// @Tags Admin - Lookups
// @Accept json
// @Produce json
// @Param lookup body dto.LookupCreateDTO true "Lookup data"
// @Success 201 {object} dto.LookupDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Duplicate code or (type, name)"
// @Security BearerAuth
// @Router /admin/lookups [post]
func (ctl *LookupController) Create(c *gin.Context) {
	var req dto.LookupCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.lookupService.Create(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("code", req.Code).Msg("Create lookup failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Get godoc
// @Summary (Admin) Get a lookup by code with its sublookups
// @Tags Admin - Lookups
// @Produce json
// @Param code path string true "Lookup code"
// @Success 200 {object} dto.LookupDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/lookups/{code} [get]
func (ctl *LookupController) Get(c *gin.Context) {
	result, err := ctl.lookupService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List godoc
// @Summary (Admin) List all lookups with sublookups
// @Tags Admin - Lookups
// @Produce json
// @Success 200 {array} dto.LookupDTO
// @Security BearerAuth
// @Router /admin/lookups [get]
func (ctl *LookupController) List(c *gin.Context) {
	result, err := ctl.lookupService.List(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary (Admin) Update a lookup
// @Tags Admin - Lookups
// @Accept json
// @Produce json
// @Param code path string true "Lookup code"
// @Param lookup body dto.LookupUpdateDTO true "Updated lookup data"
// @Success 200 {object} dto.LookupDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/lookups/{code} [put]
func (ctl *LookupController) Update(c *gin.Context) {
	var req dto.LookupUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.lookupService.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete godoc
// @Summary (Admin) Delete a lookup
// @Description Refused while the lookup still has sublookups.
// @Tags Admin - Lookups
// @Param code path string true "Lookup code"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Lookup still has sublookups"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/lookups/{code} [delete]
func (ctl *LookupController) Delete(c *gin.Context) {
	if err := ctl.lookupService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSub godoc
// @Summary (Admin) Add a sublookup under a lookup
// @Tags Admin - Lookups
// @Accept json
// @Produce json
// @Param code path string true "Parent lookup code"
// @Param sublookup body dto.SubLookupCreateDTO true "Sublookup data"
// @Success 201 {object} dto.SubLookupDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/lookups/{code}/sublookups [post]
func (ctl *LookupController) AddSub(c *gin.Context) {
	var req dto.SubLookupCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.lookupService.AddSub(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateSub godoc
// @Summary (Admin) Rename a sublookup
// @Tags Admin - Lookups
// @Accept json
// @Produce json
// @Param id path int true "Sublookup ID"
// @Param sublookup body dto.SubLookupUpdateDTO true "Updated sublookup data"
// @Success 200 {object} dto.SubLookupDTO
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/sublookups/{id} [put]
func (ctl *LookupController) UpdateSub(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubLookupUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.lookupService.UpdateSub(c.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteSub godoc
// @Summary (Admin) Delete a sublookup
// @Tags Admin - Lookups
// @Param id path int true "Sublookup ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/sublookups/{id} [delete]
func (ctl *LookupController) DeleteSub(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.lookupService.DeleteSub(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

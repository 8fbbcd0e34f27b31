package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrganisationHandler struct {
	orgService service.OrganisationService
}

// NewOrganisationHandler sets up the routing dependencies for Organisation endpoints
func NewOrganisationHandler(orgService service.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{orgService: orgService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *OrganisationHandler) RegisterRoutes(router *gin.RouterGroup) {
	orgs := router.Group("/organisations")
	{
		orgs.GET("", h.ListOrganisations)
		orgs.GET("/:id", h.GetOrganisation)
		orgs.POST("", h.CreateOrganisation)
		orgs.PUT("/:id", h.UpdateOrganisation)
		orgs.DELETE("/:id", h.DeleteOrganisation)
	}
}

// CreateOrganisation handles POST /organisations
// @Summary      Create an organisation
// @Description  Creates an organisation owned by an existing user
// @Tags         organisations
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrganisationRequest  true  "Create Organisation Payload"
// @Success      201      {object}  response.Response{data=service.OrganisationResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /organisations [post]
func (h *OrganisationHandler) CreateOrganisation(c *gin.Context) {
	var req service.CreateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	org, err := h.orgService.CreateOrganisation(c.Request.Context(), req)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, org))
}

// GetOrganisation handles GET /organisations/:id
// @Summary      Get organisation by ID
// @Tags         organisations
// @Produce      json
// @Param        id   path      string  true  "Organisation ID"
// @Success      200  {object}  response.Response{data=service.OrganisationResponse}
// @Failure      404  {object}  response.Response
// @Router       /organisations/{id} [get]
func (h *OrganisationHandler) GetOrganisation(c *gin.Context) {
	org, err := h.orgService.GetOrganisation(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, org))
}

// ListOrganisations handles GET /organisations
// @Summary      List organisations
// @Tags         organisations
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /organisations [get]
func (h *OrganisationHandler) ListOrganisations(c *gin.Context) {
	params := pagination.Parse(c)

	orgs, total, err := h.orgService.ListOrganisations(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch organisations"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"organisations": orgs,
		"total":         total,
		"page":          params.Page,
		"limit":         params.Limit,
	}))
}

// UpdateOrganisation handles PUT /organisations/:id
// @Summary      Update an organisation
// @Tags         organisations
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Organisation ID"
// @Param        payload  body      service.UpdateOrganisationRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.OrganisationResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /organisations/{id} [put]
func (h *OrganisationHandler) UpdateOrganisation(c *gin.Context) {
	var req service.UpdateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	org, err := h.orgService.UpdateOrganisation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, org))
}

// DeleteOrganisation handles DELETE /organisations/:id
// @Summary      Delete an organisation
// @Tags         organisations
// @Produce      json
// @Param        id   path      string  true  "Organisation ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /organisations/{id} [delete]
func (h *OrganisationHandler) DeleteOrganisation(c *gin.Context) {
	if err := h.orgService.DeleteOrganisation(c.Request.Context(), c.Param("id")); err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}

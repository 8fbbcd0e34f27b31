package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler sets up the routing dependencies for UserProfile endpoints
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/profiles")
	{
		profiles.POST("", h.CreateProfile)
		profiles.GET("/user/:id", h.GetProfileByUser)
		profiles.PATCH("/:id", h.UpdateProfile)
		profiles.DELETE("/:id", h.DeleteProfile)
	}
}

// CreateProfile handles POST /profiles
// @Summary      Create a user profile
// @Description  Attaches a profile to an active user; one profile per user
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProfileRequest  true  "Create Profile Payload"
// @Success      201      {object}  response.Response{data=service.ProfileResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req service.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), req)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, profile))
}

// GetProfileByUser handles GET /profiles/user/:id
// @Summary      Get the profile of a user
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      404  {object}  response.Response
// @Router       /profiles/user/{id} [get]
func (h *ProfileHandler) GetProfileByUser(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UpdateProfile handles PATCH /profiles/:id
// @Summary      Update a profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Profile ID"
// @Param        payload  body      service.UpdateProfileRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.ProfileResponse}
// @Failure      404      {object}  response.Response
// @Router       /profiles/{id} [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// DeleteProfile handles DELETE /profiles/:id
// @Summary      Delete a profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.profileService.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}

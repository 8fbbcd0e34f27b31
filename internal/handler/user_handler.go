package handler

import (
	"net/http"
	"strconv"

	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// EmailRequest carries the email key of the email-addressed lifecycle endpoints
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is a partial field-merge keyed by email
type UpdateUserRequest struct {
	Email  string                 `json:"email" binding:"required,email"`
	Fields map[string]interface{} `json:"fields" binding:"required"`
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.POST("/superuser", h.CreateSuperuser)
		users.POST("/activate", h.ActivateUser)
		users.POST("/deactivate", h.DeactivateUser)
		users.PATCH("", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// CreateUser handles POST /users requests
// @Summary      Create a new user
// @Description  Creates a new user validating constraints and hashing the password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "Create User Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// CreateSuperuser handles POST /users/superuser
// @Summary      Create a superuser
// @Description  Creates a user with staff and superuser privileges enabled
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "Create Superuser Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /users/superuser [post]
func (h *UserHandler) CreateSuperuser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.CreateSuperuser(c.Request.Context(), req)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// ActivateUser handles POST /users/activate
// @Summary      Activate a user
// @Description  Sets the active flag of the user addressed by email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      EmailRequest  true  "User Email"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /users/activate [post]
func (h *UserHandler) ActivateUser(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateUser handles POST /users/deactivate
// @Summary      Deactivate a user
// @Description  Clears the active flag of the user addressed by email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      EmailRequest  true  "User Email"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /users/deactivate [post]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	var err error
	if active {
		err = h.userService.ActivateUser(c.Request.Context(), req.Email)
	} else {
		err = h.userService.DeactivateUser(c.Request.Context(), req.Email)
	}
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"email": req.Email, "is_active": active}))
}

// UpdateUser handles PATCH /users, a partial field-merge keyed by email
// @Summary      Update a user
// @Description  Applies the named fields to the user; unknown field names are rejected
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      UpdateUserRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /users [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), req.Email, req.Fields)
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ListUsers handles GET /users with pagination and admin filters
// @Summary      List users
// @Description  Retrieves a paginated list of users, optionally filtered by active flag, role and station
// @Tags         users
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Param        is_active query     bool    false  "Filter by active flag"
// @Param        role_id   query     string  false  "Filter by role id"
// @Param        station   query     string  false  "Filter by station code (WH, SP)"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c)

	var filter repository.UserFilter
	if raw, ok := c.GetQuery("is_active"); ok {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	if raw, ok := c.GetQuery("role_id"); ok {
		if roleID, err := uuid.Parse(raw); err == nil {
			filter.RoleID = &roleID
		}
	}
	filter.Station = c.Query("station")

	users, total, err := h.userService.ListUsers(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch users"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetUserByID handles GET /users/:id
// @Summary      Get user by ID
// @Description  Fetch a single user's detail by their UUID
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser handles DELETE /users/:id
// @Summary      Delete user
// @Description  Removes the user, its profile and any organisation it owns
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		code := statusFor(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}

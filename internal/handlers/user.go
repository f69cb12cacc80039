package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Adarsh-yadav-ui/Sangeet/internal/auth"
	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/dto"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the current-user and user-listing endpoints.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	u, err := h.svc.Current(c.Request.Context(), principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not registered"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(*u))
}

// SyncMe godoc
// @Summary      Store the current user if not stored yet
// @Tags         users
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /me/sync [post]
func (h *UserHandler) SyncMe(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	u, err := h.svc.EnsureStored(c.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// List godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  dto.ListUsersResponse
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Items: usersToResponses(list)})
}

// Recent godoc
// @Summary      Newest users (landing page)
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.ListUsersResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/recent [get]
func (h *UserHandler) Recent(c *gin.Context) {
	list, err := h.svc.Recent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Items: usersToResponses(list)})
}

// GetByID godoc
// @Summary      Get a user by internal ID
// @Tags         users
// @Produce      json
// @Security     SessionAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		ClerkUserID: u.ClerkUserID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		ImageURL:    u.ImageURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func usersToResponses(list []dom.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, userToResponse(u))
	}
	return out
}

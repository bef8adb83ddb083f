package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/internal/middleware"
	"github.com/donovan-vargas/recipe-app-api/internal/service"
)

// UserHandler exposes registration, token and profile endpoints.
type UserHandler struct {
	users  *service.UserService
	tokens *service.TokenService
	log    zerolog.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users *service.UserService, tokens *service.TokenService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, log: log}
}

// RegisterRoutes mounts the user endpoints on the given group.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create", h.Create)
	router.POST("/token", h.CreateToken)
	router.DELETE("/token", middleware.Auth(h.tokens), h.RevokeToken)

	me := router.Group("/me")
	me.Use(middleware.Auth(h.tokens))
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
	}
}

// Create registers a new user. The password never appears in the response.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// CreateToken exchanges credentials for a session token. Bad credentials
// yield 400 with no token field.
func (h *UserHandler) CreateToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.IssueToken(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// RevokeToken logs the caller out by invalidating the presented token.
func (h *UserHandler) RevokeToken(c *gin.Context) {
	if err := h.tokens.RevokeToken(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, newMeResponse(middleware.CurrentUser(c)))
}

// UpdateMe partially updates name and password.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	updated, err := h.users.UpdateUser(c.Request.Context(), user.ID, service.UserUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newMeResponse(updated))
}

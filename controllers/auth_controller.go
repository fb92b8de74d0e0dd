package controllers

import (
	"net/http"

	"hotel-pms/middleware"
	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=owner manager receptionist storekeeper housekeeper guest"`
}

type AuthController struct {
	Auth  *services.AuthService
	Users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{Auth: auth, Users: users}
}

func (ac *AuthController) Token(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := ac.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ac.Users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) Me(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}
	c.JSON(http.StatusOK, caller)
}

// CreateUser is the staff-managed path. Only an owner may hand out the owner role.
func (ac *AuthController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	role := models.Role(req.Role)
	caller, _ := middleware.CallerFrom(c)
	if role == models.RoleOwner && (caller == nil || caller.Role != models.RoleOwner) {
		respondError(c, services.ErrForbidden)
		return
	}
	user, err := ac.Users.CreateUser(c.Request.Context(), services.UserInput{
		Email: req.Email, Password: req.Password, Role: role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) ListEmployees(c *gin.Context) {
	users, err := ac.Users.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

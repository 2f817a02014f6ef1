package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"careers/internal/pkg/response"
	"careers/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("admin login: %v", err)
		response.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

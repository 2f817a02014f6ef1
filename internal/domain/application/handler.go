package application

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careers/internal/pkg/response"
	"careers/internal/pkg/validator"
)

// Handler exposes the application endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit handles POST /api/applications (public).
// Multipart form: name, email, phone, position, cover_letter plus file
// slots resume (1), cover_letter_file (<=1), additional_docs (<=3).
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid form data")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	files, err := collectFiles(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.service.Submit(c.Request.Context(), &req, files)
	if err != nil {
		switch {
		case errors.Is(err, ErrResumeRequired),
			errors.Is(err, ErrFileTooLarge),
			errors.Is(err, ErrFileTypeNotAllowed),
			errors.Is(err, ErrTooManyAdditional):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("submit application: %v", err)
			response.Error(c, http.StatusInternalServerError, "Failed to submit application")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      app.ID,
		"message": "Application submitted successfully",
	})
}

// List handles GET /api/applications (admin).
// Optional query params: status, position, search, limit, offset.
func (h *Handler) List(c *gin.Context) {
	var filter ListFilter

	if s := c.Query("status"); s != "" {
		status := Status(s)
		if !status.Valid() {
			response.Error(c, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = &status
	}
	filter.Position = c.Query("position")
	filter.Search = c.Query("search")

	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			filter.Limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v > 0 {
			filter.Offset = v
		}
	}

	apps, _, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("list applications: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}

	c.JSON(http.StatusOK, apps)
}

// GetByID handles GET /api/applications/:id (admin).
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	app, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			response.Error(c, http.StatusNotFound, "Application not found")
			return
		}
		log.Printf("get application %d: %v", id, err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch application")
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateStatus handles PATCH /api/applications/:id/status (admin).
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid status")
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, ErrApplicationNotFound):
			response.Error(c, http.StatusNotFound, "Application not found")
		default:
			log.Printf("update application %d status: %v", id, err)
			response.Error(c, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	c.JSON(http.StatusOK, app)
}

// Delete handles DELETE /api/applications/:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			response.Error(c, http.StatusNotFound, "Application not found")
			return
		}
		log.Printf("delete application %d: %v", id, err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete application")
		return
	}

	response.Message(c, http.StatusOK, "Application deleted successfully")
}

// Stats handles GET /api/applications/stats (admin).
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		log.Printf("application stats: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func collectFiles(c *gin.Context) (SubmittedFiles, error) {
	var files SubmittedFiles

	form, err := c.MultipartForm()
	if err != nil {
		// Text-only body: the service rejects it as missing the resume.
		return files, nil
	}

	if fhs := form.File["resume"]; len(fhs) > 0 {
		if len(fhs) > 1 {
			return files, ErrDuplicateFileSlot
		}
		files.Resume = fhs[0]
	}
	if fhs := form.File["cover_letter_file"]; len(fhs) > 0 {
		if len(fhs) > 1 {
			return files, ErrDuplicateFileSlot
		}
		files.CoverLetter = fhs[0]
	}
	files.AdditionalDocs = form.File["additional_docs"]

	return files, nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid application ID")
		return 0, false
	}
	return id, true
}

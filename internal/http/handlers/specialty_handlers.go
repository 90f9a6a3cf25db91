package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// SpecialtyHandlers serves specialty management.
type SpecialtyHandlers struct {
	specialtySvc domain.SpecialtyService
}

// NewSpecialtyHandlers creates specialty handlers
func NewSpecialtyHandlers(specialtySvc domain.SpecialtyService) *SpecialtyHandlers {
	return &SpecialtyHandlers{specialtySvc: specialtySvc}
}

type createSpecialtyRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=255"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Create handles POST /specialty
func (h *SpecialtyHandlers) Create(c *gin.Context) {
	var req createSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	specialty, err := h.specialtySvc.Create(c.Request.Context(), &domain.Specialty{
		Title:       req.Title,
		Icon:        req.Icon,
		Description: req.Description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "specialty created", specialty)
}

// GetAll handles GET /specialty
func (h *SpecialtyHandlers) GetAll(c *gin.Context) {
	specialties, err := h.specialtySvc.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "specialties retrieved", specialties)
}

// Delete handles DELETE /specialty/:id
func (h *SpecialtyHandlers) Delete(c *gin.Context) {
	if err := h.specialtySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "specialty deleted", nil)
}

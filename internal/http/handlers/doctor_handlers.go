package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// DoctorHandlers serves doctor profile management.
type DoctorHandlers struct {
	doctorSvc domain.DoctorService
}

// NewDoctorHandlers creates doctor handlers
func NewDoctorHandlers(doctorSvc domain.DoctorService) *DoctorHandlers {
	return &DoctorHandlers{doctorSvc: doctorSvc}
}

type updateDoctorRequest struct {
	Name                *string                  `json:"name"`
	ContactNumber       *string                  `json:"contactNumber"`
	Address             *string                  `json:"address"`
	Experience          *int                     `json:"experience"`
	AppointmentFee      *int                     `json:"appointmentFee"`
	CurrentWorkingPlace *string                  `json:"currentWorkingPlace"`
	Designation         *string                  `json:"designation"`
	Specialties         []domain.SpecialtyChange `json:"specialties"`
}

// GetAll handles GET /doctor
func (h *DoctorHandlers) GetAll(c *gin.Context) {
	doctors, err := h.doctorSvc.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "doctors retrieved", doctors)
}

// GetByID handles GET /doctor/:id
func (h *DoctorHandlers) GetByID(c *gin.Context) {
	doctor, err := h.doctorSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "doctor retrieved", doctor)
}

// Update handles PATCH /doctor/:id
func (h *DoctorHandlers) Update(c *gin.Context) {
	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	doctor, err := h.doctorSvc.Update(c.Request.Context(), c.Param("id"), &domain.UpdateDoctorPayload{
		Doctor: &domain.DoctorUpdate{
			Name:                req.Name,
			ContactNumber:       req.ContactNumber,
			Address:             req.Address,
			Experience:          req.Experience,
			AppointmentFee:      req.AppointmentFee,
			CurrentWorkingPlace: req.CurrentWorkingPlace,
			Designation:         req.Designation,
		},
		Specialties: req.Specialties,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "doctor updated", doctor)
}

// Delete handles DELETE /doctor/:id
func (h *DoctorHandlers) Delete(c *gin.Context) {
	if err := h.doctorSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "doctor deleted", nil)
}

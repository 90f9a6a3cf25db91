package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// UserHandlers serves admin-driven account provisioning.
type UserHandlers struct {
	userSvc domain.UserService
}

// NewUserHandlers creates user handlers
func NewUserHandlers(userSvc domain.UserService) *UserHandlers {
	return &UserHandlers{userSvc: userSvc}
}

type createDoctorRequest struct {
	Password string `json:"password" binding:"required,min=8,max=128"`
	Doctor   struct {
		Name                string   `json:"name" binding:"required"`
		Email               string   `json:"email" binding:"required,email"`
		ContactNumber       string   `json:"contactNumber" binding:"required"`
		Address             string   `json:"address"`
		RegistrationNumber  string   `json:"registrationNumber" binding:"required"`
		Experience          int      `json:"experience"`
		Gender              string   `json:"gender" binding:"required,oneof=MALE FEMALE"`
		AppointmentFee      int      `json:"appointmentFee" binding:"required"`
		CurrentWorkingPlace string   `json:"currentWorkingPlace"`
		Designation         string   `json:"designation"`
		Specialties         []string `json:"specialties"`
	} `json:"doctor" binding:"required"`
}

// CreateDoctor handles POST /user/create-doctor
func (h *UserHandlers) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	doctor, err := h.userSvc.CreateDoctor(c.Request.Context(), &domain.CreateDoctorPayload{
		Password:            req.Password,
		Name:                req.Doctor.Name,
		Email:               req.Doctor.Email,
		ContactNumber:       req.Doctor.ContactNumber,
		Address:             req.Doctor.Address,
		RegistrationNumber:  req.Doctor.RegistrationNumber,
		Experience:          req.Doctor.Experience,
		Gender:              req.Doctor.Gender,
		AppointmentFee:      req.Doctor.AppointmentFee,
		CurrentWorkingPlace: req.Doctor.CurrentWorkingPlace,
		Designation:         req.Doctor.Designation,
		Specialties:         req.Doctor.Specialties,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "doctor created", doctor)
}

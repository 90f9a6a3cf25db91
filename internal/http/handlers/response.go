package handlers

import "github.com/gin-gonic/gin"

// Envelope is the success response shape for the whole API.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// UserView is the outward user representation. The password hash
// never leaves the service.
type UserView struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	Status             string `json:"status"`
	EmailVerified      bool   `json:"emailVerified"`
	NeedPasswordChange bool   `json:"needPasswordChange"`
	CreatedAt          string `json:"createdAt"`
}

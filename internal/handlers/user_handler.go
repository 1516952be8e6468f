package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) ListUsers(c *gin.Context) error {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", users)
}

func (h *Handler) GetUser(c *gin.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", user)
}

func (h *Handler) ToggleUserStatus(c *gin.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.Users.ToggleActive(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated user status.", user)
}

func (h *Handler) Onboard(c *gin.Context) error {
	var req services.OnboardingInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.Users.Onboard(c.Request.Context(), caller(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", user)
}

// UpdateProfile takes a multipart form; "image" replaces the profile photo.
func (h *Handler) UpdateProfile(c *gin.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	var req services.ProfilePatch
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.Users.UpdateProfile(c.Request.Context(), caller(c), id, req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", user)
}

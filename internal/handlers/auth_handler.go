package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/patientng/patient-api/internal/services"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" label:"Refresh token"`
}

func (h *Handler) Signup(c *gin.Context) error {
	var req services.SignupInput
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, err := h.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", sess)
}

func (h *Handler) Login(c *gin.Context) error {
	var req services.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		return err
	}
	glog.V(1).Infof("login: user %s", sess.User.ID.Hex())
	return respond(c, http.StatusOK, "Successful.", sess)
}

func (h *Handler) RefreshToken(c *gin.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tokens, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", tokens)
}

func (h *Handler) Logout(c *gin.Context) error {
	if err := h.Auth.Logout(c.Request.Context(), caller(c).ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully logged out.", nil)
}

// GetCurrentUser returns the caller's own profile.
func (h *Handler) GetCurrentUser(c *gin.Context) error {
	return respond(c, http.StatusOK, "Successful.", caller(c))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) CreateAdvocacy(c *gin.Context) error {
	var req services.AdvocacyInput
	if err := bind(c, &req); err != nil {
		return err
	}
	adv, err := h.Advocacy.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created advocacy.", adv)
}

func (h *Handler) UpdateAdvocacy(c *gin.Context) error {
	id, err := pathID(c, "advocacy")
	if err != nil {
		return err
	}
	var req services.AdvocacyPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	adv, err := h.Advocacy.Update(c.Request.Context(), caller(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated advocacy.", adv)
}

func (h *Handler) GetAdvocacy(c *gin.Context) error {
	id, err := pathID(c, "advocacy")
	if err != nil {
		return err
	}
	adv, err := h.Advocacy.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", adv)
}

func (h *Handler) ListAdvocacies(c *gin.Context) error {
	items, err := h.Advocacy.List(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MyAdvocacies(c *gin.Context) error {
	items, err := h.Advocacy.ListByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) DeleteAdvocacy(c *gin.Context) error {
	id, err := pathID(c, "advocacy")
	if err != nil {
		return err
	}
	if err := h.Advocacy.Delete(c.Request.Context(), caller(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted advocacy.", nil)
}

// AdvanceAdvocacy moves the ticket one status forward. A closed ticket is
// answered with 200 and left as it is.
func (h *Handler) AdvanceAdvocacy(c *gin.Context) error {
	id, err := pathID(c, "advocacy")
	if err != nil {
		return err
	}
	adv, changed, err := h.Advocacy.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if !changed {
		return respond(c, http.StatusOK, "Status already closed.", adv)
	}
	return respond(c, http.StatusOK, "Successfully updated status.", adv)
}

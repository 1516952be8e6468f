package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) CreateInsight(c *gin.Context) error {
	var req services.InsightInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ins, err := h.Insights.Create(c.Request.Context(), caller(c), req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created insight.", ins)
}

func (h *Handler) UpdateInsight(c *gin.Context) error {
	id, err := pathID(c, "insight")
	if err != nil {
		return err
	}
	var req services.InsightPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	ins, err := h.Insights.Update(c.Request.Context(), caller(c), id, req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", ins)
}

func (h *Handler) GetInsight(c *gin.Context) error {
	id, err := pathID(c, "insight")
	if err != nil {
		return err
	}
	ins, err := h.Insights.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", ins)
}

func (h *Handler) ListInsights(c *gin.Context) error {
	items, err := h.Insights.List(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MyInsights(c *gin.Context) error {
	items, err := h.Insights.ListByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) DeleteInsight(c *gin.Context) error {
	id, err := pathID(c, "insight")
	if err != nil {
		return err
	}
	if err := h.Insights.Delete(c.Request.Context(), caller(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted insight.", nil)
}

func (h *Handler) ReviewInsight(c *gin.Context) error {
	id, err := pathID(c, "insight")
	if err != nil {
		return err
	}
	var req services.ReviewInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ins, err := h.Insights.Review(c.Request.Context(), caller(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully commented on the insight.", ins)
}

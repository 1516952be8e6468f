package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) CreateCrowdFunding(c *gin.Context) error {
	var req services.CrowdFundingInput
	if err := bind(c, &req); err != nil {
		return err
	}
	cf, err := h.CrowdFunding.Create(c.Request.Context(), caller(c), req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", cf)
}

func (h *Handler) UpdateCrowdFunding(c *gin.Context) error {
	id, err := pathID(c, "crowdfunding")
	if err != nil {
		return err
	}
	var req services.CrowdFundingPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	cf, err := h.CrowdFunding.Update(c.Request.Context(), caller(c), id, req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", cf)
}

func (h *Handler) GetCrowdFunding(c *gin.Context) error {
	id, err := pathID(c, "crowdfunding")
	if err != nil {
		return err
	}
	cf, err := h.CrowdFunding.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", cf)
}

func (h *Handler) ListCrowdFundings(c *gin.Context) error {
	items, err := h.CrowdFunding.List(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MyCrowdFundings(c *gin.Context) error {
	items, err := h.CrowdFunding.ListByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) AdvanceCrowdFunding(c *gin.Context) error {
	id, err := pathID(c, "crowdfunding")
	if err != nil {
		return err
	}
	cf, changed, err := h.CrowdFunding.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if !changed {
		return respond(c, http.StatusOK, "Status already closed.", cf)
	}
	return respond(c, http.StatusOK, "Successfully updated status.", cf)
}

func (h *Handler) DeleteCrowdFunding(c *gin.Context) error {
	id, err := pathID(c, "crowdfunding")
	if err != nil {
		return err
	}
	if err := h.CrowdFunding.Delete(c.Request.Context(), caller(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted.", nil)
}

func (h *Handler) RequestPayment(c *gin.Context) error {
	id, err := pathID(c, "crowdfunding")
	if err != nil {
		return err
	}
	var req services.PaymentRequestInput
	if err := bind(c, &req); err != nil {
		return err
	}
	pr, err := h.CrowdFunding.RequestPayment(c.Request.Context(), caller(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", pr)
}

func (h *Handler) ListPaymentRequests(c *gin.Context) error {
	items, err := h.CrowdFunding.PaymentRequests(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MyPaymentRequests(c *gin.Context) error {
	items, err := h.CrowdFunding.PaymentRequestsByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MarkPaymentPaid(c *gin.Context) error {
	id, err := pathID(c, "payment request")
	if err != nil {
		return err
	}
	pr, changed, err := h.CrowdFunding.AdvancePayment(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if !changed {
		return respond(c, http.StatusOK, "Payment request already paid.", pr)
	}
	return respond(c, http.StatusOK, "Successfully updated status.", pr)
}

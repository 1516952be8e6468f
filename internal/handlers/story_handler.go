package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) CreateStory(c *gin.Context) error {
	var req services.StoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	st, err := h.Stories.Create(c.Request.Context(), caller(c), req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", st)
}

func (h *Handler) UpdateStory(c *gin.Context) error {
	id, err := pathID(c, "story")
	if err != nil {
		return err
	}
	var req services.StoryPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	st, err := h.Stories.Update(c.Request.Context(), caller(c), id, req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", st)
}

func (h *Handler) GetStory(c *gin.Context) error {
	id, err := pathID(c, "story")
	if err != nil {
		return err
	}
	st, err := h.Stories.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", st)
}

// ListStories shows approved stories only.
func (h *Handler) ListStories(c *gin.Context) error {
	items, err := h.Stories.List(c.Request.Context(), false)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

// ListAllStories includes stories still waiting for approval.
func (h *Handler) ListAllStories(c *gin.Context) error {
	items, err := h.Stories.List(c.Request.Context(), true)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MyStories(c *gin.Context) error {
	items, err := h.Stories.ListByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) ApproveStory(c *gin.Context) error {
	id, err := pathID(c, "story")
	if err != nil {
		return err
	}
	st, changed, err := h.Stories.Approve(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if !changed {
		return respond(c, http.StatusOK, "Story already approved.", st)
	}
	return respond(c, http.StatusOK, "Successfully updated status.", st)
}

func (h *Handler) DeleteStory(c *gin.Context) error {
	id, err := pathID(c, "story")
	if err != nil {
		return err
	}
	if err := h.Stories.Delete(c.Request.Context(), caller(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted.", nil)
}

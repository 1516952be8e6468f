package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) CreatePodcastCategory(c *gin.Context) error {
	var req services.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := h.Podcasts.CreateCategory(c.Request.Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created podcast category.", cat)
}

func (h *Handler) DeletePodcastCategory(c *gin.Context) error {
	id, err := pathID(c, "podcast category")
	if err != nil {
		return err
	}
	if err := h.Podcasts.DeleteCategory(c.Request.Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted podcast category.", nil)
}

func (h *Handler) ListPodcastCategories(c *gin.Context) error {
	cats, err := h.Podcasts.Categories(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", cats)
}

// CreatePodcast takes a multipart form with the cover art in "titleImage".
func (h *Handler) CreatePodcast(c *gin.Context) error {
	var req services.PodcastInput
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.Podcasts.Create(c.Request.Context(), caller(c), req, formImage(c, "titleImage"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", p)
}

func (h *Handler) UpdatePodcast(c *gin.Context) error {
	id, err := pathID(c, "podcast")
	if err != nil {
		return err
	}
	var req services.PodcastPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.Podcasts.Update(c.Request.Context(), caller(c), id, req, formImage(c, "titleImage"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", p)
}

func (h *Handler) GetPodcast(c *gin.Context) error {
	id, err := pathID(c, "podcast")
	if err != nil {
		return err
	}
	p, err := h.Podcasts.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", p)
}

func (h *Handler) ListPodcasts(c *gin.Context) error {
	items, err := h.Podcasts.List(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) MyPodcasts(c *gin.Context) error {
	items, err := h.Podcasts.ListByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) DeletePodcast(c *gin.Context) error {
	id, err := pathID(c, "podcast")
	if err != nil {
		return err
	}
	if err := h.Podcasts.Delete(c.Request.Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted podcast.", nil)
}

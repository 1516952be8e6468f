package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/services"
)

func (h *Handler) CreateBlog(c *gin.Context) error {
	var req services.BlogInput
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.Publishing.CreateBlog(c.Request.Context(), caller(c), req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", b)
}

func (h *Handler) UpdateBlog(c *gin.Context) error {
	id, err := pathID(c, "blog")
	if err != nil {
		return err
	}
	var req services.BlogPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.Publishing.UpdateBlog(c.Request.Context(), caller(c), id, req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", b)
}

func (h *Handler) GetBlog(c *gin.Context) error {
	id, err := pathID(c, "blog")
	if err != nil {
		return err
	}
	b, err := h.Publishing.Blog(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", b)
}

// ListBlogs accepts ?category= to narrow the listing.
func (h *Handler) ListBlogs(c *gin.Context) error {
	items, err := h.Publishing.Blogs(c.Request.Context(), c.Query("category"))
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) DeleteBlog(c *gin.Context) error {
	id, err := pathID(c, "blog")
	if err != nil {
		return err
	}
	if err := h.Publishing.DeleteBlog(c.Request.Context(), caller(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted.", nil)
}

func (h *Handler) CreateWebinar(c *gin.Context) error {
	var req services.WebinarInput
	if err := bind(c, &req); err != nil {
		return err
	}
	w, err := h.Publishing.CreateWebinar(c.Request.Context(), caller(c), req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Successfully created.", w)
}

func (h *Handler) UpdateWebinar(c *gin.Context) error {
	id, err := pathID(c, "webinar")
	if err != nil {
		return err
	}
	var req services.WebinarPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	w, err := h.Publishing.UpdateWebinar(c.Request.Context(), caller(c), id, req, formImage(c, "image"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully updated.", w)
}

func (h *Handler) GetWebinar(c *gin.Context) error {
	id, err := pathID(c, "webinar")
	if err != nil {
		return err
	}
	w, err := h.Publishing.Webinar(c.Request.Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successful.", w)
}

func (h *Handler) ListWebinars(c *gin.Context) error {
	items, err := h.Publishing.Webinars(c.Request.Context())
	if err != nil {
		return err
	}
	return respondList(c, "Successful.", items)
}

func (h *Handler) DeleteWebinar(c *gin.Context) error {
	id, err := pathID(c, "webinar")
	if err != nil {
		return err
	}
	if err := h.Publishing.DeleteWebinar(c.Request.Context(), caller(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully deleted.", nil)
}

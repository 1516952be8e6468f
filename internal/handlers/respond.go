package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/middleware"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/pagination"
	"github.com/patientng/patient-api/internal/services"
	"github.com/patientng/patient-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type envelope struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Result     any    `json:"result,omitempty"`
	Results    any    `json:"results,omitempty"`
	TotalPages *int   `json:"totalPages,omitempty"`
}

// wrap adapts an error-returning handler; errors are rendered by
// middleware.ErrorEnvelope.
func wrap(fn func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

func respond(c *gin.Context, code int, message string, result any) error {
	c.JSON(code, envelope{Code: code, Message: message, Result: result})
	return nil
}

// respondList sends every item, or one page of them when ?page= is given.
func respondList[T any](c *gin.Context, message string, items []T) error {
	env := envelope{Code: http.StatusOK, Message: message}
	if raw := c.Query("page"); raw != "" {
		page, _ := strconv.Atoi(raw)
		size, _ := strconv.Atoi(c.Query("pageSize"))
		pageItems, total := pagination.Paginate(items, page, size)
		env.Results = pageItems
		env.TotalPages = &total
	} else {
		env.Results = items
	}
	c.JSON(http.StatusOK, env)
	return nil
}

// bind decodes a JSON or multipart body into v and validates it.
func bind(c *gin.Context, v any) error {
	if err := c.ShouldBind(v); err != nil {
		return apperr.BadRequest(validation.Message(err))
	}
	return nil
}

// formImage returns the uploaded file in field, or nil when there is none.
func formImage(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

func caller(c *gin.Context) *models.User {
	return middleware.Caller(c)
}

func pathID(c *gin.Context, what string) (primitive.ObjectID, error) {
	return services.ParseID(c.Param("id"), what)
}

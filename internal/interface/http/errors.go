package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/club-subdomain-portal/internal/application"
	repo "github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
	"github.com/oksasatya/club-subdomain-portal/pkg/response"
)

// ErrorResponder maps service errors onto HTTP answers. Upstream error text
// is only exposed outside production.
type ErrorResponder struct {
	Logger     logrus.FieldLogger
	Production bool
}

func NewErrorResponder(logger logrus.FieldLogger, production bool) *ErrorResponder {
	return &ErrorResponder{Logger: logger, Production: production}
}

func (e *ErrorResponder) Respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrForbidden):
		response.Error(c, http.StatusForbidden, "You do not own this subdomain", nil)
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Subdomain not found", nil)
	case errors.Is(err, application.ErrEmailUnresolved):
		response.Error(c, http.StatusBadRequest, "User email not found", nil)
	case errors.Is(err, application.ErrQuotaExceeded):
		response.Error(c, http.StatusConflict, "You already have a subdomain", nil)
	case errors.Is(err, application.ErrCreateInProgress):
		response.Error(c, http.StatusConflict, "Another subdomain request is already in progress", nil)
	default:
		helpers.LogError(e.Logger, "upstream failure", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		var details interface{}
		if !e.Production {
			details = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error", details)
	}
}

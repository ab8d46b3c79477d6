package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/club-subdomain-portal/web"
)

// DashboardHandler renders the single-page dashboard. Data is fetched by
// the page itself from the JSON API.
type DashboardHandler struct {
	AppName string
	Logger  logrus.FieldLogger
	tpl     *template.Template
}

func NewDashboardHandler(appName string, logger logrus.FieldLogger) (*DashboardHandler, error) {
	tpl, err := template.ParseFS(web.Templates(), "index.html")
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{AppName: appName, Logger: logger, tpl: tpl}, nil
}

// Index GET /
func (h *DashboardHandler) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	err := h.tpl.Execute(c.Writer, struct {
		AppName string
		Error   string
	}{AppName: h.AppName, Error: c.Query("error")})
	if err != nil {
		h.Logger.WithError(err).Error("render dashboard")
	}
}

// StaticFS serves the page's script and stylesheet.
func (h *DashboardHandler) StaticFS() http.FileSystem {
	return http.FS(web.Static())
}

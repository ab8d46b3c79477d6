package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/internal/application"
	"github.com/oksasatya/club-subdomain-portal/internal/interface/middleware"
	"github.com/oksasatya/club-subdomain-portal/pkg/response"
	"github.com/oksasatya/club-subdomain-portal/pkg/validation"
)

type SubdomainHandler struct {
	Svc    *application.GatewayService
	Errors *ErrorResponder
}

func NewSubdomainHandler(svc *application.GatewayService, errs *ErrorResponder) *SubdomainHandler {
	return &SubdomainHandler{Svc: svc, Errors: errs}
}

// Any "active" field in the body is ignored.
type createSubdomainRequest struct {
	Subdomain  string   `json:"subdomain" binding:"required,dnslabel"`
	GithubRepo string   `json:"githubRepo" binding:"omitempty,repourl"`
	Domains    []string `json:"domains" binding:"recordids"`
	ClubName   []string `json:"clubName" binding:"recordids"`
}

type updateSubdomainRequest struct {
	GithubRepo *string `json:"githubRepo" binding:"required,repourl"`
}

// List GET /api/subdomains
func (h *SubdomainHandler) List(c *gin.Context) {
	out, err := h.Svc.ListSubdomains(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Payload(c, http.StatusOK, out)
}

// Create POST /api/subdomains
func (h *SubdomainHandler) Create(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if !id.HasEmail() {
		h.Errors.Respond(c, application.ErrEmailUnresolved)
		return
	}
	var req createSubdomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	created, err := h.Svc.CreateSubdomain(c.Request.Context(), id, application.CreateSubdomainInput{
		Subdomain:  req.Subdomain,
		GithubRepo: req.GithubRepo,
		DomainIDs:  req.Domains,
		ClubIDs:    req.ClubName,
	}, requestMeta(c))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Mutation(c, application.MsgSubdomainCreated, created)
}

// Update PUT /api/subdomains/:id
func (h *SubdomainHandler) Update(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if !id.HasEmail() {
		h.Errors.Respond(c, application.ErrEmailUnresolved)
		return
	}
	var req updateSubdomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	updated, err := h.Svc.UpdateGithubRepo(c.Request.Context(), id, c.Param("id"), *req.GithubRepo, requestMeta(c))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Mutation(c, application.MsgGithubRepoUpdated, updated)
}

func requestMeta(c *gin.Context) application.RequestMeta {
	ip := c.GetString("real_ip")
	if ip == "" {
		ip = c.ClientIP()
	}
	return application.RequestMeta{
		RequestID: c.GetString("request_id"),
		IP:        ip,
		UserAgent: c.GetHeader("User-Agent"),
	}
}

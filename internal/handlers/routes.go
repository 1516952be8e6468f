package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/middleware"
	"github.com/patientng/patient-api/internal/policy"
)

// Route is one entry of the API table. Public routes skip authentication,
// or only identify the caller when Identify is set; the rest require an
// active user holding Capability.
type Route struct {
	Method     string
	Path       string
	Public     bool
	Identify   bool
	Capability policy.Capability
	Handler    func(*gin.Context) error
}

func (h *Handler) Routes() []Route {
	pub := func(method, path string, fn func(*gin.Context) error) Route {
		return Route{Method: method, Path: path, Public: true, Handler: fn}
	}
	// opt routes are public but see the caller when a valid token is sent.
	opt := func(method, path string, fn func(*gin.Context) error) Route {
		return Route{Method: method, Path: path, Public: true, Identify: true, Handler: fn}
	}
	auth := func(method, path string, capability policy.Capability, fn func(*gin.Context) error) Route {
		return Route{Method: method, Path: path, Capability: capability, Handler: fn}
	}
	const (
		GET    = http.MethodGet
		POST   = http.MethodPost
		PATCH  = http.MethodPatch
		DELETE = http.MethodDelete
	)

	return []Route{
		pub(POST, "/auth/signup", h.Signup),
		pub(POST, "/auth/login", h.Login),
		pub(POST, "/auth/refresh", h.RefreshToken),
		auth(POST, "/auth/logout", policy.Authenticated, h.Logout),

		auth(GET, "/users", policy.ManageUsers, h.ListUsers),
		auth(GET, "/users/me", policy.Authenticated, h.GetCurrentUser),
		auth(POST, "/users/onboarding", policy.Authenticated, h.Onboard),
		auth(GET, "/users/:id", policy.Authenticated, h.GetUser),
		auth(PATCH, "/users/:id", policy.Authenticated, h.UpdateProfile),
		auth(PATCH, "/users/:id/status", policy.ManageUsers, h.ToggleUserStatus),

		pub(GET, "/insights", h.ListInsights),
		auth(GET, "/insights/mine", policy.Authenticated, h.MyInsights),
		pub(GET, "/insights/:id", h.GetInsight),
		auth(POST, "/insights", policy.Authenticated, h.CreateInsight),
		auth(PATCH, "/insights/:id", policy.Authenticated, h.UpdateInsight),
		auth(DELETE, "/insights/:id", policy.Authenticated, h.DeleteInsight),
		auth(POST, "/insights/:id/reviews", policy.Authenticated, h.ReviewInsight),

		auth(GET, "/advocacies", policy.ModerateContent, h.ListAdvocacies),
		auth(GET, "/advocacies/mine", policy.Authenticated, h.MyAdvocacies),
		auth(GET, "/advocacies/:id", policy.Authenticated, h.GetAdvocacy),
		auth(POST, "/advocacies", policy.WriteAdvocacy, h.CreateAdvocacy),
		auth(PATCH, "/advocacies/:id", policy.Authenticated, h.UpdateAdvocacy),
		auth(DELETE, "/advocacies/:id", policy.Authenticated, h.DeleteAdvocacy),
		auth(PATCH, "/advocacies/:id/status", policy.ModerateContent, h.AdvanceAdvocacy),

		pub(GET, "/podcast-categories", h.ListPodcastCategories),
		auth(POST, "/podcast-categories", policy.ModerateContent, h.CreatePodcastCategory),
		auth(DELETE, "/podcast-categories/:id", policy.ModerateContent, h.DeletePodcastCategory),
		pub(GET, "/podcasts", h.ListPodcasts),
		auth(GET, "/podcasts/mine", policy.WritePodcast, h.MyPodcasts),
		pub(GET, "/podcasts/:id", h.GetPodcast),
		auth(POST, "/podcasts", policy.WritePodcast, h.CreatePodcast),
		auth(PATCH, "/podcasts/:id", policy.WritePodcast, h.UpdatePodcast),
		auth(DELETE, "/podcasts/:id", policy.ModerateContent, h.DeletePodcast),

		pub(GET, "/blogs", h.ListBlogs),
		pub(GET, "/blogs/:id", h.GetBlog),
		auth(POST, "/blogs", policy.WriteBlog, h.CreateBlog),
		auth(PATCH, "/blogs/:id", policy.WriteBlog, h.UpdateBlog),
		auth(DELETE, "/blogs/:id", policy.WriteBlog, h.DeleteBlog),

		pub(GET, "/webinars", h.ListWebinars),
		pub(GET, "/webinars/:id", h.GetWebinar),
		auth(POST, "/webinars", policy.WriteWebinar, h.CreateWebinar),
		auth(PATCH, "/webinars/:id", policy.WriteWebinar, h.UpdateWebinar),
		auth(DELETE, "/webinars/:id", policy.WriteWebinar, h.DeleteWebinar),

		pub(GET, "/stories", h.ListStories),
		auth(GET, "/stories/all", policy.ModerateContent, h.ListAllStories),
		auth(GET, "/stories/mine", policy.Authenticated, h.MyStories),
		opt(GET, "/stories/:id", h.GetStory),
		auth(POST, "/stories", policy.Authenticated, h.CreateStory),
		auth(PATCH, "/stories/:id", policy.Authenticated, h.UpdateStory),
		auth(PATCH, "/stories/:id/approve", policy.ModerateContent, h.ApproveStory),
		auth(DELETE, "/stories/:id", policy.Authenticated, h.DeleteStory),

		pub(GET, "/crowdfundings", h.ListCrowdFundings),
		auth(GET, "/crowdfundings/mine", policy.WriteCrowdFunding, h.MyCrowdFundings),
		pub(GET, "/crowdfundings/:id", h.GetCrowdFunding),
		auth(POST, "/crowdfundings", policy.WriteCrowdFunding, h.CreateCrowdFunding),
		auth(PATCH, "/crowdfundings/:id", policy.WriteCrowdFunding, h.UpdateCrowdFunding),
		auth(DELETE, "/crowdfundings/:id", policy.WriteCrowdFunding, h.DeleteCrowdFunding),
		auth(PATCH, "/crowdfundings/:id/status", policy.ModerateContent, h.AdvanceCrowdFunding),
		auth(POST, "/crowdfundings/:id/payment-requests", policy.WriteCrowdFunding, h.RequestPayment),

		auth(GET, "/payment-requests", policy.ModerateContent, h.ListPaymentRequests),
		auth(GET, "/payment-requests/mine", policy.WriteCrowdFunding, h.MyPaymentRequests),
		auth(PATCH, "/payment-requests/:id/status", policy.ModerateContent, h.MarkPaymentPaid),
	}
}

// Register mounts the route table under /api/v1, plus /healthz and, for local
// storage, the uploaded files.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(middleware.ErrorEnvelope())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Message: "ok"})
	})
	if h.UploadDir != "" {
		r.Static(h.UploadPrefix, h.UploadDir)
	}

	api := r.Group("/api/v1")
	authenticate := middleware.Authenticate(h.Auth)
	identify := middleware.Identify(h.Auth)
	for _, rt := range h.Routes() {
		var chain []gin.HandlerFunc
		if rt.Identify {
			chain = append(chain, identify)
		}
		if !rt.Public {
			chain = append(chain, authenticate)
			if rt.Capability != policy.Authenticated {
				chain = append(chain, middleware.RequireCapability(rt.Capability))
			}
		}
		chain = append(chain, wrap(rt.Handler))
		api.Handle(rt.Method, rt.Path, chain...)
	}
}

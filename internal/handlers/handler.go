package handlers

import (
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/services"
	"github.com/patientng/patient-api/internal/upload"
	"github.com/patientng/patient-api/internal/utils"
	"github.com/patientng/patient-api/internal/validation"
)

// Handler holds every service the routes call into.
type Handler struct {
	Auth         *services.AuthService
	Users        *services.UserService
	Insights     *services.InsightService
	Advocacy     *services.AdvocacyService
	Podcasts     *services.PodcastService
	Publishing   *services.PublishingService
	Stories      *services.StoryService
	CrowdFunding *services.CrowdFundingService

	// UploadDir is served under UploadPrefix when images are stored locally.
	UploadDir    string
	UploadPrefix string
}

func NewHandler(ds *dao.Datasources, uploads *upload.Uploader, signer *utils.TokenSigner, notifier services.Notifier, superAdminEmail string) *Handler {
	validation.Setup()
	return &Handler{
		Auth:         services.NewAuthService(ds, signer),
		Users:        services.NewUserService(ds, uploads, superAdminEmail),
		Insights:     services.NewInsightService(ds, uploads),
		Advocacy:     services.NewAdvocacyService(ds, notifier),
		Podcasts:     services.NewPodcastService(ds, uploads),
		Publishing:   services.NewPublishingService(ds, uploads),
		Stories:      services.NewStoryService(ds, uploads, notifier),
		CrowdFunding: services.NewCrowdFundingService(ds, uploads, notifier),
	}
}

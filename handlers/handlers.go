// Package handlers exposes the firm's services as a JSON API under /api.
package handlers

import (
	"lexfirm_api_go/config"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"
)

// Handler holds the services behind every endpoint.
type Handler struct {
	cfg *config.Config

	Auth        *services.AuthService
	Lawyers     *services.LawyerService
	Clients     *services.ClientService
	Tribunals   *services.TribunalService
	Cases       *services.CaseService
	TimeEntries *services.TimeEntryService
	Hearings    *services.HearingService
	Documents   *services.DocumentService
	Dashboard   *services.DashboardService
	Monitor     *services.LoginMonitor
}

// New builds the services over repos and storage.
func New(cfg *config.Config, repos *repositories.Repositories, storage services.StorageProvider) *Handler {
	return &Handler{
		cfg:         cfg,
		Auth:        services.NewAuthService(repos, cfg.JWTSecret, cfg.JWTExpiresIn),
		Lawyers:     services.NewLawyerService(repos),
		Clients:     services.NewClientService(repos),
		Tribunals:   services.NewTribunalService(repos),
		Cases:       services.NewCaseService(repos),
		TimeEntries: services.NewTimeEntryService(repos),
		Hearings:    services.NewHearingService(repos),
		Documents: services.NewDocumentService(repos, storage, services.UploadRules{
			MaxSize:  cfg.UploadMaxSize,
			MaxFiles: cfg.UploadMaxFiles,
		}),
		Dashboard: services.NewDashboardService(repos, cfg.MonthlyHoursTarget),
		Monitor:   services.NewLoginMonitor(),
	}
}

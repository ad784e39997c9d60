package main

import (
	"context"
	"log"
	"time"

	"lexfirm_api_go/config"
	"lexfirm_api_go/db"
	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	time.Local = cfg.Location()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: "production",
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	repos := repositories.New(db.DB)

	_, existing, err := repos.Cases.List(ctx, repositories.CaseFilter{}, repositories.Page{Page: 1, Limit: 1}, repositories.Sort{})
	if err != nil {
		log.Fatalf("Failed to count cases: %v", err)
	}
	if existing > 0 {
		log.Printf("Database already holds %d cases, skipping demo data", existing)
		return
	}

	if err := seed(ctx, repos); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Println("Demo data created")
}

type demoCase struct {
	name     string
	category string
	status   string
	priority string
	client   int
	lawyer   int
	hours    []float64
	hearing  string
}

func seed(ctx context.Context, repos *repositories.Repositories) error {
	actor := services.Actor{Name: "seed"}
	lawyerSvc := services.NewLawyerService(repos)
	clientSvc := services.NewClientService(repos)
	tribunalSvc := services.NewTribunalService(repos)
	caseSvc := services.NewCaseService(repos)
	entrySvc := services.NewTimeEntryService(repos)
	hearingSvc := services.NewHearingService(repos)

	var lawyers []*models.Lawyer
	for _, l := range []struct {
		name, email, specialty string
		rate                   float64
	}{
		{"Laura Méndez", "laura.mendez@lexfirm.mx", "Derecho Mercantil", 2500},
		{"Carlos Ruiz", "carlos.ruiz@lexfirm.mx", "Derecho Laboral", 1800},
		{"Sofía Herrera", "sofia.herrera@lexfirm.mx", "Derecho Familiar", 1500},
	} {
		lawyer, err := lawyerSvc.Create(ctx, actor, services.LawyerInput{
			Name:       ptr(l.name),
			Email:      ptr(l.email),
			Specialty:  ptr(l.specialty),
			Title:      ptr("Lic."),
			HourlyRate: &l.rate,
		})
		if err != nil {
			return err
		}
		lawyers = append(lawyers, lawyer)
	}

	var clients []*models.Client
	for _, c := range []struct{ name, kind, rfc string }{
		{"Grupo Industrial del Norte", models.ClientTypeCompany, "GIN980101AB1"},
		{"María Fernanda López", models.ClientTypeIndividual, "LOMF850312QX2"},
		{"Transportes Bajío", models.ClientTypeCompany, "TBA101120KL3"},
	} {
		client, err := clientSvc.Create(ctx, actor, services.ClientInput{Name: ptr(c.name), Type: ptr(c.kind), RFC: ptr(c.rfc)})
		if err != nil {
			return err
		}
		clients = append(clients, client)
	}

	tribunal, err := tribunalSvc.Create(ctx, services.TribunalInput{
		Name:         ptr("Juzgado Tercero de lo Civil"),
		Type:         ptr(models.TribunalTypeCivil),
		Jurisdiction: ptr("Ciudad de México"),
	})
	if err != nil {
		return err
	}
	judge, err := tribunalSvc.CreateJudge(ctx, services.JudgeInput{
		Name:       ptr("Roberto Salinas"),
		Title:      ptr("Juez"),
		TribunalID: &tribunal.ID,
	})
	if err != nil {
		return err
	}

	today := time.Now()
	for _, dc := range []demoCase{
		{"Incumplimiento de contrato de suministro", models.CaseCategoryCommercial, models.CaseStatusActive, models.PriorityHigh, 0, 0, []float64{3.5, 2, 4}, "10:00"},
		{"Despido injustificado", models.CaseCategoryLabor, models.CaseStatusUrgent, models.PriorityUrgent, 1, 1, []float64{1.5, 2.5}, "12:30"},
		{"Divorcio voluntario", models.CaseCategoryFamily, models.CaseStatusPending, models.PriorityMedium, 1, 2, []float64{1}, ""},
		{"Cobro de pagarés", models.CaseCategoryCivil, models.CaseStatusActive, models.PriorityLow, 2, 0, []float64{2}, "09:00"},
	} {
		c, err := caseSvc.Create(ctx, actor, services.CaseInput{
			Name:           ptr(dc.name),
			Category:       ptr(dc.category),
			Status:         ptr(dc.status),
			Priority:       ptr(dc.priority),
			ClientID:       &clients[dc.client].ID,
			LawyerID:       &lawyers[dc.lawyer].ID,
			TribunalID:     &tribunal.ID,
			JudgeID:        &judge.ID,
			EstimatedHours: ptr(40.0),
		})
		if err != nil {
			return err
		}

		for i, hours := range dc.hours {
			if _, err := entrySvc.Create(ctx, actor, services.TimeEntryInput{
				CaseID:       &c.ID,
				LawyerID:     &lawyers[dc.lawyer].ID,
				Date:         ptr(models.FormatDate(today.AddDate(0, 0, -7*(i+1)))),
				Hours:        &hours,
				Description:  ptr("Trabajo en " + dc.name),
				ActivityType: ptr(models.WorkTypeDocumentReview),
			}); err != nil {
				return err
			}
		}

		if dc.hearing != "" {
			if _, err := hearingSvc.Create(ctx, actor, services.HearingInput{
				CaseID:   &c.ID,
				Date:     ptr(models.FormatDate(today.AddDate(0, 0, 2+len(dc.hours)))),
				Time:     ptr(dc.hearing),
				Type:     ptr(models.HearingTypeInitial),
				Location: ptr("Sala 4"),
				Reminder: ptr(true),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

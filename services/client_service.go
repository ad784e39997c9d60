package services

import (
	"context"
	"fmt"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// ClientInput carries create and update fields; nil means "not provided".
type ClientInput struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	RFC           *string `json:"rfc"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contactPerson"`
	Notes         *string `json:"notes"`
	IsActive      *bool   `json:"isActive"`
}

// ClientSummary is a client with the number of its cases.
type ClientSummary struct {
	models.Client
	CaseCount int64 `json:"caseCount"`
}

type ClientService struct {
	repos *repositories.Repositories
}

func NewClientService(repos *repositories.Repositories) *ClientService {
	return &ClientService{repos: repos}
}

func (s *ClientService) List(ctx context.Context, filter repositories.ClientFilter, page repositories.Page) ([]ClientSummary, int64, error) {
	clients, total, err := s.repos.Clients.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	counts, err := s.repos.Cases.CountPerOwner(ctx, "client_id", ids)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]ClientSummary, len(clients))
	for i, c := range clients {
		summaries[i] = ClientSummary{Client: c, CaseCount: counts[c.ID]}
	}
	return summaries, total, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*ClientSummary, error) {
	client, err := s.repos.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Client")
	}
	counts, err := s.repos.Cases.CountPerOwner(ctx, "client_id", []string{id})
	if err != nil {
		return nil, err
	}
	return &ClientSummary{Client: *client, CaseCount: counts[id]}, nil
}

func (s *ClientService) Create(ctx context.Context, actor Actor, input ClientInput) (*models.Client, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name is required")
	}
	client := &models.Client{Type: models.ClientTypeIndividual, IsActive: true}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Clients.Create(ctx, client); err != nil {
			return conflictOnDuplicate(err, "a client with this RFC already exists")
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityClientAdded,
			EntityType:  "client",
			EntityID:    client.ID,
			Description: fmt.Sprintf("New client: %s", client.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, input ClientInput) (*models.Client, error) {
	client, err := s.repos.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Client")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name cannot be empty")
	}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}
	if err := s.repos.Clients.Update(ctx, client); err != nil {
		return nil, conflictOnDuplicate(err, "a client with this RFC already exists")
	}
	return client, nil
}

// Delete deactivates a client that still has cases and removes it otherwise.
func (s *ClientService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if _, err := s.repos.Clients.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, "Client")
	}
	return archiveOrRemove(ctx, s.repos, id, func(dependents int64) (bool, error) {
		return s.repos.Clients.ArchiveOrDelete(ctx, id, dependents)
	}, casesByClient)
}

func applyClientInput(client *models.Client, input ClientInput) error {
	if input.Name != nil {
		client.Name = SanitizeText(*input.Name)
	}
	if input.Type != nil {
		if !models.IsValidClientType(*input.Type) {
			return Validation("invalid client type: " + *input.Type)
		}
		client.Type = *input.Type
	}
	if input.RFC != nil {
		rfc := trimOptional(input.RFC)
		if rfc != nil {
			upper := strings.ToUpper(*rfc)
			rfc = &upper
		}
		client.RFC = rfc
	}
	if input.Email != nil {
		client.Email = trimOptional(input.Email)
	}
	if input.Phone != nil {
		client.Phone = trimOptional(input.Phone)
	}
	if input.Address != nil {
		client.Address = sanitizeOptional(input.Address)
	}
	if input.ContactPerson != nil {
		client.ContactPerson = sanitizeOptional(input.ContactPerson)
	}
	if input.Notes != nil {
		client.Notes = sanitizeOptional(input.Notes)
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	return nil
}

package services

import (
	"context"
	"fmt"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"gorm.io/datatypes"
)

// Actor identifies who performs an operation and from where.
type Actor struct {
	UserID    string
	Name      string
	Role      string
	IPAddress string
}

// ActorFromUser builds an Actor for an authenticated user.
func ActorFromUser(user *models.User, ip string) Actor {
	if user == nil {
		return Actor{IPAddress: ip}
	}
	return Actor{UserID: user.ID, Name: user.Name, Role: user.Role, IPAddress: ip}
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) userID() *string {
	return ptrIfNotEmpty(a.UserID)
}

// activityEntry describes one line of the activity feed.
type activityEntry struct {
	Type        models.ActivityType
	EntityType  string
	EntityID    string
	Description string
	Metadata    map[string]interface{}
}

// recordActivity appends to the activity log with the repositories it is
// given, so a caller inside a transaction commits both or neither.
func recordActivity(ctx context.Context, repos *repositories.Repositories, actor Actor, entry activityEntry) error {
	activity := &models.Activity{
		UserID:      actor.userID(),
		Type:        entry.Type,
		EntityType:  entry.EntityType,
		EntityID:    ptrIfNotEmpty(entry.EntityID),
		Description: entry.Description,
		IPAddress:   ptrIfNotEmpty(actor.IPAddress),
	}
	if len(entry.Metadata) > 0 {
		activity.Metadata = datatypes.JSONMap(entry.Metadata)
	}
	if err := repos.Activities.Append(ctx, activity); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", entry.Type, err)
	}
	return nil
}

func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package services

import (
	"context"

	"penpal_server/models"
	"penpal_server/store"
)

// UserProfileService is the read-only boundary onto the user directory.
// Authentication and profile editing live elsewhere; the engine only reads
// country, completeness and activity flags.
type UserProfileService struct {
	Users store.UserDirectory
}

// GetProfile returns a user's directory entry.
func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.Users.GetUser(ctx, userID)
}

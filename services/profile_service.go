package services

import (
	"context"
	"fmt"
	"log"

	"network_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/crypto/bcrypt"
)

// ProfileService manages user profiles in DynamoDB.
type ProfileService struct {
	Dynamo *DynamoService
}

// CreateProfile stores a new profile. A taken userId is ErrProfileExists.
func (ps *ProfileService) CreateProfile(ctx context.Context, profile models.UserProfile) error {
	if profile.UserID == "" || profile.Name == "" || profile.Location == nil ||
		profile.Location.Latitude == "" || profile.Location.Longitude == "" {
		return fmt.Errorf("%w: userId, name, latitude and longitude are required", ErrValidation)
	}

	err := ps.Dynamo.PutItemConditional(ctx, models.UserProfilesTable, profile,
		"attribute_not_exists(userId)", nil)
	if err == ErrConditionFailed {
		return ErrProfileExists
	}
	return err
}

// Signup hashes the password and creates the profile.
func (ps *ProfileService) Signup(ctx context.Context, profile models.UserProfile, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	profile.PasswordHash = string(hash)

	return ps.CreateProfile(ctx, profile)
}

// Login finds the profile by phone and verifies the password.
func (ps *ProfileService) Login(ctx context.Context, phone, password string) (*models.UserProfile, error) {
	if phone == "" || password == "" {
		return nil, fmt.Errorf("%w: phone and password are required", ErrValidation)
	}

	var profiles []models.UserProfile
	if err := ps.Dynamo.ScanItems(ctx, models.UserProfilesTable, &profiles); err != nil {
		return nil, err
	}

	for i := range profiles {
		if profiles[i].Phone != phone {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(profiles[i].PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return &profiles[i], nil
	}
	return nil, ErrNotFound
}

// GetProfile retrieves one profile by userId.
func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := ps.Dynamo.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// AllProfiles returns every stored profile.
func (ps *ProfileService) AllProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := ps.Dynamo.ScanItems(ctx, models.UserProfilesTable, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ProfilesByIDs resolves ids to profiles, skipping ids that no longer resolve.
func (ps *ProfileService) ProfilesByIDs(ctx context.Context, ids []string) ([]models.UserProfile, error) {
	profiles := make([]models.UserProfile, 0, len(ids))
	for _, id := range ids {
		profile, err := ps.GetProfile(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// UpdateLocation overwrites the stored coordinate for a user.
func (ps *ProfileService) UpdateLocation(ctx context.Context, userID string, location models.Location) error {
	if userID == "" || location.Latitude == "" || location.Longitude == "" {
		return fmt.Errorf("%w: userId, latitude and longitude are required", ErrValidation)
	}

	locAttr, err := attributevalue.Marshal(location)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	_, err = ps.Dynamo.UpdateItem(ctx, models.UserProfilesTable,
		"SET #loc = :location",
		map[string]types.AttributeValue{"userId": &types.AttributeValueMemberS{Value: userID}},
		map[string]types.AttributeValue{":location": locAttr},
		map[string]string{"#loc": "location"},
		"userId",
	)
	if err != nil {
		log.Printf("Failed to update location for %s: %v", userID, err)
		return err
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"log"

	"network_server/models"
	"network_server/utils"
)

// DefaultNearbyRadiusMeters bounds the proximity search when no radius is
// configured.
const DefaultNearbyRadiusMeters = 20.0

// ProfileStore is the slice of the profile collaborator the tracking layer
// consumes.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	AllProfiles(ctx context.Context) ([]models.UserProfile, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]models.UserProfile, error)
}

// ConnectionStore maintains the per-user connection edges.
type ConnectionStore interface {
	AddConnection(ctx context.Context, userID, peerID string) (bool, error)
	GetConnections(ctx context.Context, userID string) ([]string, bool, error)
}

// NotificationStore is the ledger the lifecycle writes through.
type NotificationStore interface {
	Record(ctx context.Context, recipientID, senderID, message, tag string) (models.Notification, error)
	RecordRequest(ctx context.Context, recipientID, senderID, message, tag string) (models.Notification, error)
	ListUnviewed(ctx context.Context, userID string) ([]models.Notification, error)
	Get(ctx context.Context, notificationID string) (models.Notification, error)
	MarkViewed(ctx context.Context, notificationID string) (models.Notification, error)
}

// TrackService covers the proximity index and the request lifecycle:
// NONE -> PENDING(Connect) -> ACCEPTED | DECLINED.
type TrackService struct {
	Profiles      ProfileStore
	Connections   ConnectionStore
	Notifications NotificationStore
	RadiusMeters  float64
}

func (ts *TrackService) radius() float64 {
	if ts.RadiusMeters > 0 {
		return ts.RadiusMeters
	}
	return DefaultNearbyRadiusMeters
}

// GetNearbyUsers returns every profile within the configured radius of the
// origin. Candidates with a missing or unparseable location are excluded,
// not erred. No ordering guarantee.
func (ts *TrackService) GetNearbyUsers(ctx context.Context, latitude, longitude string) ([]models.UserProfile, error) {
	originLat, originLon, ok := utils.ParseCoordinate(latitude, longitude)
	if !ok {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrValidation)
	}

	profiles, err := ts.Profiles.AllProfiles(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.UserProfile, 0)
	for _, profile := range profiles {
		if profile.Location == nil {
			continue
		}
		lat, lon, ok := utils.ParseCoordinate(profile.Location.Latitude, profile.Location.Longitude)
		if !ok {
			continue
		}
		if utils.DistanceMeters(originLat, originLon, lat, lon) <= ts.radius() {
			nearby = append(nearby, profile)
		}
	}
	return nearby, nil
}

// Connect is the direct mutual-intent path (map tap). It idempotently adds
// the edge to userID's record; ErrAlreadyConnected when it is present. When
// the peer's own record does not list userID back, an Accept-tagged
// notification prompts the peer to reciprocate.
func (ts *TrackService) Connect(ctx context.Context, userID, connectID string) error {
	if userID == "" || connectID == "" {
		return fmt.Errorf("%w: userId and connectId are required", ErrValidation)
	}

	added, err := ts.Connections.AddConnection(ctx, userID, connectID)
	if err != nil {
		return err
	}
	if !added {
		return ErrAlreadyConnected
	}

	reverse, _, err := ts.Connections.GetConnections(ctx, connectID)
	if err != nil {
		return err
	}
	for _, id := range reverse {
		if id == userID {
			return nil
		}
	}

	message := fmt.Sprintf("%s has connected with you", ts.displayName(ctx, userID))
	if _, err := ts.Notifications.RecordRequest(ctx, connectID, userID, message, models.TagAccept); err != nil {
		if err == ErrDuplicateNotification {
			return nil
		}
		log.Printf("Failed to notify %s about connection from %s: %v", connectID, userID, err)
	}
	return nil
}

// SendRequest records a proximity Connect notification to recipientID. The
// conditional write in the ledger makes repeated calls benign while a prior
// request is unviewed; that case is ErrDuplicateNotification.
func (ts *TrackService) SendRequest(ctx context.Context, recipientID, senderID string) (models.Notification, error) {
	if recipientID == "" || senderID == "" {
		return models.Notification{}, fmt.Errorf("%w: userId and connectId are required", ErrValidation)
	}

	message := fmt.Sprintf("%s is nearby and wants to connect", ts.displayName(ctx, senderID))
	return ts.Notifications.RecordRequest(ctx, recipientID, senderID, message, models.TagConnect)
}

// UnviewedNotifications returns the recipient's pending feed.
func (ts *TrackService) UnviewedNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	return ts.Notifications.ListUnviewed(ctx, userID)
}

// Accept marks the notification viewed and appends the acceptor to the
// requester's connection list. Safe to retry: the viewed flip and the edge
// append are both idempotent. The two writes are not transactional; a crash
// between them leaves a viewed notification without the edge, recovered by a
// retried call.
func (ts *TrackService) Accept(ctx context.Context, notificationID, userID, connectID string) (models.Notification, error) {
	if notificationID == "" || userID == "" || connectID == "" {
		return models.Notification{}, fmt.Errorf("%w: notificationId, userId and connectId are required", ErrValidation)
	}

	if _, err := ts.Notifications.Get(ctx, notificationID); err != nil {
		return models.Notification{}, err
	}

	notification, err := ts.Notifications.MarkViewed(ctx, notificationID)
	if err != nil {
		return models.Notification{}, err
	}

	if _, err := ts.Connections.AddConnection(ctx, connectID, userID); err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}

// Decline marks the notification viewed. Terminal; no graph mutation.
func (ts *TrackService) Decline(ctx context.Context, notificationID, userID string) (models.Notification, error) {
	if notificationID == "" || userID == "" {
		return models.Notification{}, fmt.Errorf("%w: notificationId and userId are required", ErrValidation)
	}

	if _, err := ts.Notifications.Get(ctx, notificationID); err != nil {
		return models.Notification{}, err
	}
	return ts.Notifications.MarkViewed(ctx, notificationID)
}

// ConnectionProfiles resolves a user's peers to profile projections,
// excluding the caller's own id even if a self-referential edge exists.
func (ts *TrackService) ConnectionProfiles(ctx context.Context, userID string) ([]models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	peers, found, err := ts.Connections.GetConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found || len(peers) == 0 {
		return nil, ErrNotFound
	}

	filtered := peers[:0:0]
	for _, id := range peers {
		if id != userID {
			filtered = append(filtered, id)
		}
	}
	return ts.Profiles.ProfilesByIDs(ctx, filtered)
}

func (ts *TrackService) displayName(ctx context.Context, userID string) string {
	profile, err := ts.Profiles.GetProfile(ctx, userID)
	if err != nil || profile == nil || profile.Name == "" {
		return userID
	}
	return profile.Name
}

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"network_server/models"
	"network_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStores struct {
	profiles      map[string]models.UserProfile
	edges         map[string][]string
	notifications map[string]models.Notification
}

func newMemoryStores() *memoryStores {
	return &memoryStores{
		profiles:      map[string]models.UserProfile{},
		edges:         map[string][]string{},
		notifications: map[string]models.Notification{},
	}
}

func (m *memoryStores) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &p, nil
}

func (m *memoryStores) AllProfiles(context.Context) ([]models.UserProfile, error) {
	var all []models.UserProfile
	for _, p := range m.profiles {
		all = append(all, p)
	}
	return all, nil
}

func (m *memoryStores) ProfilesByIDs(_ context.Context, ids []string) ([]models.UserProfile, error) {
	var out []models.UserProfile
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStores) AddConnection(_ context.Context, userID, peerID string) (bool, error) {
	for _, id := range m.edges[userID] {
		if id == peerID {
			return false, nil
		}
	}
	m.edges[userID] = append(m.edges[userID], peerID)
	return true, nil
}

func (m *memoryStores) GetConnections(_ context.Context, userID string) ([]string, bool, error) {
	peers, found := m.edges[userID]
	return peers, found, nil
}

func (m *memoryStores) Record(_ context.Context, recipientID, senderID, message, tag string) (models.Notification, error) {
	n := models.Notification{NotificationID: tag + "#" + senderID + "#" + recipientID, UserID: recipientID, ConnectID: senderID, Message: message, Tag: tag}
	m.notifications[n.NotificationID] = n
	return n, nil
}

func (m *memoryStores) RecordRequest(ctx context.Context, recipientID, senderID, message, tag string) (models.Notification, error) {
	id := tag + "#" + senderID + "#" + recipientID
	if existing, ok := m.notifications[id]; ok && !existing.Viewed {
		return models.Notification{}, services.ErrDuplicateNotification
	}
	return m.Record(ctx, recipientID, senderID, message, tag)
}

func (m *memoryStores) ListUnviewed(_ context.Context, userID string) ([]models.Notification, error) {
	feed := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Viewed {
			feed = append(feed, n)
		}
	}
	return feed, nil
}

func (m *memoryStores) Get(_ context.Context, notificationID string) (models.Notification, error) {
	n, ok := m.notifications[notificationID]
	if !ok {
		return models.Notification{}, services.ErrNotFound
	}
	return n, nil
}

func (m *memoryStores) MarkViewed(_ context.Context, notificationID string) (models.Notification, error) {
	n, ok := m.notifications[notificationID]
	if !ok {
		return models.Notification{}, services.ErrNotFound
	}
	n.Viewed = true
	m.notifications[notificationID] = n
	return n, nil
}

func newTestController() (*TrackController, *memoryStores) {
	stores := newMemoryStores()
	svc := &services.TrackService{
		Profiles:      stores,
		Connections:   stores,
		Notifications: stores,
		RadiusMeters:  50,
	}
	return NewTrackController(svc), stores
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleGetNearbyUsersEnvelope(t *testing.T) {
	controller, stores := newTestController()
	stores.profiles["B"] = models.UserProfile{
		UserID:   "B",
		Location: &models.Location{Latitude: "12.9716", Longitude: "77.5946"},
	}

	rec := postJSON(t, controller.HandleGetNearbyUsers, map[string]interface{}{
		"latitude":  12.9716,
		"longitude": 77.5946,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestHandleGetNearbyUsersRejectsMissingCoordinate(t *testing.T) {
	controller, _ := newTestController()

	rec := postJSON(t, controller.HandleGetNearbyUsers, map[string]interface{}{"latitude": 12.9716})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestHandleConnectEnvelopes(t *testing.T) {
	controller, _ := newTestController()
	payload := map[string]string{"userId": "A", "connectId": "B"}

	rec := postJSON(t, controller.HandleConnect, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully connected users", decodeBody(t, rec)["message"])

	// Second call hits the existing edge.
	rec = postJSON(t, controller.HandleConnect, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already connected", decodeBody(t, rec)["message"])
}

func TestHandleSendRequestDeduplicates(t *testing.T) {
	controller, _ := newTestController()
	payload := map[string]string{"userId": "B", "connectId": "A"}

	rec := postJSON(t, controller.HandleSendRequest, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification sent", decodeBody(t, rec)["message"])

	rec = postJSON(t, controller.HandleSendRequest, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already notified", decodeBody(t, rec)["message"])
}

func TestHandleNotificationsReturnsRawFeed(t *testing.T) {
	controller, stores := newTestController()
	_, err := stores.Record(context.Background(), "B", "A", "A is nearby and wants to connect", models.TagConnect)
	require.NoError(t, err)

	rec := postJSON(t, controller.HandleNotifications, map[string]string{"userId": "B"})

	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "A", feed[0].ConnectID)
}

func TestHandleAcceptUnknownNotification(t *testing.T) {
	controller, _ := newTestController()

	rec := postJSON(t, controller.HandleAccept, map[string]string{
		"connectId":      "A",
		"userId":         "B",
		"notificationId": "missing",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found", decodeBody(t, rec)["error"])
}

func TestHandleAcceptAddsRequesterEdge(t *testing.T) {
	controller, stores := newTestController()
	n, err := stores.Record(context.Background(), "B", "A", "A is nearby and wants to connect", models.TagConnect)
	require.NoError(t, err)

	rec := postJSON(t, controller.HandleAccept, map[string]string{
		"connectId":      "A",
		"userId":         "B",
		"notificationId": n.NotificationID,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification accepted", decodeBody(t, rec)["message"])
	assert.Equal(t, []string{"B"}, stores.edges["A"])
}

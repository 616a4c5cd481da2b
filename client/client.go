// Package client is a typed HTTP client for the tracking server, mirroring
// the calls the mobile app makes. The dispatcher runs on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"network_server/models"
)

// Client calls the server's HTTP surface. Zero value is not usable; construct
// with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type nearbyResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    []models.UserProfile `json:"data"`
}

// NearbyUsers fetches every user within the server's radius of the coordinate.
func (c *Client) NearbyUsers(ctx context.Context, latitude, longitude float64) ([]models.UserProfile, error) {
	payload := map[string]string{
		"latitude":  strconv.FormatFloat(latitude, 'f', -1, 64),
		"longitude": strconv.FormatFloat(longitude, 'f', -1, 64),
	}

	var response nearbyResponse
	if err := c.post(ctx, "/track/getAll", payload, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("nearby users request failed: %s", response.Message)
	}
	return response.Data, nil
}

// Connect links userID to connectID. "Already connected" is success.
func (c *Client) Connect(ctx context.Context, userID, connectID string) (string, error) {
	payload := map[string]string{"userId": userID, "connectId": connectID}

	var response struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/track/connect", payload, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// SendConnectRequest raises a proximity Connect notification to recipientID.
// A still-pending duplicate is reported as success by the server.
func (c *Client) SendConnectRequest(ctx context.Context, recipientID, senderID string) error {
	payload := map[string]string{"userId": recipientID, "connectId": senderID}
	var response struct {
		Message string `json:"message"`
	}
	return c.post(ctx, "/track/send", payload, &response)
}

// Notifications fetches the unviewed feed for a user.
func (c *Client) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	payload := map[string]string{"userId": userID}
	var notifications []models.Notification
	if err := c.post(ctx, "/track/notification", payload, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Accept actions a pending notification.
func (c *Client) Accept(ctx context.Context, connectID, notificationID, userID string) (models.Notification, error) {
	payload := map[string]string{
		"connectId":      connectID,
		"notificationId": notificationID,
		"userId":         userID,
	}
	var response struct {
		Message      string              `json:"message"`
		Notification models.Notification `json:"notification"`
	}
	if err := c.post(ctx, "/track/accept", payload, &response); err != nil {
		return models.Notification{}, err
	}
	return response.Notification, nil
}

// Decline actions a pending notification without connecting.
func (c *Client) Decline(ctx context.Context, notificationID, userID string) (models.Notification, error) {
	payload := map[string]string{"notificationId": notificationID, "userId": userID}
	var response struct {
		Message      string              `json:"message"`
		Notification models.Notification `json:"notification"`
	}
	if err := c.post(ctx, "/track/decline", payload, &response); err != nil {
		return models.Notification{}, err
	}
	return response.Notification, nil
}

// Messages fetches the full conversation between two users, oldest first.
func (c *Client) Messages(ctx context.Context, sender, receiver string) ([]models.Message, error) {
	query := url.Values{"sender": {sender}, "receiver": {receiver}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/messages?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := c.do(req, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Send persists a chat message.
func (c *Client) Send(ctx context.Context, sender, receiver, content string) (models.Message, error) {
	payload := map[string]string{"sender": sender, "receiver": receiver, "content": content}
	var response struct {
		Message    string         `json:"message"`
		NewMessage models.Message `json:"newMessage"`
	}
	if err := c.post(ctx, "/messages/send", payload, &response); err != nil {
		return models.Message{}, err
	}
	return response.NewMessage, nil
}

// RecentMessage mirrors the recent-summary entry shape.
type RecentMessage struct {
	ConnectionID  string  `json:"connectionId"`
	RecentMessage string  `json:"recentMessage"`
	Time          *string `json:"time"`
}

// RecentMessages fetches the latest exchange with each connection.
func (c *Client) RecentMessages(ctx context.Context, userID string) ([]RecentMessage, error) {
	payload := map[string]string{"userId": userID}
	var response struct {
		RecentMessages []RecentMessage `json:"recentMessages"`
	}
	if err := c.post(ctx, "/messages/recent", payload, &response); err != nil {
		return nil, err
	}
	return response.RecentMessages, nil
}

// UpdateLocation pushes the device coordinate to the user's profile.
func (c *Client) UpdateLocation(ctx context.Context, userID string, latitude, longitude float64) error {
	payload := map[string]interface{}{
		"userId": userID,
		"location": models.Location{
			Latitude:  strconv.FormatFloat(latitude, 'f', -1, 64),
			Longitude: strconv.FormatFloat(longitude, 'f', -1, 64),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/profile/update", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(req, &response); err != nil {
		return err
	}
	if !response.Success {
		return fmt.Errorf("location update failed: %s", response.Message)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

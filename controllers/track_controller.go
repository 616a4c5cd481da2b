package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"network_server/services"
)

// TrackController struct
type TrackController struct {
	TrackService *services.TrackService
}

// NewTrackController initializes the track controller
func NewTrackController(service *services.TrackService) *TrackController {
	return &TrackController{TrackService: service}
}

// HandleGetNearbyUsers - nearby users for a coordinate
func (c *TrackController) HandleGetNearbyUsers(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Latitude  json.Number `json:"latitude"`
		Longitude json.Number `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Latitude and longitude are required.",
		})
		return
	}

	users, err := c.TrackService.GetNearbyUsers(r.Context(), request.Latitude.String(), request.Longitude.String())
	if errors.Is(err, services.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Latitude and longitude are required.",
		})
		return
	}
	if err != nil {
		log.Printf("Error fetching nearby users: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Error fetching nearby users.",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Nearby users retrieved successfully.",
		"data":    users,
	})
}

// HandleConnect - direct connect between two users
func (c *TrackController) HandleConnect(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		ConnectID string `json:"connectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId and connectId are required"})
		return
	}

	err := c.TrackService.Connect(r.Context(), request.UserID, request.ConnectID)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId and connectId are required"})
	case errors.Is(err, services.ErrAlreadyConnected):
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already connected"})
	case err != nil:
		log.Printf("Error connecting users: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error occurred while connecting users"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message":     "Successfully connected users",
			"userId":      request.UserID,
			"connectedTo": request.ConnectID,
		})
	}
}

// HandleSendRequest - proximity Connect notification to a nearby user
func (c *TrackController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		ConnectID string `json:"connectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId and connectId are required"})
		return
	}

	notification, err := c.TrackService.SendRequest(r.Context(), request.UserID, request.ConnectID)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId and connectId are required"})
	case errors.Is(err, services.ErrDuplicateNotification):
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already notified"})
	case err != nil:
		log.Printf("Error sending notification: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error occurred while sending the notification"})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":      "Notification sent",
			"notification": notification,
		})
	}
}

// HandleNotifications - unviewed notification feed for a user
func (c *TrackController) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId is required"})
		return
	}

	notifications, err := c.TrackService.UnviewedNotifications(r.Context(), request.UserID)
	if err != nil {
		log.Printf("Error fetching notifications: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error occurred while fetching notifications"})
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// HandleAccept - accept a pending notification
func (c *TrackController) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConnectID      string `json:"connectId"`
		UserID         string `json:"userId"`
		NotificationID string `json:"notificationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "connectId, userId and notificationId are required"})
		return
	}

	notification, err := c.TrackService.Accept(r.Context(), request.NotificationID, request.UserID, request.ConnectID)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "connectId, userId and notificationId are required"})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Notification not found"})
	case err != nil:
		log.Printf("Error accepting notification: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An error occurred while accepting the notification"})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":      "Notification accepted",
			"notification": notification,
		})
	}
}

// HandleDecline - decline a pending notification
func (c *TrackController) HandleDecline(w http.ResponseWriter, r *http.Request) {
	var request struct {
		NotificationID string `json:"notificationId"`
		UserID         string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "notificationId and userId are required"})
		return
	}

	notification, err := c.TrackService.Decline(r.Context(), request.NotificationID, request.UserID)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "notificationId and userId are required"})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Notification not found"})
	case err != nil:
		log.Printf("Error declining notification: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An error occurred while declining the notification"})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":      "Notification declined",
			"notification": notification,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"network_server/services"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleGetMessages - full history between ?sender and ?receiver, ascending
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	sender := r.URL.Query().Get("sender")
	receiver := r.URL.Query().Get("receiver")

	messages, err := c.ChatService.History(r.Context(), sender, receiver)
	if errors.Is(err, services.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sender and receiver are required"})
		return
	}
	if err != nil {
		log.Printf("Error fetching messages: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage - durable write; the live relay publishes separately
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Sender   string `json:"sender"`
		Receiver string `json:"receiver"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sender, receiver and content are required"})
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), request.Sender, request.Receiver, request.Content)
	if errors.Is(err, services.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sender, receiver and content are required"})
		return
	}
	if err != nil {
		log.Printf("Error sending message: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Message sent",
		"newMessage": message,
	})
}

// HandleRecentMessages - latest exchange per connection
func (c *ChatController) HandleRecentMessages(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	summaries, err := c.ChatService.RecentMessages(r.Context(), request.UserID)
	if errors.Is(err, services.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}
	if err != nil {
		log.Printf("Error fetching recent messages: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recentMessages": summaries})
}

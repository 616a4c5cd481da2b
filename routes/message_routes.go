package routes

import (
	"network_server/controllers"
	"network_server/services"

	"github.com/gorilla/mux"
)

// RegisterMessageRoutes sets up durable chat routes under /messages
func RegisterMessageRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	messageRouter := r.PathPrefix("/messages").Subrouter()

	messageRouter.HandleFunc("", controller.HandleGetMessages).Methods("GET")
	messageRouter.HandleFunc("/send", controller.HandleSendMessage).Methods("POST")
	messageRouter.HandleFunc("/recent", controller.HandleRecentMessages).Methods("POST")
}

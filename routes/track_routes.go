package routes

import (
	"network_server/controllers"
	"network_server/services"

	"github.com/gorilla/mux"
)

// RegisterTrackRoutes sets up proximity and lifecycle routes under /track
func RegisterTrackRoutes(r *mux.Router, trackService *services.TrackService) {
	controller := controllers.NewTrackController(trackService)

	trackRouter := r.PathPrefix("/track").Subrouter()

	trackRouter.HandleFunc("/getAll", controller.HandleGetNearbyUsers).Methods("POST")
	trackRouter.HandleFunc("/connect", controller.HandleConnect).Methods("POST")
	trackRouter.HandleFunc("/send", controller.HandleSendRequest).Methods("POST")
	trackRouter.HandleFunc("/notification", controller.HandleNotifications).Methods("POST")
	trackRouter.HandleFunc("/accept", controller.HandleAccept).Methods("POST")
	trackRouter.HandleFunc("/decline", controller.HandleDecline).Methods("POST")
}

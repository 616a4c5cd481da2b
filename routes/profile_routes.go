package routes

import (
	"network_server/controllers"
	"network_server/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up profile routes under /profile
func RegisterProfileRoutes(r *mux.Router, profileService *services.ProfileService, trackService *services.TrackService) {
	controller := controllers.NewProfileController(profileService, trackService)

	profileRouter := r.PathPrefix("/profile").Subrouter()

	profileRouter.HandleFunc("/create", controller.HandleCreateProfile).Methods("POST")
	profileRouter.HandleFunc("/signup", controller.HandleSignup).Methods("POST")
	profileRouter.HandleFunc("/login", controller.HandleLogin).Methods("POST")
	profileRouter.HandleFunc("/getprofile", controller.HandleGetProfiles).Methods("GET")
	profileRouter.HandleFunc("/update", controller.HandleUpdateLocation).Methods("PUT")
	profileRouter.HandleFunc("/getconnections", controller.HandleGetConnections).Methods("POST")
}

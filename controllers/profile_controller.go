package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"network_server/models"
	"network_server/services"
)

// ProfileController struct
type ProfileController struct {
	ProfileService *services.ProfileService
	TrackService   *services.TrackService
}

// NewProfileController initializes the profile controller
func NewProfileController(profileService *services.ProfileService, trackService *services.TrackService) *ProfileController {
	return &ProfileController{ProfileService: profileService, TrackService: trackService}
}

// HandleCreateProfile - create a profile without credentials
func (c *ProfileController) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Missing required fields: userId, name, longitude, or latitude",
		})
		return
	}
	c.createProfile(w, r, profile, "")
}

// HandleSignup - create a profile with a hashed password
func (c *ProfileController) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var request struct {
		models.UserProfile
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Missing required fields: userId, name, longitude, or latitude",
		})
		return
	}
	c.createProfile(w, r, request.UserProfile, request.Password)
}

func (c *ProfileController) createProfile(w http.ResponseWriter, r *http.Request, profile models.UserProfile, password string) {
	var err error
	if password != "" {
		err = c.ProfileService.Signup(r.Context(), profile, password)
	} else {
		err = c.ProfileService.CreateProfile(r.Context(), profile)
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Missing required fields: userId, name, longitude, or latitude",
		})
	case errors.Is(err, services.ErrProfileExists):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Profile already exists for this userId",
		})
	case err != nil:
		log.Printf("Error creating profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Error creating profile",
			"error":   err.Error(),
		})
	default:
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Profile created successfully",
			"data":    profile,
		})
	}
}

// HandleLogin - phone + password login
func (c *ProfileController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Phone number and password are required",
		})
		return
	}

	profile, err := c.ProfileService.Login(r.Context(), request.Phone, request.Password)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Phone number and password are required",
		})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "No user found with this phone number",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "Incorrect password",
		})
	case err != nil:
		log.Printf("Error during login: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Error during login",
			"error":   err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Login successful",
			"data":    profile,
		})
	}
}

// HandleGetProfiles - every stored profile
func (c *ProfileController) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.ProfileService.AllProfiles(r.Context())
	if err != nil {
		log.Printf("Error fetching profiles: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Error fetching Profile account",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile fetched successfully",
		"data":    profiles,
	})
}

// HandleUpdateLocation - overwrite a user's stored coordinate
func (c *ProfileController) HandleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string          `json:"userId"`
		Location models.Location `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "userId and location are required",
		})
		return
	}

	err := c.ProfileService.UpdateLocation(r.Context(), request.UserID, request.Location)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "userId and location are required",
		})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "No profile found for this userId",
		})
	case err != nil:
		log.Printf("Error updating location: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Error updating location",
			"error":   err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Location updated successfully",
		})
	}
}

// HandleGetConnections - resolve a user's connections to profiles
func (c *ProfileController) HandleGetConnections(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "userId is required",
		})
		return
	}

	profiles, err := c.TrackService.ConnectionProfiles(r.Context(), request.UserID)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "userId is required",
		})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "No connections found for this userId",
		})
	case err != nil:
		log.Printf("Error fetching connection profiles: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Error fetching connection profiles",
			"error":   err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Connections fetched successfully",
			"data":    profiles,
		})
	}
}

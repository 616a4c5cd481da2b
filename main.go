package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"network_server/routes"
	"network_server/services"
	"network_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env when present; real deployments use environment variables.
	_ = godotenv.Load()

	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	profileService := &services.ProfileService{Dynamo: dynamoService}
	connectionService := &services.ConnectionService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{Dynamo: dynamoService}
	messageService := &services.MessageService{Dynamo: dynamoService}

	trackService := &services.TrackService{
		Profiles:      profileService,
		Connections:   connectionService,
		Notifications: notificationService,
		RadiusMeters:  nearbyRadius(),
	}
	chatService := &services.ChatService{
		Messages:    messageService,
		Connections: connectionService,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Hello World!")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Real-time relay
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterTrackRoutes(r, trackService)
	routes.RegisterMessageRoutes(r, chatService)
	routes.RegisterProfileRoutes(r, profileService, trackService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func nearbyRadius() float64 {
	raw := os.Getenv("NEARBY_RADIUS_METERS")
	if raw == "" {
		return services.DefaultNearbyRadiusMeters
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || radius <= 0 {
		log.Printf("Ignoring invalid NEARBY_RADIUS_METERS %q", raw)
		return services.DefaultNearbyRadiusMeters
	}
	return radius
}

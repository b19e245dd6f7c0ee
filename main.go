package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"pairplan_server/controllers"
	"pairplan_server/realtime"
	"pairplan_server/routes"
	"pairplan_server/security"
	"pairplan_server/services"
	"pairplan_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

func main() {
	// Initialize DynamoDB client and stores
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	profileStore := &services.DynamoProfileStore{Dynamo: dynamoService}
	eventStore := &services.DynamoEventStore{Dynamo: dynamoService}
	sessionStore := &services.DynamoSessionStore{Dynamo: dynamoService}

	// Push delivery is best-effort; missing credentials disable it.
	var push services.PushSender
	pushClient, err := services.NewNativeNotifyClientFromEnv()
	if err != nil {
		log.Printf("⚠️ Push notifications disabled: %v", err)
	} else {
		push = pushClient
	}

	// Realtime change bus
	bus := realtime.NewBus()

	// Initialize Services
	linkService := &services.LinkService{Profiles: profileStore}
	accountService := &services.AccountService{Profiles: profileStore, Sessions: sessionStore, Links: linkService}
	eventService := &services.EventService{Events: eventStore, Profiles: profileStore, Push: push, Changes: bus}

	// Socket.IO server with per-connection event feeds
	feedManager := services.NewFeedManager(eventService)
	socketServer := socket.NewSocketServer(feedManager)
	bus.Attach(feedManager)
	bus.Attach(&socket.Hub{Server: socketServer})

	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Periodic repair of one-sided links left by crashes between the two
	// profile writes in link/unlink.
	reconcileService := &services.ReconcileService{Profiles: profileStore}
	schedule := os.Getenv("RECONCILE_SCHEDULE")
	if schedule == "" {
		schedule = "@every 10m"
	}
	scheduler, err := reconcileService.Start(schedule)
	if err != nil {
		log.Fatalf("Failed to start link reconciliation: %v", err)
	}
	defer scheduler.Stop()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterAccountRoutes(r, accountService)
	routes.RegisterLinkRoutes(r, linkService, accountService)
	routes.RegisterEventRoutes(r, eventService, accountService)
	routes.RegisterS3Routes(r, accountService)

	// Rate limiting + CORS middleware
	limiter := security.NewLimiterStore(rate.Limit(10), 30, 5*time.Minute)
	handler := limiter.Middleware(r)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"penpal_server/config"
	"penpal_server/routes"
	"penpal_server/services"
	"penpal_server/store"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and stores
	log.Println("Initializing DynamoDB client...")
	dynamoClient := store.InitializeDynamoDBClient()
	stores := store.NewDynamoStore(dynamoClient, cfg.TablePrefix).Bundle()
	log.Println("DynamoDB client initialized.")

	clock := services.RealClock{}
	delay := services.DelayService{}

	// Initialize Services
	friendshipService := &services.FriendshipService{Friendships: stores.Friendships, Clock: clock}
	draftService := &services.DraftService{Drafts: stores.Drafts, Clock: clock}
	letterService := &services.LetterService{
		Letters:     stores.Letters,
		Transits:    stores.Transits,
		Users:       stores.Users,
		Friendships: friendshipService,
		Drafts:      draftService,
		Delay:       delay,
		Clock:       clock,
	}
	friendRequestService := &services.FriendRequestService{
		Requests:    stores.Requests,
		Letters:     stores.Letters,
		Transits:    stores.Transits,
		Users:       stores.Users,
		Friendships: friendshipService,
		Clock:       clock,
		Delay:       delay,
	}
	schedulerService := &services.SchedulerService{
		Letters:       stores.Letters,
		Requests:      stores.Requests,
		Transits:      stores.Transits,
		Friendships:   friendshipService,
		Users:         stores.Users,
		Clock:         clock,
		SweepInterval: cfg.SweepInterval,
		CycleInterval: cfg.CycleInterval,
	}
	userProfileService := &services.UserProfileService{Users: stores.Users}
	attachmentService, err := services.NewAttachmentService(cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize attachment service: %v", err)
	}

	// Start the background scheduler
	schedulerService.Start()
	defer schedulerService.Stop()

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to the pen-pal post office")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Register routes
	routes.RegisterLetterRoutes(r, letterService)
	routes.RegisterFriendRequestRoutes(r, friendRequestService)
	routes.RegisterFriendshipRoutes(r, friendshipService)
	routes.RegisterDraftRoutes(r, draftService)
	routes.RegisterSchedulerRoutes(r, schedulerService)
	routes.RegisterAttachmentRoutes(r, attachmentService)
	routes.RegisterUserRoutes(r, userProfileService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: corsHandler}

	go func() {
		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Stop the scheduler and drain connections on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

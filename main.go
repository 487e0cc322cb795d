package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/verdeflow/verde-assistant-service/config"
	"github.com/verdeflow/verde-assistant-service/endpoints"
	"github.com/verdeflow/verde-assistant-service/internal/groq"
	"github.com/verdeflow/verde-assistant-service/internal/supabase"
	"github.com/verdeflow/verde-assistant-service/middleware"
	"github.com/verdeflow/verde-assistant-service/utils"
)

const ServiceName = "verde-assistant-service"

var (
	version   string
	branch    string
	commit    string
	buildDate string
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			utils.SetVersion(version, branch, commit, buildDate)
			fmt.Println(utils.GetVersion().Str)
			os.Exit(0)
		case "help", "--help", "-h":
			fmt.Println("Verde Assistant Service")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  verde-assistant-service            Start the service")
			fmt.Println("  verde-assistant-service version    Display version information")
			os.Exit(0)
		}
	}

	utils.SetVersion(version, branch, commit, buildDate)

	cfg := config.Load()
	log.Printf("Configuration: %s", cfg)

	// External collaborators. Missing credentials are reported per request
	// as missing_configuration, so the health endpoint stays reachable.
	var supabaseClient *supabase.Client
	if err := cfg.RequireSupabase(); err == nil {
		supabaseClient = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	} else {
		log.Printf("WARNING: %v - assistant endpoints will reject requests", err)
	}

	var groqClient *groq.Client
	if err := cfg.RequireGroq(); err == nil {
		groqClient = groq.NewClient("", cfg.GroqAPIKey, cfg.GroqModel)
	} else {
		log.Printf("WARNING: %v - audio and free-text requests will be rejected", err)
	}

	// Redis is optional; without it auth lookups just skip the cache.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("WARNING: Redis unreachable at %s, auth cache disabled: %v", cfg.RedisAddr, err)
			redisClient = nil
		} else {
			log.Println("Redis connected successfully")
		}
	}

	auth := &middleware.Authenticator{
		Supabase: supabaseClient,
		Redis:    redisClient,
		Gate:     utils.NewLogGate(time.Minute, nil),
	}

	router := mux.NewRouter()
	// /service is public (for health checks); everything else requires a user.
	router.HandleFunc("/service", endpoints.ServiceHandler).Methods("GET")
	router.HandleFunc("/assistant", auth.RequireUser(endpoints.AssistantHandler(cfg, supabaseClient, groqClient))).Methods("POST")
	router.HandleFunc("/plans/appointments", auth.RequireUser(endpoints.GeneratePlanAppointmentHandler(supabaseClient))).Methods("POST")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.CorsMiddleware(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // transcription + interpretation can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		fmt.Printf("Starting %s on :%s\n", ServiceName, cfg.Port)
		utils.SetHealthStatus("OK", "Service is running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server crashed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down service...")

	utils.SetHealthStatus("SHUTTING_DOWN", "Service is shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Println("Service exited cleanly")
}

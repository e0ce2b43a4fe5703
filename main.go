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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vietharvest/agrichat/agent"
	"github.com/vietharvest/agrichat/api"
	"github.com/vietharvest/agrichat/backend"
	"github.com/vietharvest/agrichat/chat"
	"github.com/vietharvest/agrichat/config"
	"github.com/vietharvest/agrichat/policy"
	"github.com/vietharvest/agrichat/store"
	"github.com/vietharvest/agrichat/tools"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chat gateway...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Backend: %s", cfg.BackendURL)
	log.Printf("Model: %s", cfg.GeminiModel)

	// Initialize history store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize backend client and tool catalog
	backendClient := backend.NewClient(cfg.BackendURL, cfg.AgentAPIKey, 30*time.Second)
	registry := tools.NewCatalog(backendClient)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize agent
	agentLoop := agent.New(agent.Config{
		BaseURL:   cfg.LLMBaseURL,
		APIKey:    cfg.GeminiAPIKey,
		Model:     cfg.GeminiModel,
		MaxRounds: cfg.MaxToolRounds,
	}, registry, policyEngine)

	// Initialize chat service
	svc := chat.New(agentLoop, db, chat.DefaultSystemPrompt, cfg.AgentTimeout)

	// Initialize handler
	h := api.NewHandler(svc)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat gateway started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat gateway...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat gateway stopped")
}

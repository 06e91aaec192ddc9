package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/app"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/handlers"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/router"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	container, err := app.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize services: %v", err)
	}
	defer container.Shutdown()

	r := router.SetupRouter(router.Handlers{
		Auth:       handlers.NewAuthHandler(container.AuthMiddleware),
		Flow:       handlers.NewFlowHandler(container.FlowManager),
		Validation: handlers.NewValidationHandler(container.PositionService),
		Position:   handlers.NewPositionHandler(container.PositionService),
		Chain:      handlers.NewChainHandler(container.Registry),
		Push:       container.PushService,
		AuthMW:     container.AuthMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Lending gateway listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("❌ Server exited: %v", err)
	}
}

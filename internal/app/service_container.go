package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/clients"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/db"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/events"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/ledger"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/middleware"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/services"
)

// ServiceContainer holds every long-lived service, wired once at startup.
type ServiceContainer struct {
	Config   *config.Config
	Registry *chains.Registry
	DB       *gorm.DB
	Logger   *logrus.Logger

	Ledger     *ledger.Client
	Signer     ledger.Signer
	CctxClient *clients.CctxClient

	Publisher       *events.Publisher
	PushService     *services.WebSocketPushService
	FlowManager     *services.FlowManager
	PositionService *services.PositionService
	AuthMiddleware  *middleware.AuthMiddleware
}

// Global service container instance
var Container *ServiceContainer
var containerOnce sync.Once

// InitializeContainer wires the container from the loaded configuration.
// Safe to call more than once; only the first call initializes.
func InitializeContainer(cfg *config.Config) (*ServiceContainer, error) {
	var initErr error
	containerOnce.Do(func() {
		Container, initErr = buildContainer(cfg)
	})
	if initErr != nil {
		return nil, initErr
	}
	return Container, nil
}

func buildContainer(cfg *config.Config) (*ServiceContainer, error) {
	logger := logrus.New()
	registry := cfg.Registry()

	database, err := db.InitDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Signer.PrivateKey == "" {
		return nil, fmt.Errorf("no signer private key configured (set SIGNER_PRIVATE_KEY)")
	}
	signer, err := ledger.NewPrivateKeySigner(cfg.Signer.PrivateKey, cfg.Signer.InitialChain, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signer: %w", err)
	}
	log.Printf("🔑 Signer address: %s", signer.Address().Hex())

	ledgerClient := ledger.NewClient(registry, signer, cfg.Flow)
	cctxClient := clients.NewCctxClient(cfg.Tracker.BaseURL, time.Duration(cfg.Tracker.Timeout)*time.Second)

	publisher, err := events.NewPublisher(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}

	pushService := services.NewWebSocketPushService()
	flowManager := services.NewFlowManager(
		cfg, registry,
		ledgerClient, ledgerClient, signer,
		cctxClient,
		database, publisher, pushService,
	)
	positionService := services.NewPositionService(registry, ledgerClient)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth, logger)

	log.Printf("✅ Service container initialized (%d chains registered)", len(registry.All()))
	return &ServiceContainer{
		Config:          cfg,
		Registry:        registry,
		DB:              database,
		Logger:          logger,
		Ledger:          ledgerClient,
		Signer:          signer,
		CctxClient:      cctxClient,
		Publisher:       publisher,
		PushService:     pushService,
		FlowManager:     flowManager,
		PositionService: positionService,
		AuthMiddleware:  authMiddleware,
	}, nil
}

// Shutdown releases external connections.
func (c *ServiceContainer) Shutdown() {
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	log.Println("👋 Service container shut down")
}

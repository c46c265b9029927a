package bootstrap

import (
	"context"
	"log"
	"path/filepath"

	"legal-docchat-be/internal/config"
	"legal-docchat-be/internal/controller"
	"legal-docchat-be/internal/handler"
	"legal-docchat-be/internal/pkg/logger"
	"legal-docchat-be/internal/service"
	internalWS "legal-docchat-be/internal/websocket"
	"legal-docchat-be/pkg/analysis"
	"legal-docchat-be/pkg/citation"
	"legal-docchat-be/pkg/session"

	pktNats "legal-docchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *internalWS.Hub

	// Background services (exposed for main.go to run)
	HealthService *service.HealthService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	wsLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "websocket.log"))

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// NATS mirror is optional; a missing broker never blocks startup.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Redis fan-out for multi-instance toast delivery, also optional.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, running single-instance: %v", err)
		} else {
			rdb = redis.NewClient(opts)
			if err := rdb.Ping(context.Background()).Err(); err != nil {
				log.Printf("[WARN] Redis unreachable, running single-instance: %v", err)
				rdb = nil
			}
		}
	}

	// 3. WebSocket hub
	hub := internalWS.NewHub(rdb, wsLogger)
	go hub.Run()

	// 4. Domain services
	backend := analysis.NewClient(cfg.Backend.BaseURL)
	publisher := service.NewPublisherService(pubSub, natsPub)
	manager := session.NewManager(backend, publisher, sysLogger)
	lookup := citation.NewLookup()

	sessionService := service.NewSessionService(manager, lookup)

	notificationService := service.NewNotificationService(pubSub, hub, wsLogger, cfg.Toast.HealthCheckDuration)
	if err := notificationService.Start(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to start notification service: %v", err)
	}

	healthService := service.NewHealthService(backend, publisher, sysLogger, cfg.Backend.HealthProbeInterval)

	// 5. Delivery
	sessionController := controller.NewSessionController(sessionService, sysLogger)
	notificationHandler := handler.NewNotificationHandler(notificationService, hub, wsLogger)

	return &Container{
		SessionController:   sessionController,
		NotificationHandler: notificationHandler,
		WebSocketHub:        hub,
		HealthService:       healthService,
	}
}

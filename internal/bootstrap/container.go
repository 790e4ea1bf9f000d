package bootstrap

import (
	"context"
	"log"

	"booton-be/internal/config"
	"booton-be/internal/controller"
	"booton-be/internal/handler"
	"booton-be/internal/pkg/logger"
	"booton-be/internal/pkg/mailer"
	"booton-be/internal/repository/implementation"
	"booton-be/internal/repository/memory"
	"booton-be/internal/repository/unitofwork"
	"booton-be/internal/service"
	"booton-be/internal/websocket"
	"booton-be/pkg/chat/realtime"
	"booton-be/pkg/storage"

	pktNats "booton-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController       controller.IChatController
	CoachController      controller.ICoachController
	EnrollmentController controller.IEnrollmentController
	RatingController     controller.IRatingController
	ProgressController   controller.IProgressController
	UserController       controller.IUserController
	FileController       controller.IFileController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Held so main can close them on shutdown.
	Broker  *realtime.Broker
	NatsPub *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Realtime chat broker
	watermillLogger := watermill.NewStdLogger(false, false)
	broker := realtime.NewBroker(watermillLogger)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Blob storage
	blobStore := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.App.BaseURL, cfg.Storage.SignSecret)
	uploader := storage.NewUploader(
		blobStore,
		cfg.Storage.ImageBucket,
		cfg.Storage.FileBucket,
		cfg.Storage.FallbackBucket,
		cfg.Storage.SignTTL,
	)

	// 3. Services
	chatService := service.NewChatService(uowFactory, uploader, broker, natsPub, sysLogger)
	chatBackend := service.NewChatSessionBackend(chatService)
	brokerFeed := service.NewBrokerFeed(broker)

	coachCache := memory.NewDirectoryCache()
	coachService := service.NewCoachService(uowFactory, coachCache)
	enrollmentService := service.NewEnrollmentService(uowFactory, emailService, natsPub, sysLogger)
	ratingService := service.NewRatingService(uowFactory, coachCache, natsPub, sysLogger)
	progressService := service.NewProgressService(uowFactory)
	userService := service.NewUserService(uowFactory, blobStore, cfg.Storage.FallbackBucket)

	// 3.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, uowFactory, natsSub, wsHub, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler:  notifHandler,
		WebSocketHub:         wsHub,
		Broker:               broker,
		NatsPub:              natsPub,
		ChatController:       controller.NewChatController(chatService, chatBackend, uploader, brokerFeed, sysLogger),
		CoachController:      controller.NewCoachController(coachService),
		EnrollmentController: controller.NewEnrollmentController(enrollmentService),
		RatingController:     controller.NewRatingController(ratingService),
		ProgressController:   controller.NewProgressController(progressService),
		UserController:       controller.NewUserController(userService),
		FileController:       controller.NewFileController(blobStore),
	}
}

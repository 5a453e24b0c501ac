package routes

import (
	"context"
	"log"
	"os"

	_ "offer_negotiation/docs" // generated by swag init
	"offer_negotiation/internal/adapter/http/handlers"
	"offer_negotiation/internal/adapter/http/middleware"
	"offer_negotiation/internal/adapter/persistence/memory"
	"offer_negotiation/internal/adapter/persistence/repository"
	"offer_negotiation/internal/adapter/websocket"
	"offer_negotiation/internal/infrastructure/config"
	"offer_negotiation/internal/infrastructure/database"
	"offer_negotiation/internal/infrastructure/pubsub"
	"offer_negotiation/internal/usecase"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	err = router.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg config.Config) {
	ctx := context.Background()

	offerRepo, negotiationRepo := newRepositories(ctx, cfg)

	store := usecase.NewNegotiationStore(negotiationRepo, usecase.RetryPolicy{
		MaxRetries:      cfg.PersistenceMaxRetries,
		InitialInterval: cfg.PersistenceRetryInitial,
		MaxInterval:     cfg.PersistenceRetryMaxBackoff,
	})
	coordinator := usecase.NewConfirmationCoordinator(store, offerRepo)
	offerUseCase := usecase.NewOfferUseCase(offerRepo)

	// The hub answers frames through the WebSocket handler, which needs the
	// gateway, which needs the hub as publisher.
	var wsHandler *handlers.WSHandler
	hub := websocket.NewHub(func(ctx context.Context, userID string, frame []byte) []byte {
		return wsHandler.HandleFrame(ctx, userID, frame)
	}, handlers.EncodeEvent)

	gateway := usecase.NewSyncGateway(offerRepo, store, coordinator, newPublisher(ctx, cfg, hub))

	wsHandler = handlers.NewWSHandler(gateway, hub)
	negotiationHandler := handlers.NewNegotiationHandler(gateway)
	offerHandler := handlers.NewOfferHandler(offerUseCase)

	auth := middleware.Auth(middleware.NewTokenVerifier(cfg.JWTSecret))

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)

	// Rotas autenticadas
	protected := v1.Group("", auth)
	addNegotiationRoutes(protected, negotiationHandler, offerHandler, wsHandler)
}

func newRepositories(ctx context.Context, cfg config.Config) (interfaces.IOfferRepository, interfaces.INegotiationRepository) {
	switch cfg.PersistenceDriver {
	case config.DriverMemory:
		log.Printf("[routes] using in-memory persistence, state is lost on restart")
		return memory.NewOfferMemoryRepository(), memory.NewNegotiationMemoryRepository()

	case config.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		if err := repository.EnsurePostgresSchema(ctx, pool); err != nil {
			log.Fatalf("Failed to prepare Postgres schema: %v", err)
		}
		return repository.NewOfferPostgresRepository(pool), repository.NewNegotiationPostgresRepository(pool)
	}

	ddb, err := database.ConnectDynamoDB(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to DynamoDB: %v", err)
	}
	offerRepo := repository.NewOfferDynamoRepository(ddb)
	negotiationRepo := repository.NewNegotiationDynamoRepository(ddb)

	if os.Getenv("DYNAMODB_ENDPOINT") != "" {
		stateTable, historyTable := negotiationRepo.TableNames()
		err := database.EnsureDynamoTables(ctx, ddb,
			database.TableSpec{Name: offerRepo.TableName(), HashKey: "id"},
			database.TableSpec{Name: stateTable, HashKey: "offer_id"},
			database.TableSpec{Name: historyTable, HashKey: "offer_id", SortKey: "seq"},
		)
		if err != nil {
			log.Fatalf("Failed to create local DynamoDB tables: %v", err)
		}
	}
	return offerRepo, negotiationRepo
}

// newPublisher fans events out through Redis when configured so that sessions
// on other instances receive them. Every instance, this one included, then
// delivers to its own sessions from the subscription.
func newPublisher(ctx context.Context, cfg config.Config, hub *websocket.Hub) interfaces.IEventPublisher {
	if cfg.RedisAddr == "" {
		return hub
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	publisher := pubsub.NewRedisPublisher(rdb, cfg.RedisChannel, hub)
	go func() {
		if err := publisher.Run(ctx); err != nil {
			log.Printf("[routes] redis subscription stopped: %v", err)
		}
	}()
	return publisher
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}

package routes

import (
	"github.com/bnetpineda/PawScan-sub001/internal/config"
	"github.com/bnetpineda/PawScan-sub001/internal/handlers"
	"github.com/bnetpineda/PawScan-sub001/internal/middleware"
	"github.com/bnetpineda/PawScan-sub001/internal/repository"
	"github.com/bnetpineda/PawScan-sub001/internal/services"
	chatws "github.com/bnetpineda/PawScan-sub001/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, redisClient *redis.Client) {
	userRepo := repository.NewUserRepository(db)
	ownerProfileRepo := repository.NewOwnerProfileRepository(db)
	vetProfileRepo := repository.NewVetProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	var presenceService *services.PresenceService
	if redisClient != nil {
		presenceService = services.NewPresenceService(redisClient)
	}

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		ownerProfileRepo,
		vetProfileRepo,
		cfg.JWTSecret,
	)
	profileService := services.NewProfileService(ownerProfileRepo, vetProfileRepo)
	profileHandler := handlers.NewProfileHandler(profileService, ownerProfileRepo, vetProfileRepo, storageService)

	// Typed nil through an interface parameter would read as "present",
	// so the nil case is spelled out.
	var directoryService *services.DirectoryService
	if presenceService != nil {
		directoryService = services.NewDirectoryService(vetProfileRepo, conversationRepo, presenceService)
	} else {
		directoryService = services.NewDirectoryService(vetProfileRepo, conversationRepo, nil)
	}
	directoryHandler := handlers.NewDirectoryHandler(directoryService)

	var chatHub *chatws.Hub
	if presenceService != nil {
		chatHub = chatws.NewHub(presenceService)
	} else {
		chatHub = chatws.NewHub(nil)
	}
	go chatHub.Run()

	chatService := services.NewChatService(db, conversationRepo, messageRepo, ownerProfileRepo, vetProfileRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	owners := authProtected.Group("/owners")
	owners.Get("/profile", profileHandler.GetOwnerProfile)
	owners.Put("/profile", profileHandler.UpdateOwnerProfile)
	owners.Post("/profile/avatar", profileHandler.UploadOwnerAvatar)

	vets := authProtected.Group("/vets")
	vets.Get("", directoryHandler.ListVets)
	vets.Get("/profile", profileHandler.GetVetProfile)
	vets.Put("/profile", profileHandler.UpdateVetProfile)
	vets.Post("/profile/avatar", profileHandler.UploadVetAvatar)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)
	conversations.Post("/:id/read", chatHandler.MarkConversationRead)
	conversations.Delete("/:id", chatHandler.DeleteConversation)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}

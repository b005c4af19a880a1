package http

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/handler"
	"warbler/internal/repository"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/web"
)

// Run assembles the application and blocks serving HTTP.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	log.Println("[Server] Database connection established")

	var timelines cache.TimelineCache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisTimelineCache(context.Background(), cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close()
		timelines = rc
		log.Println("[Server] Timeline cache enabled")
	} else {
		log.Println("[Server] REDIS_URL not set, timeline cache disabled")
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	userService := service.NewUserService(userRepo, messageRepo, followRepo, likeRepo, cfg.DefaultImageURL, cfg.DefaultHeaderImageURL)
	followService := service.NewFollowService(followRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, followRepo, timelines)
	likeService := service.NewLikeService(likeRepo, messageRepo)
	timelineService := service.NewTimelineService(messageRepo, timelines)

	renderer, err := web.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	sessions := middleware.NewSessions(cfg.SessionSecret)
	pages := handler.NewPages(renderer, sessions)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, sessions, pages),
		HomeHandler:    handler.NewHomeHandler(timelineService, pages),
		UserHandler:    handler.NewUserHandler(userService, followService, messageService, likeService, sessions, pages),
		MessageHandler: handler.NewMessageHandler(messageService, likeService, sessions, pages),
		Sessions:       sessions,
		UserRepo:       userRepo,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("[Server] Listening on %s", addr)
	return http.ListenAndServe(addr, router)
}

package app

import (
	"context"
	"time"

	"blogsync/internal/cache"
	"blogsync/internal/config"
	"blogsync/internal/db"
	"blogsync/internal/handlers"
	"blogsync/internal/logger"
	"blogsync/internal/mirror"
	"blogsync/internal/notion"
	"blogsync/internal/repository"
	"blogsync/internal/revalidate"
	"blogsync/internal/routes"
	"blogsync/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const migrateTimeout = 30 * time.Second

func InitApp(cfg *config.Config) (*mux.Router, error) {
	// Notion
	notionClient := notion.NewClient(notion.OptionsFromConfig(cfg))

	// Хранилище картинок: без ключей Cloudinary зеркалирование выключено
	var uploader mirror.Uploader
	if cfg.CloudinaryConfigured() {
		cld, err := mirror.NewCloudinaryUploader(cfg)
		if err != nil {
			return nil, err
		}
		uploader = cld
	}

	// Журнал картинок: Postgres, если настроен, иначе память процесса
	var ledger services.ImageLedger
	if cfg.DatabaseConfigured() {
		conn, err := db.NewPostgresConnection(cfg)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		err = db.Migrate(ctx, conn)
		cancel()
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Журнал картинок в Postgres", zap.String("dsn", cfg.GetDSNSafe()))
		ledger = repository.NewImageAssetRepo(conn)
	} else {
		ledger = repository.NewMemoryImageAssetRepo()
	}

	// Кэш страниц
	var store cache.Store
	cacheShared := false
	if cfg.RedisAddress != "" {
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Кэш страниц в Redis", zap.String("addr", cfg.RedisAddress))
		store = cache.NewRedisStore(client, cfg.CacheTTL)
		cacheShared = true
	} else {
		store = cache.NewMemoryStore(cfg.CacheTTL)
	}

	invalidators := revalidate.Multi{store}
	if cfg.RevalidateURL != "" {
		logger.Log.Info("Ревалидация пересылается во фронтенд", zap.String("url", cfg.RevalidateURL))
		invalidators = append(invalidators, revalidate.NewRemote(cfg.RevalidateURL, cfg.RevalidateToken, cfg.RevalidateTimeout))
	}

	// Сервисы
	mirrorSvc := services.NewMirrorService(notionClient, uploader, ledger, cfg.MirrorConcurrency)
	dispatcher := services.NewDispatcher(notionClient, mirrorSvc, invalidators, cfg.WebhookConcurrency)
	postSvc := services.NewPostService(notionClient, mirrorSvc, store, cfg.PostsPerPage)

	// Хендлеры
	webhookHandler := handlers.NewNotionWebhookHandler(dispatcher, cfg.NotionWebhookSecret, cacheShared)
	// входящий /api/revalidate сбрасывает только свой кэш, иначе фронтенд получит запрос обратно
	revalidateHandler := handlers.NewRevalidateHandler(store, cfg.RevalidateToken)
	postHandler := handlers.NewPostHandler(postSvc)
	adminHandler := handlers.NewAdminHandler(mirrorSvc, invalidators)
	logsHandler := handlers.NewLogsHandler(logger.Dir)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, webhookHandler, revalidateHandler, postHandler, adminHandler, logsHandler)

	return router, nil
}

// Package main runs the video catalog HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xrofed/sebokehtub/config"
	"github.com/xrofed/sebokehtub/internal/assets"
	"github.com/xrofed/sebokehtub/internal/auth"
	"github.com/xrofed/sebokehtub/internal/cache"
	"github.com/xrofed/sebokehtub/internal/feeds"
	"github.com/xrofed/sebokehtub/internal/middleware"
	"github.com/xrofed/sebokehtub/internal/scraper"
	"github.com/xrofed/sebokehtub/internal/videos"
	"github.com/xrofed/sebokehtub/internal/web"
	"github.com/xrofed/sebokehtub/pkg/database"
	"github.com/xrofed/sebokehtub/pkg/redis"
	"github.com/xrofed/sebokehtub/pkg/storage"
	"github.com/xrofed/sebokehtub/pkg/utils"
)

func main() {
	// "hash-password <plain>" prints a bcrypt hash for ADMIN_PASSWORD_HASH
	// and exits, so deployments never have to store the plaintext.
	if len(os.Args) > 2 && os.Args[1] == "hash-password" {
		hash, err := utils.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var uploader scraper.Uploader
	if cfg.Storage.Endpoint != "" {
		r2, err := storage.NewR2(ctx, storage.R2Config{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Warn("object storage disabled", zap.Error(err))
		} else {
			uploader = r2
		}
	}

	resolver := assets.NewResolver(cfg.Site.BaseURL, cfg.Site.PlayerProxyURL)
	pageCache := cache.New()

	sessions := auth.NewSessions(rdb, cfg.Admin.Password, cfg.Admin.PasswordHash,
		time.Duration(cfg.Admin.SessionTTLMinutes)*time.Minute)
	authHandler := auth.NewHandler(sessions, logger)

	videoRepo := videos.NewRepository(pool)
	pageHandler := videos.NewHandler(videoRepo, resolver, cfg.Site.Name, logger)

	feedGen := feeds.NewGenerator(cfg.Site.Name, resolver)
	feedHandler := feeds.NewHandler(videoRepo, feedGen, logger)

	scrapeService := scraper.NewService(videoRepo, uploader, pageCache,
		time.Duration(cfg.Scraper.TimeoutSec)*time.Second, logger)
	scrapeHandler := scraper.NewHandler(scrapeService, logger)

	tmpl, err := web.Load(resolver)
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(auth.Context(sessions))
	router.SetHTMLTemplate(tmpl)

	cached := func(ttlSec int) gin.HandlerFunc {
		return middleware.Cached(pageCache, time.Duration(ttlSec)*time.Second)
	}

	// Frontend pages (cached per route)
	router.GET("/", cached(cfg.Cache.HomeTTL), pageHandler.Home)
	router.GET("/video/:slug", cached(cfg.Cache.DetailTTL), pageHandler.Detail)
	router.GET("/search", cached(cfg.Cache.SearchTTL), pageHandler.Search)
	router.GET("/tag/:tag", cached(cfg.Cache.ListingTTL), pageHandler.Tag)
	router.GET("/category/:slug", cached(cfg.Cache.ListingTTL), pageHandler.Category)

	// Feeds and sitemaps (uncached; crawlers want fresh documents)
	router.GET("/rss", feedHandler.MainRSS)
	router.GET("/rss/category/:slug", feedHandler.CategoryRSS)
	router.GET("/sitemap.xml", feedHandler.SitemapIndex)
	router.GET("/sitemap-video.xml", feedHandler.LegacySitemap)

	// Admin and scrape API
	router.GET("/admin/login", authHandler.LoginPage)
	router.POST("/admin/login", authHandler.Login)
	router.GET("/admin/logout", authHandler.Logout)
	router.GET("/admin", authHandler.Dashboard)
	router.POST("/api/scrape", scrapeHandler.Scrape)

	// Everything else: legacy redirects, then paged sitemaps (gin cannot
	// route a mid-segment parameter), then the rendered 404.
	router.NoRoute(
		middleware.LegacyRedirects(cfg.Storage.PublicBaseURL),
		feedHandler.SitemapVideoPage,
		pageHandler.NotFound,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("site", cfg.Site.BaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	zc := zap.NewProductionConfig()
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := zc.Build()
	return logger
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"auditgo/internal/api"
	"auditgo/internal/audit"
	"auditgo/internal/cache"
	"auditgo/internal/completion"
	"auditgo/internal/config"
	"auditgo/internal/fetch"
	"auditgo/internal/storage"
	"auditgo/internal/upload"
)

func main() {
	cfg, err := config.Load(os.Getenv("AUDITGO_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	basic := cfg.BasicConfig

	ctx := context.Background()

	// Report history is a supplement: run without it when no database is
	// configured, but fail loudly when a configured database is broken.
	var history *storage.History
	dbType := os.Getenv("AUDITGO_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	if _, ok := cfg.Databases[dbType]; ok {
		db, err := storage.Open(dbType, cfg)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := storage.Migrate(db, dbType); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		history = storage.NewHistory(db)
	} else {
		log.Printf("no %s database configured, report history disabled", dbType)
	}

	cacheClient, err := cache.NewClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, summary cache disabled: %v", err)
		cacheClient = nil
	}
	if cacheClient != nil {
		defer cacheClient.Close()
	}

	uploads, err := upload.NewStore(basic.UploadDir)
	if err != nil {
		log.Fatalf("init upload store: %v", err)
	}
	uploads.StartCleaner(ctx,
		time.Duration(basic.UploadTTLMinutes)*time.Minute,
		time.Duration(basic.CleanupIntervalMinutes)*time.Minute,
	)

	completer, err := completion.NewService(ctx, cfg)
	if err != nil {
		log.Fatalf("init completion service: %v", err)
	}
	log.Printf("using provider %s (%s)", completer.Provider(), completer.ModelName())

	fetcher := fetch.NewFetcher(
		time.Duration(basic.FetchTimeoutSeconds)*time.Second,
		basic.ExcerptLimit,
	)

	opts := []audit.Option{
		audit.WithModelName(completer.ModelName()),
		audit.WithTokenBudgets(basic.SummaryMaxTokens, basic.AuditMaxTokens),
	}
	if history != nil {
		opts = append(opts, audit.WithHistory(history))
	}
	if cacheClient != nil {
		opts = append(opts, audit.WithCache(cacheClient, time.Duration(cfg.Redis.SummaryTTLMinutes)*time.Minute))
	}
	audits := audit.NewService(fetcher, completer, uploads, opts...)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.LoggingMiddleware(log.Printf))
	router.Use(api.CORSMiddleware())
	router.StaticFile("/", "./static/index.html")

	handler := api.NewHandler(audits, uploads, history)
	handler.RegisterRoutes(router)

	log.Printf("listening on %s", basic.ServerAddress)
	if err := router.Run(basic.ServerAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

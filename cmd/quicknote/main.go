package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ckapps/quicknote/internal/backup"
	"github.com/ckapps/quicknote/internal/database"
	"github.com/ckapps/quicknote/internal/logging"
	"github.com/ckapps/quicknote/internal/push"
	"github.com/ckapps/quicknote/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("QUICKNOTE_LOG_LEVEL"))

	port := envDefault("QUICKNOTE_PORT", "8080")
	dataDir := envDefault("QUICKNOTE_DATA_DIR", "data")
	dbPath := envDefault("QUICKNOTE_DB_PATH", filepath.Join(dataDir, "quicknote.db"))

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logger.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		ImageDir: envDefault("QUICKNOTE_IMAGE_DIR", filepath.Join(dataDir, "images")),
		Push: push.Config{
			VAPIDPublicKey:  os.Getenv("QUICKNOTE_VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("QUICKNOTE_VAPID_PRIVATE_KEY"),
		},
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("QUICKNOTE_S3_ENDPOINT"),
				Bucket:    os.Getenv("QUICKNOTE_S3_BUCKET"),
				Region:    envDefault("QUICKNOTE_S3_REGION", "auto"),
				AccessKey: os.Getenv("QUICKNOTE_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("QUICKNOTE_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("QUICKNOTE_BACKUP_PASSPHRASE"),
			Interval:      envDuration("QUICKNOTE_BACKUP_INTERVAL", 24*time.Hour),
			RetentionDays: envInt("QUICKNOTE_BACKUP_RETENTION_DAYS", 30),
		},
	}

	srv, err := server.New(db, cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	defer srv.Stop()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("QuickNote running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

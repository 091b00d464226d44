package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antarv/tweetfeed/app/api"
	"github.com/antarv/tweetfeed/app/cfg"
	"github.com/antarv/tweetfeed/app/database"
	"github.com/antarv/tweetfeed/app/feed"
	"github.com/antarv/tweetfeed/app/tasks"
	"github.com/antarv/tweetfeed/app/timeline"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting TweetFeed %s...", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %t)", version, dirty)

	statusRepo := database.NewStatusStore(db)
	authorRepo := database.NewAuthorStore(db)

	source, err := timeline.LoadSourceConfig(appCfg.SourcePath)
	if err != nil {
		log.Fatalf("Failed to load timeline source configuration: %v", err)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(source.Timeout) * time.Second,
	}
	client := timeline.NewClient(source, httpClient, appCfg.UserAgent)

	baseURL := appCfg.BaseUrl
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", appCfg.Port)
	}

	generator := feed.NewGenerator(baseURL, appCfg.Version)
	documents := feed.NewDocumentManager(appCfg.FeedsDir, appCfg.MaxFeedItems, generator)
	index := feed.NewIndexBuilder(appCfg.FeedsDir, baseURL)
	classifier := feed.NewClassifier()

	log.Printf("Starting background scheduler (poll: %ds, refresh: %ds)...", appCfg.PollInterval, appCfg.RefreshInterval)
	scheduler := tasks.NewScheduler(statusRepo, authorRepo, client, classifier, generator, documents, index)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(authorRepo, documents, index, appCfg.Version)
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("  Feed index:    %s/", baseURL)
		log.Printf("  Feed document: %s/feeds/<username>_rss.xml", baseURL)
		log.Printf("  Health check:  %s/health", baseURL)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("TweetFeed shutdown complete")
}

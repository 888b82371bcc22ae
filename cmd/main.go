package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"giveboard/api"
	"giveboard/auth"
	"giveboard/internal"
	"giveboard/moderation"
	"giveboard/observability"
	"giveboard/search"
	"giveboard/services"
	"giveboard/store"
	"giveboard/store/badgerstore"
	"giveboard/store/firestorestore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle so
// that deferred cleanup (database, index) always executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Document store
	var docs store.Store
	switch config.StoreBackend {
	case internal.BackendFirestore:
		fs, err := firestorestore.New(ctx, config.FirestoreProject, log, config.SnapshotBufferSize)
		if err != nil {
			return fmt.Errorf("firestore opening failed: %w", err)
		}
		docs = fs
	default:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		docs = badgerstore.New(db, log, config.SnapshotBufferSize)
	}
	defer func() { _ = docs.Close() }()

	// 3. Full-text index
	index, err := search.Open(config.BlugeFilepath, log, config.SearchPageSize)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 4. Moderation
	maskChar, err := internal.CharacterRune(config.ModerationCharReplacement)
	if err != nil {
		return err
	}
	lists := moderation.WordLists{
		moderation.DefaultList: internal.SplitWords(config.BannedWords),
		"eng":                  internal.SplitWords(config.BannedWordsEnglish),
		"fra":                  internal.SplitWords(config.BannedWordsFrench),
	}
	moderator, err := moderation.NewModerator(lists, maskChar, log)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	// 5. Services & HTTP server
	chat := services.NewChatService(docs, moderator, log)
	directory := services.NewDirectoryService(docs, log)
	listings := services.NewListingService(docs, index, log)
	identities := auth.NewProvider(config.JWTSecret, config.TokenDuration)
	monitor := observability.NewMonitor(log)

	server := api.NewServer(chat, directory, listings, identities, monitor, log)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: server.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "backend", config.StoreBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"zetaexams/database"
	"zetaexams/internal/config"
	"zetaexams/internal/handlers"
	"zetaexams/internal/store"
	"zetaexams/internal/utility"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	files, err := utility.NewFileStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if files == nil {
		log.Println("Warning: STORAGE_DRIVER is none, file uploads are disabled.")
	}

	h := &handlers.Handler{
		Questions: store.NewQuestionStore(database.OpenCollection(client, cfg.DBName, database.Questions)),
		MockTests: store.NewMockTestStore(database.OpenCollection(client, cfg.DBName, database.MockTests)),
		Attempts:  store.NewAttemptStore(database.OpenCollection(client, cfg.DBName, database.Attempts)),
		Formulas:  store.NewFormulaStore(database.OpenCollection(client, cfg.DBName, database.Formulas)),
		Admins:    store.NewAdminStore(database.OpenCollection(client, cfg.DBName, database.Admins)),
		Files:     files,
		Tokens:    utility.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(cfg.CORSOrigins, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("Server is running on http://localhost%s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

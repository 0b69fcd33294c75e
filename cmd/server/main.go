/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the licence date engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build the bank-holiday cache over gov.uk
  4. Wire the licence service, handler and router
  5. Start the nightly recalculation scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port          HTTP server port (default: 8080)
  -db            SQLite database path (default: licences.db)
                 Use ":memory:" for in-memory database
  -holiday-ttl   How long fetched bank holidays stay fresh (default: 24h)
  -holidays-file JSON array of ISO dates to use instead of gov.uk
  -sweep         Recalculation sweep interval (default: 24h, 0 disables)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/licences.db"

  # Run with in-memory database and no background sweep
  ./server -db=":memory:" -sweep=0

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Background sweep
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/licence-engine/api"
	"github.com/warp/licence-engine/bankholidays"
	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/licence"
	"github.com/warp/licence-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "licences.db", "SQLite database path")
	holidayTTL := flag.Duration("holiday-ttl", 24*time.Hour, "bank holiday cache TTL")
	holidayFile := flag.String("holidays-file", "", "JSON file of bank holiday dates instead of gov.uk")
	sweepInterval := flag.Duration("sweep", 24*time.Hour, "recalculation sweep interval (0 disables)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Bank holidays come from gov.uk, cached with stale fallback
	var source bankholidays.Source = bankholidays.NewGovUKSource()
	if *holidayFile != "" {
		source = bankholidays.FileSource{Path: *holidayFile}
	}
	holidays := bankholidays.NewCache(source, *holidayTTL)

	// The snapshot book stands in for the prison records feed;
	// scenarios populate it via the API.
	snapshots := api.NewSnapshotBook()

	service := licence.NewService(store, snapshots, holidays, engine.SystemClock{})
	handler := api.NewHandler(service, store, snapshots, holidays)
	router := api.NewRouter(handler)

	// Background sweep keeps persisted dates tracking the feed
	scheduler := api.NewRecalcScheduler(service)
	if *sweepInterval > 0 {
		scheduler.CheckInterval = *sweepInterval
		scheduler.Start()
	} else {
		scheduler.Enabled = false
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	scheduler.Stop()

	log.Println("Server stopped")
}

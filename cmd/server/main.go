package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/term"

	"debtplan/internal/config"
	"debtplan/internal/handlers/backup"
	debthandlers "debtplan/internal/handlers/debts"
	"debtplan/internal/handlers/plan"
	"debtplan/internal/services/debts"
	"debtplan/internal/services/plancache"
	"debtplan/internal/services/storage"
	"debtplan/internal/version"
)

var (
	cfg       *config.Config
	store     *storage.Storage
	manager   *debts.Manager
	planCache plancache.Cache
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("Debug logging enabled")
	}

	info := version.Get()
	log.Printf("Starting payoff planner %s on %s", info, cfg.ListenAddr)
	if warning := info.Check(); warning != "" {
		log.Println(warning)
	}
	log.Printf("Data directory: %s", cfg.DataDirectory)

	store, err = storage.New(cfg.DataDirectory)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	if store.IsEncrypted() {
		unlockAtStartup()
	}

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Failed to set up dependencies: %v", err)
	}

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, SetupRouter()))
}

// unlockAtStartup unlocks encrypted storage from PAYOFF_PASSWORD or an
// interactive prompt. Without either the server starts locked and waits for
// POST /api/security/unlock.
func unlockAtStartup() {
	password := cfg.Password
	if password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.Println("Warning: storage is encrypted and no password was provided; starting locked")
			return
		}
		fmt.Fprint(os.Stderr, "Data is encrypted. Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Printf("Warning: could not read password: %v; starting locked", err)
			return
		}
		password = string(raw)
	}

	if err := store.Unlock(password); err != nil {
		log.Printf("Warning: could not unlock storage: %v; starting locked", err)
		return
	}
	log.Println("Storage unlocked")
}

// SetupDependencies wires services and handler packages for c. It opens
// storage itself when main has not already done so.
func SetupDependencies(c *config.Config) error {
	cfg = c

	if store == nil {
		var err error
		store, err = storage.New(c.DataDirectory)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
	}

	manager = debts.NewManager(store)
	planCache = newPlanCache(c)

	backup.Initialize(store)
	debthandlers.Initialize(manager)
	plan.Initialize(manager, planCache, c.Debug)
	return nil
}

// newPlanCache prefers Redis when configured and reachable
func newPlanCache(c *config.Config) plancache.Cache {
	if c.RedisAddr == "" {
		return plancache.NewMemory(c.CacheTTL.Duration)
	}

	r := plancache.NewRedis(c.RedisAddr, c.CacheTTL.Duration)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		log.Printf("Warning: Redis at %s unavailable (%v), using in-memory plan cache", c.RedisAddr, err)
		r.Close()
		return plancache.NewMemory(c.CacheTTL.Duration)
	}

	log.Printf("Using Redis plan cache at %s", c.RedisAddr)
	return r
}

// SetupRouter builds the HTTP router
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	backup.RegisterRoutes(r)
	debthandlers.RegisterRoutes(r)
	plan.RegisterRoutes(r)

	return r
}

// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"libralend/internal/catalog"
	"libralend/internal/circulation"
	"libralend/internal/clock"
	"libralend/internal/config"
	"libralend/internal/eventlog"
	"libralend/internal/fines"
	"libralend/internal/membership"
	"libralend/internal/reminder"
	"libralend/internal/storage/memory"
	"libralend/internal/storage/postgres"
	"libralend/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, "libralend-api", cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	var (
		users  membership.Repository
		media  catalog.Repository
		loans  circulation.LoanRepository
		events eventlog.Log
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}

		users = postgres.NewUserRepository(db)
		media = postgres.NewMediaRepository(db)
		loans = postgres.NewLoanRepository(db)
		events = eventlog.NewPostgres(db)
	} else {
		log.Printf("LIBRALEND_DATABASE_URL not set, using in-memory storage")
		users = memory.NewUserRepository()
		media = memory.NewMediaRepository()
		loans = memory.NewLoanRepository()
		events = eventlog.NewMemory()
	}

	clk := clock.System{}

	membershipService := membership.NewService(users, events)
	catalogService := catalog.NewService(media, events)
	lendingService := circulation.NewService(loans, media, users, clk, events)
	finesService := fines.NewService(users, loans, media, clk, events)
	reminderService := reminder.NewService(loans, users, clk, events)
	reminderService.Register(reminder.NewEmailNotifier())

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, users, membershipService, catalogService); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	secret := []byte(cfg.JWTSecret)
	membershipHandler := membership.NewHandler(membershipService, secret, cfg.TokenTTL)
	catalogHandler := catalog.NewHandler(catalogService)
	circulationHandler := circulation.NewHandler(lendingService)
	finesHandler := fines.NewHandler(finesService)
	reminderHandler := reminder.NewHandler(reminderService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/login", membershipHandler.HandleLogin)
	router.Post("/users", membershipHandler.HandleRegisterMember)

	router.Group(func(r chi.Router) {
		r.Use(membership.Authenticator(secret))

		r.Post("/admin/users", membershipHandler.HandleRegisterAdmin)
		r.Get("/users", membershipHandler.HandleListUsers)
		r.Get("/users/{id}", membershipHandler.HandleGetUser)
		r.Delete("/users/{id}", membershipHandler.HandleUnregister)
		r.Post("/users/password", membershipHandler.HandleChangePassword)

		r.Post("/media/books", catalogHandler.HandleAddBook)
		r.Post("/media/cds", catalogHandler.HandleAddCD)
		r.Get("/media", catalogHandler.HandleSearch)
		r.Get("/media/{id}", catalogHandler.HandleGetMedia)

		r.Post("/loans", circulationHandler.HandleBorrow)
		r.Post("/loans/{id}/return", circulationHandler.HandleReturn)

		r.Post("/fines/payments", finesHandler.HandlePayFine)
		r.Get("/fines/report", finesHandler.HandleOverdueReport)

		r.Post("/reminders/run", reminderHandler.HandleRun)
	})

	log.Printf("Lending API listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, router))
}

// seedDemoData provisions a default admin and a handful of catalog
// entries so a fresh instance is usable immediately.
func seedDemoData(ctx context.Context, users membership.Repository, members membership.Service, books catalog.Service) error {
	if _, err := users.FindByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, membership.ErrUserNotFound) {
		return err
	}

	bootstrap := membership.Session{Username: "bootstrap", Role: membership.RoleAdmin}
	admin, err := members.RegisterAdmin(ctx, bootstrap, "admin", "Administrator", "admin123!")
	if err != nil {
		return err
	}
	adminSession := membership.NewSession(admin)

	seeds := []func() error{
		func() error {
			_, err := books.AddBook(ctx, adminSession, "Clean Code", "Robert C. Martin", "9780132350884", 2)
			return err
		},
		func() error {
			_, err := books.AddBook(ctx, adminSession, "Effective Java", "Joshua Bloch", "9780134685991", 1)
			return err
		},
		func() error {
			_, err := books.AddCD(ctx, adminSession, "Thriller", "Michael Jackson", 1)
			return err
		},
		func() error {
			_, err := books.AddCD(ctx, adminSession, "Back in Black", "AC/DC", 1)
			return err
		},
	}
	for _, seed := range seeds {
		if err := seed(); err != nil {
			return err
		}
	}

	log.Printf("Seeded demo catalog and admin account")
	return nil
}

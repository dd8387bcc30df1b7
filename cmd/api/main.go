package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-convenios/internal/config"
	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/database"
	"github.com/xavierca1/ligue-convenios/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-convenios/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-convenios/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-convenios/internal/infra/logging"
	"github.com/xavierca1/ligue-convenios/internal/infra/mail"
	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
	"github.com/xavierca1/ligue-convenios/internal/infra/worker"
	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if err != nil {
		slog.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	patientRepo := database.NewPatientRepository(db)
	sellerRepo := database.NewSellerRepository(db)
	clinicRepo := database.NewClinicRepository(db)
	membershipRepo := database.NewMembershipRepository(db)
	managerRepo := database.NewManagerRepository(db)

	// 2. Notificações: fila -> WhatsApp + e-mail
	producer := queue.NewProducer(rabbitMQ.Ch)
	waClient := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneID, cfg.WhatsApp.BaseURL)
	waSender := mail.NewWhatsAppSender(waClient, mail.WhatsAppTemplates{
		Activation: cfg.WhatsApp.TemplateActivation,
		Renewal:    cfg.WhatsApp.TemplateRenewal,
		Reminder:   cfg.WhatsApp.TemplateReminder,
	})
	emailSender := mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	dispatcher := mail.NewDispatcher(waSender, emailSender, cfg.Location)

	notificationWorker := queue.NewWorker(rabbitMQ.Ch, dispatcher)
	go func() {
		if err := notificationWorker.Start(ctx, queue.QueueName); err != nil {
			slog.Error("notification worker stopped", "error", err)
		}
	}()

	// 3. UseCases
	calendar := entity.NewCalendar(cfg.Location)
	scopes := usecase.NewScopeResolver(membershipRepo, managerRepo, sellerRepo)
	registerUC := usecase.NewRegisterPatientUseCase(patientRepo, sellerRepo)
	activateUC := usecase.NewActivatePatientUseCase(patientRepo, producer, calendar)
	deleteUC := usecase.NewDeletePatientUseCase(patientRepo)
	queryUC := usecase.NewQueryPatientsUseCase(patientRepo)
	importUC := usecase.NewImportPatientsUseCase(registerUC)
	sellerUC := usecase.NewSellerUseCase(sellerRepo)
	clinicUC := usecase.NewClinicUseCase(clinicRepo, membershipRepo, managerRepo)
	reportUC := usecase.NewReportUseCase(patientRepo, sellerRepo, clinicRepo, calendar)

	// 4. Workers
	go worker.NewExpirationWorker(patientRepo, cfg.Workers.ExpirationInterval).Start(ctx)
	go worker.NewReminderWorker(patientRepo, producer, calendar, cfg.Workers.ReminderDaysBefore, cfg.Workers.ReminderInterval).Start(ctx)

	// 5. Handlers
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)
	publicHandler := handlers.NewPublicRegistrationHandler(registerUC, cfg.PublicRateLimit)
	patientHandler := handlers.NewPatientHandler(scopes, registerUC, activateUC, deleteUC, queryUC, importUC)
	sellerHandler := handlers.NewSellerHandler(scopes, sellerUC)
	clinicHandler := handlers.NewClinicHandler(scopes, clinicUC)
	dashboardHandler := handlers.NewDashboardHandler(scopes, reportUC, cfg.Location)
	auth := middleware.NewAuthenticator(cfg.JWTSecret)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/public/patients", publicHandler.Handle)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patientHandler.ListHandler)
			r.Post("/", patientHandler.CreateHandler)
			r.Post("/import", patientHandler.ImportHandler)
			r.Get("/{id}", patientHandler.GetHandler)
			r.Delete("/{id}", patientHandler.DeleteHandler)
			r.Post("/{id}/activate", patientHandler.ActivateHandler)
		})

		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", sellerHandler.ListHandler)
			r.Post("/", sellerHandler.CreateHandler)
			r.Delete("/{id}", sellerHandler.DeleteHandler)
		})

		r.Route("/clinics", func(r chi.Router) {
			r.Get("/", clinicHandler.ListHandler)
			r.Post("/", clinicHandler.CreateHandler)
			r.Put("/{id}/manager", clinicHandler.AssignManagerHandler)
		})

		r.Get("/dashboard/summary", dashboardHandler.SummaryHandler)
		r.Get("/dashboard/monthly", dashboardHandler.MonthlyHandler)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

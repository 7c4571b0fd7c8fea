package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/completion"
	"github.com/treylee/vibein-service/pkg/config"
	"github.com/treylee/vibein-service/pkg/database"
	"github.com/treylee/vibein-service/pkg/handlers"
	"github.com/treylee/vibein-service/pkg/ledger"
	"github.com/treylee/vibein-service/pkg/notify"
	"github.com/treylee/vibein-service/pkg/offers"
	"github.com/treylee/vibein-service/pkg/places"
	"github.com/treylee/vibein-service/pkg/redemption"
	"github.com/treylee/vibein-service/pkg/repository"
	"github.com/treylee/vibein-service/pkg/repository/memory"
	"github.com/treylee/vibein-service/pkg/review"
	"github.com/treylee/vibein-service/pkg/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	offerStore, partStore, vibeStore, profileStore, cleanup := buildStores(ctx, cfg)
	defer cleanup()

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL)
	}

	offerSvc := offers.NewService(offerStore)
	joinLedger := ledger.New(offerStore, partStore, profileStore)
	protocol := redemption.New(offerStore, partStore)
	workflow := completion.New(offerStore, partStore, profileStore, review.NewClient(cfg.ReviewAPIURL))

	offerHandler := handlers.NewOfferHandler(offerSvc, notifier)
	participationHandler := handlers.NewParticipationHandler(joinLedger)
	redemptionHandler := handlers.NewRedemptionHandler(protocol)
	completionHandler := handlers.NewCompletionHandler(workflow)
	vibeHandler := handlers.NewVibeHandler(vibeStore, notifier)
	profileHandler := handlers.NewProfileHandler(profileStore)
	placesHandler := handlers.NewPlacesHandler(places.NewClient(cfg.PlacesAPIURL, cfg.PlacesAPIKey))

	router := gin.Default()
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/offers", offerHandler.Create)
		api.GET("/offers", offerHandler.ListActive)
		api.GET("/businesses/:businessId/offers", offerHandler.ListForBusiness)
		api.POST("/offers/:id/deactivate", offerHandler.Deactivate)

		api.POST("/offers/:id/join", participationHandler.Join)
		api.GET("/offers/:id/participations/:influencerId", participationHandler.Get)
		api.GET("/offers/:id/participations/:influencerId/token", participationHandler.Token)
		api.GET("/offers/:id/participations/:influencerId/qr", participationHandler.QR)
		api.GET("/influencers/:influencerId/participations", participationHandler.ListForInfluencer)

		api.POST("/redemptions/verify", redemptionHandler.Verify)
		api.POST("/offers/:id/complete", completionHandler.Submit)

		api.POST("/vibes", vibeHandler.Send)
		api.GET("/vibes/business/:businessId", vibeHandler.ListForBusiness)
		api.GET("/vibes/influencer/:influencerId", vibeHandler.ListForInfluencer)
		api.POST("/vibes/:id/status", vibeHandler.UpdateStatus)

		api.GET("/influencers/:influencerId/profile", profileHandler.Get)
		api.GET("/places/search", placesHandler.Search)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logrus.Infof("Starting service on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start service: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Service forced to shutdown: %v", err)
	}

	logrus.Info("Service exited")
}

func buildStores(ctx context.Context, cfg config.Config) (store.OfferStore, store.ParticipationStore, store.VibeStore, store.ProfileStore, func()) {
	if cfg.StoreBackend == "memory" {
		logrus.Warn("Using in-memory store backend; data will not survive restarts")
		mem := memory.New()
		return mem.Offers(), mem.Participations(), mem.Vibes(), mem.Profiles(), func() {}
	}

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	cleanup := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Warn("Failed to disconnect from mongo")
		}
	}
	return repository.NewOfferRepository(db),
		repository.NewParticipationRepository(db),
		repository.NewVibeRepository(db),
		repository.NewProfileRepository(db),
		cleanup
}

package main

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/auth"
	"github.com/biomeddev/equipment-maintenance/internal/config"
	"github.com/biomeddev/equipment-maintenance/internal/db"
	"github.com/biomeddev/equipment-maintenance/internal/handlers"
	"github.com/biomeddev/equipment-maintenance/internal/middleware"
	"github.com/biomeddev/equipment-maintenance/internal/notify"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
	"github.com/biomeddev/equipment-maintenance/internal/scheduler"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	store := db.NewMongoRecordStore(database)
	reg := registry.New(store)

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}
	userCollection := &db.MongoUserCollection{Collection: database.Collection("users")}

	// The MQTT channel is optional: connect once at startup when a broker
	// is configured, reuse the connection across ticks.
	var mqttPub *notify.MQTTPublisher
	if cfg.MQTTBrokerURL != "" {
		mqttPub, err = notify.NewMQTTPublisher(cfg.MQTTBrokerURL, cfg.MQTTAlertTopic)
		if err != nil {
			log.WithError(err).Warn("MQTT alert channel unavailable, continuing without it")
		} else {
			defer mqttPub.Close()
		}
	}
	dispatcher := func(cfg config.Config) scheduler.Dispatcher {
		channels := []notify.Notifier{notify.NewEmailSender(cfg)}
		if mqttPub != nil {
			channels = append(channels, mqttPub)
		}
		return notify.NewDispatcher(channels...)
	}

	sched := scheduler.New(reg, config.Load, dispatcher)
	if cfg.SchedulerEnabled {
		go sched.Run(context.Background())
	} else {
		log.Info("reminder scheduler disabled")
	}

	authHandler := handlers.NewAuthHandler(authService, userCollection)
	equipmentHandler := handlers.NewEquipmentHandler(reg)
	trainingHandler := handlers.NewTrainingHandler(reg)
	dashboardHandler := handlers.NewDashboardHandler(reg)
	transferHandler := handlers.NewTransferHandler(reg)
	remindersHandler := handlers.NewRemindersHandler(sched)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			authHandler.UpdateProfile(w, r)
			return
		}
		authHandler.GetProfile(w, r)
	})
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("/api/equipment/ppm", equipmentHandler.PPM)
	mux.HandleFunc("/api/equipment/ppm/", equipmentHandler.PPMBySerial)
	mux.HandleFunc("/api/equipment/ppm-status/", equipmentHandler.PPMStatus)
	mux.HandleFunc("/api/equipment/ocm", equipmentHandler.OCM)
	mux.HandleFunc("/api/equipment/ocm/", equipmentHandler.OCMBySerial)

	mux.HandleFunc("/api/training", trainingHandler.Training)
	mux.HandleFunc("/api/training/", trainingHandler.TrainingByID)

	mux.HandleFunc("/api/dashboard", dashboardHandler.Dashboard)
	mux.HandleFunc("/api/upcoming", dashboardHandler.Upcoming)
	mux.HandleFunc("/api/reminders/test", remindersHandler.Test)

	mux.HandleFunc("/api/import/ppm", transferHandler.ImportPPM)
	mux.HandleFunc("/api/import/ocm", transferHandler.ImportOCM)
	mux.HandleFunc("/api/import/training", transferHandler.ImportTraining)
	mux.HandleFunc("/api/export/ppm", transferHandler.ExportPPM)
	mux.HandleFunc("/api/export/ocm", transferHandler.ExportOCM)
	mux.HandleFunc("/api/export/training", transferHandler.ExportTraining)
	mux.HandleFunc("/api/backup", transferHandler.Backup)
	mux.HandleFunc("/api/restore", transferHandler.Restore)

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	log.Infof("HTTP server listening on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

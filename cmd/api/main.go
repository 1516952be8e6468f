package main

import (
	"context"
	"flag"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patientng/patient-api/internal/config"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/handlers"
	"github.com/patientng/patient-api/internal/services"
	"github.com/patientng/patient-api/internal/upload"
	"github.com/patientng/patient-api/internal/utils"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load()
	if err != nil {
		glog.Exitf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}
	glog.Infof("MONGO_DATABASE: %s", cfg.MongoDatabase)
	glog.Infof("API_PORT: %s", cfg.Port)
	glog.Infof("UPLOAD_BACKEND: %s", cfg.UploadBackend)

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		glog.Exitf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		glog.Exitf("Failed to reach MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDatabase)
	if err := dao.EnsureIndexes(ctx, db); err != nil {
		glog.Exitf("Failed to create indexes: %v", err)
	}
	glog.Info("Successfully connected to MongoDB!")

	// --- Image storage ---
	var storage upload.Storage
	switch cfg.UploadBackend {
	case "s3":
		s3, err := upload.NewS3Storage(ctx, cfg.S3Bucket, cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey)
		if err != nil {
			glog.Exitf("Failed to configure S3: %v", err)
		}
		storage = s3
	default:
		storage = &upload.LocalStorage{BasePath: cfg.UploadBasePath}
	}
	uploads := upload.New(storage, cfg.MaxImageSize)

	// --- Initialize Services ---
	signer := &utils.TokenSigner{
		AccessSecret:  []byte(cfg.AccessSecret),
		AccessTTL:     cfg.AccessTTL,
		RefreshSecret: []byte(cfg.RefreshSecret),
		RefreshTTL:    cfg.RefreshTTL,
	}
	notificationSvc := services.NewNotificationService(cfg.TextbeltAPIKey)

	h := handlers.NewHandler(dao.NewDatasources(db), uploads, signer, notificationSvc, cfg.SuperAdminEmail)
	if cfg.UploadBackend != "s3" {
		h.UploadDir = cfg.UploadBasePath
		h.UploadPrefix = cfg.UploadPublicPrefix
	}

	// --- Gin Router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	h.Register(r)

	glog.Infof("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		glog.Exitf("Server stopped: %v", err)
	}
}

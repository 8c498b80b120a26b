// Command savelookbook runs the save-lookbook function on AWS Lambda behind
// API Gateway. It shares request handling with the HTTP function route.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	lookbookapp "github.com/storefront/backend/internal/application/lookbook"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(cfg.Log.Level != "debug"))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	svc := lookbookapp.NewService(
		persistence.NewGormLookbookRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
	)

	h := &apiHandler{saver: svc, log: log.With(zap.String("function", "save-lookbook"))}
	log.Info("Save-lookbook function ready")
	lambda.Start(h.handle)
}

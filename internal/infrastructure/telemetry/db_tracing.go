package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// DBTracingConfig controls span creation and slow query logging for GORM.
type DBTracingConfig struct {
	Enabled            bool
	DBName             string
	LogFullSQL         bool
	SlowQueryThreshold time.Duration
}

// RegisterDBTracing installs the otelgorm plugin and a slow query logger on db.
// It is a no-op when cfg.Enabled is false.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThreshold <= 0 {
		return nil
	}
	return registerSlowQueryCallbacks(db, cfg.SlowQueryThreshold, logger)
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration, logger *zap.Logger) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed >= threshold {
			logSlowQuery(tx.Statement.Context, logger, tx, elapsed)
		}
	}

	cb := db.Callback()
	steps := []struct {
		name string
		reg  func() error
	}{
		{"create", func() error {
			if err := cb.Create().Before("gorm:create").Register("slowquery:before_create", before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("slowquery:after_create", after)
		}},
		{"query", func() error {
			if err := cb.Query().Before("gorm:query").Register("slowquery:before_query", before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("slowquery:after_query", after)
		}},
		{"update", func() error {
			if err := cb.Update().Before("gorm:update").Register("slowquery:before_update", before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("slowquery:after_update", after)
		}},
		{"delete", func() error {
			if err := cb.Delete().Before("gorm:delete").Register("slowquery:before_delete", before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("slowquery:after_delete", after)
		}},
	}
	for _, s := range steps {
		if err := s.reg(); err != nil {
			return err
		}
	}
	return nil
}

func logSlowQuery(ctx context.Context, logger *zap.Logger, tx *gorm.DB, elapsed time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Warn("Slow query",
		zap.String("table", tx.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", tx.RowsAffected),
		zap.String("sql", tx.Statement.SQL.String()),
		zap.Bool("ctx_cancelled", ctx.Err() != nil),
	)
}

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetup_AllDisabled(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, config.TelemetryConfig{ServiceName: "storefront-test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.Nil(t, tel.Logs.Core(zapcore.InfoLevel))
	assert.NotNil(t, tel.Tracer.Tracer("test"))
	assert.NotNil(t, tel.Meter.Meter("test"))

	assert.NoError(t, tel.Shutdown(ctx))
}

func TestNewProfiler_MissingEndpoint(t *testing.T) {
	_, err := NewProfiler(config.TelemetryConfig{ProfilingEnabled: true}, zap.NewNop())
	assert.Error(t, err)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", samplerFor(1).Description())
	assert.Equal(t, "AlwaysOffSampler", samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, min: zapcore.WarnLevel}
	log := zap.New(core).With(zap.String("svc", "storefront"))

	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "storefront", logs.All()[0].ContextMap()["svc"])
	assert.False(t, core.Enabled(zapcore.DebugLevel))
}

type slowRow struct {
	ID   uint
	Name string
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&slowRow{}))

	t.Run("disabled is a no-op", func(t *testing.T) {
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, zap.NewNop()))
	})

	t.Run("slow queries are logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		err := RegisterDBTracing(db, DBTracingConfig{
			Enabled:            true,
			DBName:             "storefront",
			SlowQueryThreshold: time.Nanosecond,
		}, zap.New(core))
		require.NoError(t, err)

		require.NoError(t, db.Create(&slowRow{Name: "sofa"}).Error)
		var rows []slowRow
		require.NoError(t, db.Find(&rows).Error)

		assert.GreaterOrEqual(t, logs.FilterMessage("Slow query").Len(), 2)
		assert.Equal(t, "slow_rows", logs.FilterMessage("Slow query").All()[0].ContextMap()["table"])
	})
}

package integration_tests

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/fitlife-app/backend/internal/audit"
	"github.com/fitlife-app/backend/internal/handler"
	"github.com/fitlife-app/backend/internal/middleware"
	"github.com/fitlife-app/backend/internal/notify"
	"github.com/fitlife-app/backend/internal/repository"
	"github.com/fitlife-app/backend/internal/security"
	"github.com/fitlife-app/backend/internal/service"
	"github.com/fitlife-app/backend/pkg/model"
)

const testJWTSecret = "integration-test-secret"

// setupTestDatabase starts a PostgreSQL testcontainer, applies the schema
// and returns the connection pool
func setupTestDatabase(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	t.Helper()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("fitlife_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	applySchema(t, ctx, pool)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pool, cleanup
}

func applySchema(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	migrations := []string{
		`CREATE TABLE users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE goals (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			goal_type VARCHAR(50) NOT NULL,
			target_value DOUBLE PRECISION NOT NULL CHECK (target_value > 0),
			current_value DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (current_value >= 0),
			period VARCHAR(50) NOT NULL,
			deadline TIMESTAMP,
			description TEXT,
			priority VARCHAR(50) NOT NULL,
			unit VARCHAR(50),
			is_active BOOLEAN NOT NULL DEFAULT true,
			is_achieved BOOLEAN NOT NULL DEFAULT false,
			achieved_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX goals_one_active_per_type
			ON goals (user_id, goal_type) WHERE is_active`,
		`CREATE TABLE activities (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			activity_type VARCHAR(50) NOT NULL,
			date TIMESTAMP NOT NULL,
			steps INTEGER,
			distance DOUBLE PRECISION,
			duration DOUBLE PRECISION,
			calories_burned INTEGER,
			workout_type VARCHAR(100),
			intensity VARCHAR(50),
			heart_rate_avg INTEGER,
			heart_rate_max INTEGER,
			sleep_quality VARCHAR(50),
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE medical_records (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			doctor_id UUID,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			record_type VARCHAR(50) NOT NULL,
			diagnosis TEXT,
			treatment TEXT,
			prescription TEXT,
			vitals JSONB,
			date TIMESTAMP NOT NULL,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			type VARCHAR(50) NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE audit_logs (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL,
			operation_type VARCHAR(50) NOT NULL,
			resource_type VARCHAR(50) NOT NULL,
			resource_id VARCHAR(255) NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
			ip_address VARCHAR(100),
			user_agent VARCHAR(500),
			additional_data JSONB
		)`,
	}

	for _, migration := range migrations {
		_, err := pool.Exec(ctx, migration)
		require.NoError(t, err)
	}
}

// newTestRouter wires the goal, activity and medical record endpoints the
// same way main does
func newTestRouter(t *testing.T, pool *pgxpool.Pool) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	encryptor, err := security.NewEncryptor(key)
	require.NoError(t, err)

	goalRepo := repository.NewGoalRepository(pool, logger)
	activityRepo := repository.NewActivityRepository(pool, logger)
	medicalRecordRepo := repository.NewMedicalRecordRepository(pool, encryptor, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	notifier := notify.New(notificationRepo, logger)
	auditLogger := audit.NewLogger(pool, logger)

	goalService := service.NewGoalService(goalRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	statsService := service.NewStatsService(activityRepo, goalRepo, logger)
	medicalRecordService := service.NewMedicalRecordService(medicalRecordRepo, notifier, auditLogger, logger)

	goalHandler := handler.NewGoalHandler(goalService, logger)
	activityHandler := handler.NewActivityHandler(activityService, statsService, logger)
	medicalRecordHandler := handler.NewMedicalRecordHandler(medicalRecordService, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(testJWTSecret, logger))

	goals := api.Group("/goals")
	{
		goals.POST("", goalHandler.CreateGoal)
		goals.GET("", goalHandler.ListGoals)
		goals.GET("/achievements", goalHandler.ListAchievedGoals)
		goals.PUT("/:id", goalHandler.UpdateGoal)
		goals.PUT("/:id/progress", goalHandler.UpdateProgress)
		goals.PATCH("/:id/progress", goalHandler.IncrementProgress)
		goals.DELETE("/:id", goalHandler.DeleteGoal)
	}

	activities := api.Group("/activities")
	{
		activities.POST("", activityHandler.LogActivity)
		activities.GET("", activityHandler.ListActivities)
		activities.GET("/stats", activityHandler.GetStats)
		activities.DELETE("/:id", activityHandler.DeleteActivity)
	}

	medicalRecords := api.Group("/medical-records")
	{
		medicalRecords.POST("", medicalRecordHandler.CreateRecord)
		medicalRecords.GET("", medicalRecordHandler.ListRecords)
		medicalRecords.GET("/:id", medicalRecordHandler.GetRecord)
		medicalRecords.DELETE("/:id", medicalRecordHandler.DeleteRecord)
	}

	return router
}

// createUser inserts an account and returns its ID
func createUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role model.Role) string {
	t.Helper()

	userID := uuid.New().String()
	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)`,
		userID, "Test "+string(role), fmt.Sprintf("%s-%s@example.com", role, userID), string(role))
	require.NoError(t, err)

	return userID
}

// authToken issues a signed bearer token for the given identity
func authToken(t *testing.T, userID string, role model.Role) string {
	t.Helper()

	claims := middleware.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return token
}

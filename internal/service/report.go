package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/internal/pdf"
	"github.com/fitlife-app/backend/internal/policy"
	"go.uber.org/zap"
)

// ReportService assembles fitness progress reports as PDF documents
type ReportService struct {
	users      UserRepository
	activities ActivityRepository
	goals      GoalRepository
	weights    WeightLogRepository
	meals      MealRepository
	generator  *pdf.PDFGenerator
	logger     *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	users UserRepository,
	activities ActivityRepository,
	goals GoalRepository,
	weights WeightLogRepository,
	meals MealRepository,
	generator *pdf.PDFGenerator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		users:      users,
		activities: activities,
		goals:      goals,
		weights:    weights,
		meals:      meals,
		generator:  generator,
		logger:     logger,
	}
}

// GenerateProgressReport renders a PDF progress report for the actor, or
// for a requested subject when the actor's role allows it
func (s *ReportService) GenerateProgressReport(ctx context.Context, actor policy.Actor, requestedOwner string, period StatsPeriod) ([]byte, error) {
	switch period {
	case StatsPeriodWeek, StatsPeriodMonth, StatsPeriodYear:
	case "":
		period = StatsPeriodMonth
	default:
		return nil, fmt.Errorf("%w: unknown stats period %q", ErrInvalidInput, period)
	}

	scope := policy.Resolve(actor, policy.ResourceActivity, requestedOwner)
	userID := actor.ID
	if scope.Kind == policy.ScopeSpecific {
		userID = scope.OwnerID
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user for report", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to load user for report: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	now := time.Now()
	from := PeriodWindowStart(period, now)

	activities, err := s.activities.FindByUser(ctx, ActivityFilter{UserID: userID, From: &from, To: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to load activities for report: %w", err)
	}
	stats := ComputePeriodStats(activities, period)

	activeGoals, err := s.goals.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals for report: %w", err)
	}
	achievedGoals, err := s.goals.FindAchievedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achieved goals for report: %w", err)
	}

	weights, err := s.weights.FindByUser(ctx, userID, &from, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight logs for report: %w", err)
	}

	meals, err := s.meals.Find(ctx, MealFilter{UserID: userID, From: &from, To: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to load meals for report: %w", err)
	}

	data := &pdf.ReportData{
		UserName:  user.Name,
		DateRange: fmt.Sprintf("%s to %s", from.Format("2006-01-02"), now.Format("2006-01-02")),
		Stats: pdf.ActivitySummary{
			TotalSteps:       stats.TotalSteps,
			TotalCalories:    stats.TotalCalories,
			WorkoutCount:     stats.WorkoutCount,
			AvgStepsPerDay:   stats.AvgStepsPerDay,
			RecentActivities: stats.RecentActivities,
		},
		ActiveGoals:   activeGoals,
		AchievedGoals: achievedGoals,
		WeightLogs:    weights,
		Meals:         meals,
	}

	report, err := s.generator.Generate(data)
	if err != nil {
		s.logger.Error("failed to generate progress report", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to generate progress report: %w", err)
	}

	s.logger.Info("progress report generated",
		zap.String("user_id", userID),
		zap.String("period", string(period)),
		zap.Int("size_bytes", len(report)),
	)

	return report, nil
}

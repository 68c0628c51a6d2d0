package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// PDFGenerator generates fitness progress reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ActivitySummary carries the period totals rendered on the report
type ActivitySummary struct {
	TotalSteps       int
	TotalCalories    int
	WorkoutCount     int
	AvgStepsPerDay   int
	RecentActivities []model.Activity
}

// ReportData contains all data needed for report generation
type ReportData struct {
	UserName      string
	DateRange     string
	Stats         ActivitySummary
	ActiveGoals   []model.Goal
	AchievedGoals []model.Goal
	WeightLogs    []model.WeightLog
	Meals         []model.Meal
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("user_name", data.UserName),
		zap.String("date_range", data.DateRange),
	)

	// Create new PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Add page
	pdf.AddPage()

	// Add title
	g.addTitle(pdf, "Fitness Progress Report", data.UserName, data.DateRange)

	// Add all sections
	g.addActivitySummary(pdf, data.Stats)
	g.addGoalProgress(pdf, data.ActiveGoals)
	g.addAchievements(pdf, data.AchievedGoals)
	g.addWeightTrend(pdf, data.WeightLogs)
	g.addNutritionSummary(pdf, data.Meals)
	g.addRecentActivities(pdf, data.Stats.RecentActivities)

	// Generate PDF bytes
	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, userName, dateRange string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Member: %s", userName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s", dateRange), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addActivitySummary adds the period totals section
func (g *PDFGenerator) addActivitySummary(pdf *gofpdf.Fpdf, stats ActivitySummary) {
	g.addSectionHeader(pdf, "Activity Summary")

	pdf.CellFormat(0, 6, fmt.Sprintf("Total Steps: %d", stats.TotalSteps), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Calories Burned: %d", stats.TotalCalories), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Workouts Completed: %d", stats.WorkoutCount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Average Daily Steps: %d", stats.AvgStepsPerDay), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addGoalProgress adds the active goals section
func (g *PDFGenerator) addGoalProgress(pdf *gofpdf.Fpdf, goals []model.Goal) {
	g.addSectionHeader(pdf, "Active Goals")

	if len(goals) == 0 {
		pdf.CellFormat(0, 8, "No active goals.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, goal := range goals {
		pct := 0
		if goal.TargetValue > 0 {
			pct = int(goal.CurrentValue / goal.TargetValue * 100)
			if pct > 100 {
				pct = 100
			}
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, string(goal.GoalType), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Progress: %.1f of %.1f (%d%%)", goal.CurrentValue, goal.TargetValue, pct), "", 1, "L", false, 0, "")
		if goal.Deadline != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Deadline: %s", goal.Deadline.Format("2006-01-02")), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addAchievements adds the achieved goals section
func (g *PDFGenerator) addAchievements(pdf *gofpdf.Fpdf, goals []model.Goal) {
	g.addSectionHeader(pdf, "Achievements")

	if len(goals) == 0 {
		pdf.CellFormat(0, 8, "No goals achieved yet.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, goal := range goals {
		achieved := ""
		if goal.AchievedAt != nil {
			achieved = goal.AchievedAt.Format("2006-01-02")
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s - target %.1f reached on %s", goal.GoalType, goal.TargetValue, achieved), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addWeightTrend adds the weight measurements section
func (g *PDFGenerator) addWeightTrend(pdf *gofpdf.Fpdf, logs []model.WeightLog) {
	g.addSectionHeader(pdf, "Weight Trend")

	if len(logs) == 0 {
		pdf.CellFormat(0, 8, "No weight measurements recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, log := range logs {
		pdf.CellFormat(0, 5, fmt.Sprintf("%s: %.1f kg", log.Date.Format("2006-01-02"), log.Weight), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addNutritionSummary adds the aggregated nutrition section
func (g *PDFGenerator) addNutritionSummary(pdf *gofpdf.Fpdf, meals []model.Meal) {
	g.addSectionHeader(pdf, "Nutrition Summary")

	if len(meals) == 0 {
		pdf.CellFormat(0, 8, "No meals recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	var calories, protein, carbs, fats float64
	for _, meal := range meals {
		calories += meal.Calories
		protein += meal.Protein
		carbs += meal.Carbs
		fats += meal.Fats
	}

	pdf.CellFormat(0, 6, fmt.Sprintf("Meals Logged: %d", len(meals)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Calories: %.0f kcal", calories), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Protein: %.0f g / Carbs: %.0f g / Fats: %.0f g", protein, carbs, fats), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addRecentActivities adds the recent activity log section
func (g *PDFGenerator) addRecentActivities(pdf *gofpdf.Fpdf, activities []model.Activity) {
	g.addSectionHeader(pdf, "Recent Activities")

	if len(activities) == 0 {
		pdf.CellFormat(0, 8, "No activities recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, a := range activities {
		line := fmt.Sprintf("%s: %s", a.Date.Format("2006-01-02"), a.ActivityType)
		if a.Steps != nil {
			line += fmt.Sprintf(", %d steps", *a.Steps)
		}
		if a.Duration != nil {
			line += fmt.Sprintf(", %.0f min", *a.Duration)
		}
		if a.CaloriesBurned != nil {
			line += fmt.Sprintf(", %d kcal", *a.CaloriesBurned)
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

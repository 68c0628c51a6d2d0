package model

import "time"

// Role identifies what kind of actor a user is
type Role string

const (
	RoleUser      Role = "user"
	RoleTrainer   Role = "trainer"
	RoleDoctor    Role = "doctor"
	RoleDietitian Role = "dietitian"
	RoleAdmin     Role = "admin"
)

// User represents an account in the system
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds optional body metrics for a user
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Age       *int      `json:"age,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	Weight    *float64  `json:"weight,omitempty"`
	Gender    *string   `json:"gender,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoalType enumerates the supported goal categories
type GoalType string

const (
	GoalTypeDailySteps     GoalType = "daily_steps"
	GoalTypeWeeklyWorkouts GoalType = "weekly_workouts"
	GoalTypeWeightLoss     GoalType = "weight_loss"
	GoalTypeWeightGain     GoalType = "weight_gain"
	GoalTypeDistance       GoalType = "distance"
	GoalTypeCalories       GoalType = "calories"
	GoalTypeCustom         GoalType = "custom"
)

// ValidGoalTypes lists every accepted goal type
var ValidGoalTypes = map[GoalType]bool{
	GoalTypeDailySteps:     true,
	GoalTypeWeeklyWorkouts: true,
	GoalTypeWeightLoss:     true,
	GoalTypeWeightGain:     true,
	GoalTypeDistance:       true,
	GoalTypeCalories:       true,
	GoalTypeCustom:         true,
}

// GoalPeriod is the recurrence of a goal
type GoalPeriod string

const (
	GoalPeriodDaily   GoalPeriod = "daily"
	GoalPeriodWeekly  GoalPeriod = "weekly"
	GoalPeriodMonthly GoalPeriod = "monthly"
	GoalPeriodOneTime GoalPeriod = "one-time"
)

// GoalPriority is the user-assigned priority of a goal
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// Goal represents a target a user is pursuing.
//
// At most one goal per (UserID, GoalType) is active at any time; creating a
// new goal of the same type retires the previous active one. CurrentValue is
// the stored progress, mutated only through explicit progress updates. The
// read-time projection for daily_steps/weekly_workouts goals lives in the
// stats layer and is never written back here.
type Goal struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	GoalType     GoalType     `json:"goal_type"`
	TargetValue  float64      `json:"target_value"`
	CurrentValue float64      `json:"current_value"`
	Period       GoalPeriod   `json:"period"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Priority     GoalPriority `json:"priority"`
	Unit         *string      `json:"unit,omitempty"`
	IsActive     bool         `json:"is_active"`
	IsAchieved   bool         `json:"is_achieved"`
	AchievedAt   *time.Time   `json:"achieved_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ActivityType enumerates the supported activity categories
type ActivityType string

const (
	ActivityTypeSteps    ActivityType = "steps"
	ActivityTypeWorkout  ActivityType = "workout"
	ActivityTypeRunning  ActivityType = "running"
	ActivityTypeCycling  ActivityType = "cycling"
	ActivityTypeSwimming ActivityType = "swimming"
	ActivityTypeYoga     ActivityType = "yoga"
	ActivityTypeSleep    ActivityType = "sleep"
	ActivityTypeOther    ActivityType = "other"
)

// ValidActivityTypes lists every accepted activity type
var ValidActivityTypes = map[ActivityType]bool{
	ActivityTypeSteps:    true,
	ActivityTypeWorkout:  true,
	ActivityTypeRunning:  true,
	ActivityTypeCycling:  true,
	ActivityTypeSwimming: true,
	ActivityTypeYoga:     true,
	ActivityTypeSleep:    true,
	ActivityTypeOther:    true,
}

// Activity is a fact log entry. Records are immutable once written; the
// owner may delete one but never edit it.
type Activity struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	ActivityType   ActivityType `json:"activity_type"`
	Date           time.Time    `json:"date"`
	Steps          *int         `json:"steps,omitempty"`
	Distance       *float64     `json:"distance,omitempty"` // kilometers
	Duration       *float64     `json:"duration,omitempty"` // minutes
	CaloriesBurned *int         `json:"calories_burned,omitempty"`
	WorkoutType    *string      `json:"workout_type,omitempty"`
	Intensity      *string      `json:"intensity,omitempty"` // low, medium, high
	HeartRateAvg   *int         `json:"heart_rate_avg,omitempty"`
	HeartRateMax   *int         `json:"heart_rate_max,omitempty"`
	SleepQuality   *string      `json:"sleep_quality,omitempty"` // poor, fair, good, excellent
	Notes          *string      `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// MealType is the slot a meal was eaten in
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// Meal is a nutrition log entry
type Meal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	MealType  MealType  `json:"meal_type"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordType categorizes a medical record
type RecordType string

const (
	RecordTypeLabReport    RecordType = "lab_report"
	RecordTypePrescription RecordType = "prescription"
	RecordTypeReferral     RecordType = "referral"
	RecordTypeGeneral      RecordType = "general"
	RecordTypeCheckup      RecordType = "checkup"
)

// Vitals holds the vital signs captured with a medical record
type Vitals struct {
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	Temperature            *float64 `json:"temperature,omitempty"` // Celsius
	Weight                 *float64 `json:"weight,omitempty"`      // kg
	Height                 *float64 `json:"height,omitempty"`      // cm
	OxygenSaturation       *float64 `json:"oxygen_saturation,omitempty"`
}

// MedicalRecord is a clinical document tied to a user, optionally authored
// by a doctor
type MedicalRecord struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	DoctorID     *string    `json:"doctor_id,omitempty"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	RecordType   RecordType `json:"record_type"`
	Diagnosis    *string    `json:"diagnosis,omitempty"`
	Treatment    *string    `json:"treatment,omitempty"`
	Prescription *string    `json:"prescription,omitempty"`
	Vitals       *Vitals    `json:"vitals,omitempty"`
	Date         time.Time  `json:"date"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MealItem is a single entry in a diet plan slot
type MealItem struct {
	Name     string   `json:"name"`
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fats     *float64 `json:"fats,omitempty"`
	Portion  *string  `json:"portion,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// DietPlanMeals groups diet plan items by meal slot
type DietPlanMeals struct {
	Breakfast []MealItem `json:"breakfast,omitempty"`
	Lunch     []MealItem `json:"lunch,omitempty"`
	Dinner    []MealItem `json:"dinner,omitempty"`
	Snacks    []MealItem `json:"snacks,omitempty"`
}

// DietPlan is a nutrition plan authored by a dietitian (or doctor) for a user
type DietPlan struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	DietitianID     string        `json:"dietitian_id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	CalorieTarget   float64       `json:"calorie_target"`
	ProteinTarget   float64       `json:"protein_target"`
	CarbsTarget     float64       `json:"carbs_target"`
	FatTarget       float64       `json:"fat_target"`
	Meals           DietPlanMeals `json:"meals"`
	Recommendations []string      `json:"recommendations,omitempty"`
	Restrictions    []string      `json:"restrictions,omitempty"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
	IsActive        bool          `json:"is_active"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Difficulty grades a workout plan
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Exercise is a single entry in a workout plan
type Exercise struct {
	Name     string   `json:"name"`
	Sets     *int     `json:"sets,omitempty"`
	Reps     *string  `json:"reps,omitempty"` // free-form, e.g. "12-15"
	Duration *float64 `json:"duration,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// WorkoutPlan is a training plan authored by a trainer and assigned to users
type WorkoutPlan struct {
	ID            string     `json:"id"`
	TrainerID     string     `json:"trainer_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Exercises     []Exercise `json:"exercises,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	Duration      *float64   `json:"duration,omitempty"` // total minutes
	AssignedUsers []string   `json:"assigned_users,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// WeightLog is a single weight measurement
type WeightLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Weight    float64   `json:"weight"` // kg
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationType categorizes a notification
type NotificationType string

const (
	NotificationTypeReminder     NotificationType = "reminder"
	NotificationTypeAlert        NotificationType = "alert"
	NotificationTypeMotivational NotificationType = "motivational"
	NotificationTypeInfo         NotificationType = "info"
)

// Notification is an in-app message for a user
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

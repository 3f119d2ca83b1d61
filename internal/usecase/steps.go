package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/aalvaropc/fitdemo/internal/domain"
	"github.com/aalvaropc/fitdemo/internal/usecase/extract"
)

// Step ids of the default demo script, in run order.
const (
	StepRegister        = "register"
	StepLogin           = "login"
	StepCreateActivity  = "create_activity"
	StepCreateCycling   = "create_cycling"
	StepViewActivities  = "view_activities"
	StepCreateGoal      = "create_goal"
	StepViewMetrics     = "view_metrics"
	StepViewLeaderboard = "view_leaderboard"
)

const (
	accessTokenPath = "$.access"
	demoPassword    = "demo123456"
	dateLayout      = "2006-01-02"
)

// DefaultSteps returns the fitness API demo script. overrides replaces the
// endpoint of a step keyed by its id; unknown ids are ignored.
func DefaultSteps(overrides map[string]string) []domain.StepSpec {
	token := extract.Token(accessTokenPath)

	steps := []domain.StepSpec{
		{
			ID:           StepRegister,
			Title:        "1. Register User",
			Description:  "Create a new user account",
			Method:       domain.MethodPost,
			Endpoint:     "/auth/register",
			Payload:      RegisterPayload,
			ExtractToken: token,
			TokenTitle:   "Token Saved",
			TokenMessage: "Authentication token automatically saved for next requests!",
		},
		{
			ID:           StepLogin,
			Title:        "2. Login User",
			Description:  "Login with existing credentials",
			Method:       domain.MethodPost,
			Endpoint:     "/token",
			Payload:      LoginPayload,
			ExtractToken: token,
			TokenTitle:   "Token Updated",
			TokenMessage: "New authentication token saved!",
		},
		{
			ID:           StepCreateActivity,
			Title:        "3. Log Running Activity",
			Description:  "Create a fitness activity",
			Method:       domain.MethodPost,
			Endpoint:     "/activities",
			RequiresAuth: true,
			Payload:      RunningPayload,
		},
		{
			ID:           StepCreateCycling,
			Title:        "4. Log Cycling Activity",
			Description:  "Create another activity type",
			Method:       domain.MethodPost,
			Endpoint:     "/activities",
			RequiresAuth: true,
			Payload:      CyclingPayload,
		},
		{
			ID:           StepViewActivities,
			Title:        "5. View All Activities",
			Description:  "Get list of user activities",
			Method:       domain.MethodGet,
			Endpoint:     "/activities",
			RequiresAuth: true,
		},
		{
			ID:           StepCreateGoal,
			Title:        "6. Set Fitness Goal",
			Description:  "Create a monthly distance goal",
			Method:       domain.MethodPost,
			Endpoint:     "/activities/goals",
			RequiresAuth: true,
			Payload:      GoalPayload,
		},
		{
			ID:           StepViewMetrics,
			Title:        "7. View Metrics",
			Description:  "Get activity statistics",
			Method:       domain.MethodGet,
			Endpoint:     "/activities/metrics",
			RequiresAuth: true,
		},
		{
			ID:           StepViewLeaderboard,
			Title:        "8. View Leaderboard",
			Description:  "See competitive rankings",
			Method:       domain.MethodGet,
			Endpoint:     "/activities/leaderboard",
			RequiresAuth: true,
		},
	}

	for i := range steps {
		if ep := strings.TrimSpace(overrides[steps[i].ID]); ep != "" {
			steps[i].Endpoint = ep
		}
	}
	return steps
}

// RegisterPayload builds a unique user from the current time in milliseconds.
func RegisterPayload(env domain.PayloadEnv) any {
	ms := env.Now.UnixMilli()
	return map[string]any{
		"username":         fmt.Sprintf("demo_user_%d", ms),
		"email":            fmt.Sprintf("demo%d@example.com", ms),
		"password":         demoPassword,
		"password_confirm": demoPassword,
		"first_name":       "Demo",
		"last_name":        "User",
	}
}

func LoginPayload(env domain.PayloadEnv) any {
	return map[string]any{
		"username": env.Credentials.Username,
		"password": env.Credentials.Password,
	}
}

// RunningPayload: 20-79 minutes, 2.0-11.9 km, 200-599 kcal, dated today.
func RunningPayload(env domain.PayloadEnv) any {
	return activity("running", env.Now,
		env.Rand.IntN(60)+20,
		env.Rand.Float64()*10+2,
		env.Rand.IntN(400)+200,
		"Demo running activity")
}

// CyclingPayload: 30-119 minutes, 5.0-24.9 km, 300-899 kcal, dated yesterday.
func CyclingPayload(env domain.PayloadEnv) any {
	return activity("cycling", env.Now.AddDate(0, 0, -1),
		env.Rand.IntN(90)+30,
		env.Rand.Float64()*20+5,
		env.Rand.IntN(600)+300,
		"Demo cycling activity")
}

func activity(kind string, day time.Time, duration int, distance float64, calories int, notes string) map[string]any {
	return map[string]any{
		"activity_type":   kind,
		"duration":        duration,
		"distance":        formatDistance(distance),
		"calories_burned": calories,
		"date":            day.Format(dateLayout),
		"notes":           notes,
	}
}

// GoalPayload is a 50 km running goal spanning the current month.
func GoalPayload(env domain.PayloadEnv) any {
	y, m, _ := env.Now.Date()
	loc := env.Now.Location()
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	return map[string]any{
		"goal_type":     "distance",
		"target_value":  50,
		"period":        "monthly",
		"activity_type": "running",
		"start_date":    start.Format(dateLayout),
		"end_date":      end.Format(dateLayout),
	}
}

// formatDistance renders one decimal and never rounds past the upper bound
// (11.96 would otherwise print as "12.0").
func formatDistance(km float64) string {
	truncated := float64(int(km*10)) / 10
	return fmt.Sprintf("%.1f", truncated)
}

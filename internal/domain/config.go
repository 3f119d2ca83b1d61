package domain

import "time"

// Config represents the fitdemo configuration loaded from fitdemo.yaml.
type Config struct {
	BaseURL     string
	Delay       time.Duration
	Timeout     time.Duration
	LogCapacity int
	Login       Credentials
	// Endpoints overrides the endpoint path of a step, keyed by step id.
	Endpoints map[string]string
}

// DefaultConfig provides sane defaults if fitdemo.yaml is missing or partial.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://fitness-tracker-api-soub.onrender.com/api",
		Delay:       time.Second,
		Timeout:     30 * time.Second,
		LogCapacity: DefaultLogCapacity,
		Login: Credentials{
			Username: "demo_user",
			Password: "demo123456",
		},
		Endpoints: DefaultEndpoints(),
	}
}

// DefaultEndpoints maps every demo step id to the slash-terminated path the
// hosted Django API routes. Django redirects slashless paths, and a redirected
// POST loses its body.
func DefaultEndpoints() map[string]string {
	return map[string]string{
		"register":         "/auth/register/",
		"login":            "/token/",
		"create_activity":  "/activities/",
		"create_cycling":   "/activities/",
		"view_activities":  "/activities/",
		"create_goal":      "/activities/goals/",
		"view_metrics":     "/activities/metrics/",
		"view_leaderboard": "/activities/leaderboard/",
	}
}

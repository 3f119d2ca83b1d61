package domain

import "time"

// RandomSource is the random number source used by payload builders.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// Credentials are the username/password pair used by the login step.
type Credentials struct {
	Username string
	Password string
}

// PayloadEnv is everything a payload builder may depend on.
type PayloadEnv struct {
	Now         time.Time
	Rand        RandomSource
	Credentials Credentials
}

// PayloadBuilder builds a JSON-serializable request body. It must be pure.
type PayloadBuilder func(env PayloadEnv) any

// TokenExtractor pulls an access token out of a parsed response body.
type TokenExtractor func(body any) (string, bool)

// StepSpec is a declarative, immutable description of one demo step.
type StepSpec struct {
	ID          string
	Title       string
	Description string

	Method       HTTPMethod
	Endpoint     string
	RequiresAuth bool

	// Payload is nil for requests without a body.
	Payload PayloadBuilder

	// ExtractToken is nil for steps that never carry a token.
	ExtractToken TokenExtractor
	TokenTitle   string
	TokenMessage string
}

// Request builds the request this step issues under env.
func (s StepSpec) Request(env PayloadEnv) Request {
	req := Request{
		Method:       s.Method,
		Endpoint:     s.Endpoint,
		RequiresAuth: s.RequiresAuth,
	}
	if s.Payload != nil {
		req.Body = s.Payload(env)
	}
	return req
}

// StepResult is the outcome of running a single step.
type StepResult struct {
	StepID     string  `json:"step_id"`
	Outcome    Outcome `json:"-"`
	Succeeded  bool    `json:"succeeded"`
	Status     int     `json:"status"`
	TokenSaved bool    `json:"token_saved"`
}

// DemoSummary describes one full demo run.
type DemoSummary struct {
	SessionID string       `json:"session_id"`
	Started   time.Time    `json:"started_at"`
	Finished  time.Time    `json:"finished_at"`
	Steps     []StepResult `json:"steps"`
	Failed    int          `json:"failed"`
}

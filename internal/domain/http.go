package domain

import "time"

// HTTPMethod represents an HTTP method (e.g., GET, POST).
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// Request is a single API call issued by a step.
// Endpoint is appended to the session base URL. A nil Body sends no payload.
type Request struct {
	Title        string // Optional: defaults to "<METHOD> <endpoint>".
	Method       HTTPMethod
	Endpoint     string
	Body         any
	RequiresAuth bool
}

// DisplayTitle returns the record title used for this request.
func (r Request) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return string(r.Method) + " " + r.Endpoint
}

// Outcome is what the executor hands back after recording a request attempt.
type Outcome struct {
	Record ResultRecord

	// Body is the parsed JSON response on success, nil otherwise.
	Body any

	// Status is zero when the request never got a response.
	Status  int
	Latency time.Duration
	Err     *RunError
}

// Succeeded reports whether the request was recorded as a success.
func (o Outcome) Succeeded() bool {
	return o.Record.Succeeded
}

package mockapi

import (
	"cmp"
	"context"
	"math"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type ctxKey struct{}

func userID(ctx context.Context) int {
	id, _ := ctx.Value(ctxKey{}).(int)
	return id
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, detail("Authentication credentials were not provided."))
			return
		}
		id, err := s.tokens.Verify(tok)
		if err != nil {
			s.log.Debug("mockapi.auth.rejected", "err", err)
			writeJSON(w, http.StatusUnauthorized, detail("Given token not valid for any token type"))
			return
		}
		if _, err := s.store.UserByID(id); err != nil {
			writeJSON(w, http.StatusUnauthorized, detail("User not found"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the Fitness Tracker API",
		"available_endpoints": map[string]string{
			"auth":          Prefix + "/auth/",
			"activities":    Prefix + "/activities/",
			"token":         Prefix + "/token/",
			"token_refresh": Prefix + "/token/refresh/",
		},
	})
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail(err.Error()))
		return
	}

	errs := fieldErrors{}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		errs.required("username")
	}
	if in.Password == "" {
		errs.required("password")
	} else if len(in.Password) < 8 {
		errs.add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if in.PasswordConfirm == "" {
		errs.required("password_confirm")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		errs.add("email", "Enter a valid email address.")
	}
	if len(errs) == 0 && in.Password != in.PasswordConfirm {
		errs.add("non_field_errors", "Passwords don't match")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		s.log.Error("mockapi.register.hash_failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, detail("could not hash password"))
		return
	}

	now := s.now()
	u, err := s.store.AddUser(User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		DateJoined:   now,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, fieldErrors{
			"username": {"A user with that username already exists."},
		})
		return
	}

	access, refresh, err := s.tokens.Issue(u)
	if err != nil {
		s.log.Error("mockapi.token.sign_failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, detail("could not issue token"))
		return
	}

	s.log.Info("mockapi.user.registered", "user_id", u.ID, "username", u.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    userJSON(u),
		"refresh": refresh,
		"access":  access,
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail(err.Error()))
		return
	}

	errs := fieldErrors{}
	if in.Username == "" {
		errs.required("username")
	}
	if in.Password == "" {
		errs.required("password")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	u, err := s.store.UserByName(in.Username)
	if err != nil || !checkPassword(u.PasswordHash, in.Password) {
		writeJSON(w, http.StatusUnauthorized, detail("No active account found with the given credentials"))
		return
	}

	access, refresh, err := s.tokens.Issue(u)
	if err != nil {
		s.log.Error("mockapi.token.sign_failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, detail("could not issue token"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"refresh": refresh, "access": access})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail(err.Error()))
		return
	}
	if in.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, fieldErrors{"refresh": {"This field is required."}})
		return
	}
	access, err := s.tokens.Refresh(in.Refresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, detail("Token is invalid or expired"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(userID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
		return
	}
	writeJSON(w, http.StatusOK, userJSON(u))
}

type activityRequest struct {
	ActivityType   string `json:"activity_type"`
	Duration       number `json:"duration"`
	Distance       number `json:"distance"`
	CaloriesBurned number `json:"calories_burned"`
	Date           string `json:"date"`
	Notes          string `json:"notes"`
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var in activityRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail(err.Error()))
		return
	}

	act, errs := s.validateActivity(in, Activity{UserID: userID(r.Context())}, false)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	now := s.now()
	act.CreatedAt, act.UpdatedAt = now, now
	writeJSON(w, http.StatusCreated, s.activityJSON(s.store.AddActivity(act)))
}

// handleUpdateActivity serves PUT (partial=false) and PATCH (partial=true).
func (s *Server) handleUpdateActivity(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		cur, ok := s.store.Activity(userID(r.Context()), id)
		if !ok {
			writeJSON(w, http.StatusNotFound, detail("No Activity matches the given query."))
			return
		}

		var in activityRequest
		if err := decodeBody(r, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, detail(err.Error()))
			return
		}

		act, errs := s.validateActivity(in, cur, partial)
		if len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}
		act.UpdatedAt = s.now()
		s.store.UpdateActivity(act)
		writeJSON(w, http.StatusOK, s.activityJSON(act))
	}
}

// validateActivity applies in over base. Required fields may be omitted
// only when partial is set; optional fields keep base when absent.
func (s *Server) validateActivity(in activityRequest, base Activity, partial bool) (Activity, fieldErrors) {
	errs := fieldErrors{}
	act := base

	if in.ActivityType != "" || !partial {
		switch {
		case in.ActivityType == "":
			errs.required("activity_type")
		case !slices.Contains(ActivityTypes, in.ActivityType):
			errs.add("activity_type", `"`+in.ActivityType+`" is not a valid choice.`)
		default:
			act.ActivityType = in.ActivityType
		}
	}

	if in.Duration.set || !partial {
		duration, ok := positiveInt(in.Duration)
		switch {
		case !in.Duration.set:
			errs.required("duration")
		case !ok:
			errs.add("duration", "Ensure this value is a whole number greater than or equal to 1.")
		default:
			act.Duration = duration
		}
	}

	if in.Distance.set {
		if in.Distance.bad || in.Distance.value < 0.01 {
			errs.add("distance", "Ensure this value is greater than or equal to 0.01.")
		} else {
			v := math.Round(in.Distance.value*100) / 100
			act.Distance = &v
		}
	}

	if in.CaloriesBurned.set {
		if c, ok := positiveInt(in.CaloriesBurned); ok {
			act.CaloriesBurned = &c
		} else {
			errs.add("calories_burned", "Ensure this value is a whole number greater than or equal to 1.")
		}
	}

	if in.Date != "" || !partial {
		date, ok := parseDate(in.Date)
		switch {
		case in.Date == "":
			errs.required("date")
		case !ok:
			errs.add("date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		case date.After(s.today()):
			errs.add("date", "Activity date cannot be in the future.")
		default:
			act.Date = date
		}
	}

	switch {
	case len(in.Notes) > 500:
		errs.add("notes", "Ensure this field has no more than 500 characters.")
	case in.Notes != "":
		act.Notes = in.Notes
	}

	return act, errs
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	f, errs := activityFilter(r)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	acts := s.store.Activities(userID(r.Context()), f)
	out := make([]map[string]any, 0, len(acts))
	for _, a := range acts {
		out = append(out, s.activityJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

var historyOrderings = []string{"date", "duration", "distance", "calories_burned", "created_at"}

// handleHistory lists activities like handleListActivities, wrapped in a
// count/results envelope and sorted by ?ordering= (default -date).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	f, errs := activityFilter(r)
	ordering := r.URL.Query().Get("ordering")
	if ordering == "" {
		ordering = "-date"
	}
	field := strings.TrimPrefix(ordering, "-")
	if !slices.Contains(historyOrderings, field) {
		errs.add("ordering", `"`+ordering+`" is not a valid ordering.`)
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	acts := s.store.Activities(userID(r.Context()), f)
	desc := strings.HasPrefix(ordering, "-")
	sort.SliceStable(acts, func(i, j int) bool {
		c := compareActivities(acts[i], acts[j], field)
		if desc {
			return c > 0
		}
		return c < 0
	})

	out := make([]map[string]any, 0, len(acts))
	for _, a := range acts {
		out = append(out, s.activityJSON(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"next":     false,
		"previous": false,
		"results":  out,
	})
}

func compareActivities(a, b Activity, field string) int {
	switch field {
	case "duration":
		return cmp.Compare(a.Duration, b.Duration)
	case "distance":
		return cmp.Compare(deref(a.Distance), deref(b.Distance))
	case "calories_burned":
		return cmp.Compare(deref(a.CaloriesBurned), deref(b.CaloriesBurned))
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return a.Date.Compare(b.Date)
	}
}

func deref[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	a, ok := s.store.Activity(userID(r.Context()), id)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail("No Activity matches the given query."))
		return
	}
	writeJSON(w, http.StatusOK, s.activityJSON(a))
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if !s.store.DeleteActivity(userID(r.Context()), id) {
		writeJSON(w, http.StatusNotFound, detail("No Activity matches the given query."))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type goalRequest struct {
	GoalType     string `json:"goal_type"`
	TargetValue  number `json:"target_value"`
	Period       string `json:"period"`
	ActivityType string `json:"activity_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     *bool  `json:"is_active"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in goalRequest
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail(err.Error()))
		return
	}

	g, errs := validateGoal(in, Goal{UserID: userID(r.Context()), IsActive: true}, false)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	now := s.now()
	g.CreatedAt, g.UpdatedAt = now, now
	writeJSON(w, http.StatusCreated, s.goalJSON(s.store.AddGoal(g)))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	g, ok := s.store.Goal(userID(r.Context()), id)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail("No Goal matches the given query."))
		return
	}
	writeJSON(w, http.StatusOK, s.goalJSON(g))
}

// handleUpdateGoal serves PUT (partial=false) and PATCH (partial=true).
func (s *Server) handleUpdateGoal(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		cur, ok := s.store.Goal(userID(r.Context()), id)
		if !ok {
			writeJSON(w, http.StatusNotFound, detail("No Goal matches the given query."))
			return
		}

		var in goalRequest
		if err := decodeBody(r, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, detail(err.Error()))
			return
		}

		g, errs := validateGoal(in, cur, partial)
		if len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, errs)
			return
		}
		g.UpdatedAt = s.now()
		s.store.UpdateGoal(g)
		writeJSON(w, http.StatusOK, s.goalJSON(g))
	}
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if !s.store.DeleteGoal(userID(r.Context()), id) {
		writeJSON(w, http.StatusNotFound, detail("No Goal matches the given query."))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateGoal applies in over base, then checks the date window of the result.
func validateGoal(in goalRequest, base Goal, partial bool) (Goal, fieldErrors) {
	errs := fieldErrors{}
	g := base

	if in.GoalType != "" || !partial {
		choice(errs, "goal_type", in.GoalType, goalTypes, true)
		g.GoalType = in.GoalType
	}
	if in.Period != "" || !partial {
		choice(errs, "period", in.Period, goalPeriods, true)
		g.Period = in.Period
	}
	if in.ActivityType != "" {
		choice(errs, "activity_type", in.ActivityType, ActivityTypes, false)
		g.ActivityType = in.ActivityType
	}

	if in.TargetValue.set || !partial {
		switch {
		case !in.TargetValue.set:
			errs.required("target_value")
		case in.TargetValue.bad:
			errs.add("target_value", "A valid number is required.")
		default:
			g.TargetValue = in.TargetValue.value
		}
	}

	if in.StartDate != "" || !partial {
		start, ok := parseDate(in.StartDate)
		dateField(errs, "start_date", in.StartDate, ok)
		g.StartDate = start
	}
	if in.EndDate != "" || !partial {
		end, ok := parseDate(in.EndDate)
		dateField(errs, "end_date", in.EndDate, ok)
		g.EndDate = end
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}

	if len(errs) == 0 && !g.StartDate.Before(g.EndDate) {
		errs.add("non_field_errors", "End date must be after start date.")
	}
	return g, errs
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.store.Goals(userID(r.Context()))
	out := make([]map[string]any, 0, len(goals))
	for _, g := range goals {
		out = append(out, s.goalJSON(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	f, errs := activityFilter(r)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	m := computeMetrics(s.store.Activities(userID(r.Context()), f))
	writeJSON(w, http.StatusOK, m.JSON())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "distance"
	}
	if !slices.Contains(leaderboardMetrics, metric) {
		writeJSON(w, http.StatusBadRequest, fieldErrors{
			"metric": {`"` + metric + `" is not a valid choice.`},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metric":      metric,
		"leaderboard": s.leaderboard(metric),
	})
}

func (s *Server) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activityFilter(r *http.Request) (ActivityFilter, fieldErrors) {
	q := r.URL.Query()
	errs := fieldErrors{}
	var f ActivityFilter

	if v := q.Get("start_date"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			errs.add("start_date", "Enter a valid date.")
		}
		f.From = t
	}
	if v := q.Get("end_date"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			errs.add("end_date", "Enter a valid date.")
		}
		f.To = t
	}
	f.ActivityType = q.Get("activity_type")
	return f, errs
}

func choice(errs fieldErrors, field, v string, allowed []string, required bool) {
	switch {
	case v == "" && required:
		errs.required(field)
	case v != "" && !slices.Contains(allowed, v):
		errs.add(field, `"`+v+`" is not a valid choice.`)
	}
}

func dateField(errs fieldErrors, field, raw string, ok bool) {
	switch {
	case raw == "":
		errs.required(field)
	case !ok:
		errs.add(field, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
}

func positiveInt(n number) (int, bool) {
	if !n.set || n.bad || n.value < 1 || n.value != math.Trunc(n.value) {
		return 0, false
	}
	return int(n.value), true
}

func userJSON(u User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"date_joined": u.DateJoined.UTC().Format(time.RFC3339),
		"created_at":  u.DateJoined.UTC().Format(time.RFC3339),
		"updated_at":  u.DateJoined.UTC().Format(time.RFC3339),
	}
}

func (s *Server) username(id int) string {
	u, err := s.store.UserByID(id)
	if err != nil {
		return ""
	}
	return u.Username
}

func (s *Server) activityJSON(a Activity) map[string]any {
	var distance, calories any
	if a.Distance != nil {
		distance = decimal(*a.Distance)
	}
	if a.CaloriesBurned != nil {
		calories = *a.CaloriesBurned
	}
	return map[string]any{
		"id":              a.ID,
		"user":            s.username(a.UserID),
		"activity_type":   a.ActivityType,
		"duration":        a.Duration,
		"distance":        distance,
		"calories_burned": calories,
		"date":            a.Date.Format(dateLayout),
		"notes":           a.Notes,
		"created_at":      a.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":      a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) goalJSON(g Goal) map[string]any {
	return map[string]any{
		"id":            g.ID,
		"user":          s.username(g.UserID),
		"goal_type":     g.GoalType,
		"target_value":  decimal(g.TargetValue),
		"period":        g.Period,
		"activity_type": g.ActivityType,
		"start_date":    g.StartDate.Format(dateLayout),
		"end_date":      g.EndDate.Format(dateLayout),
		"is_active":     g.IsActive,
		"created_at":    g.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":    g.UpdatedAt.UTC().Format(time.RFC3339),
		"progress":      s.progress(g),
	}
}

// progress sums the activities inside the goal window.
func (s *Server) progress(g Goal) map[string]any {
	acts := s.store.Activities(g.UserID, ActivityFilter{
		From:         g.StartDate,
		To:           g.EndDate,
		ActivityType: g.ActivityType,
	})
	m := computeMetrics(acts)

	var current float64
	switch g.GoalType {
	case "distance":
		current = m.TotalDistance
	case "duration":
		current = float64(m.TotalDuration)
	case "calories":
		current = float64(m.TotalCalories)
	case "frequency":
		current = float64(m.TotalActivities)
	}

	pct := 0.0
	if g.TargetValue > 0 {
		pct = math.Min(100, current/g.TargetValue*100)
	}
	return map[string]any{
		"current":    current,
		"target":     g.TargetValue,
		"percentage": pct,
	}
}

type metrics struct {
	TotalActivities int
	TotalDuration   int
	TotalDistance   float64
	TotalCalories   int
	ByType          map[string]int
}

func computeMetrics(acts []Activity) metrics {
	m := metrics{ByType: map[string]int{}}
	for _, a := range acts {
		m.TotalActivities++
		m.TotalDuration += a.Duration
		if a.Distance != nil {
			m.TotalDistance += *a.Distance
		}
		if a.CaloriesBurned != nil {
			m.TotalCalories += *a.CaloriesBurned
		}
		m.ByType[a.ActivityType]++
	}
	return m
}

// MostCommon breaks ties alphabetically.
func (m metrics) MostCommon() string {
	best, n := "None", 0
	for kind, c := range m.ByType {
		if c > n || (c == n && kind < best) {
			best, n = kind, c
		}
	}
	return best
}

func (m metrics) JSON() map[string]any {
	avg := 0.0
	if m.TotalActivities > 0 {
		avg = float64(m.TotalDuration) / float64(m.TotalActivities)
	}
	return map[string]any{
		"total_activities":     m.TotalActivities,
		"total_duration":       m.TotalDuration,
		"total_distance":       decimal(m.TotalDistance),
		"total_calories":       m.TotalCalories,
		"average_duration":     decimal(avg),
		"most_common_activity": m.MostCommon(),
		"activities_by_type":   m.ByType,
	}
}

var leaderboardMetrics = []string{"distance", "duration", "calories", "activities"}

const leaderboardSize = 10

type leaderboardEntry struct {
	Rank            int    `json:"rank"`
	Username        string `json:"username"`
	TotalDistance   string `json:"total_distance"`
	TotalDuration   int    `json:"total_duration"`
	TotalCalories   int    `json:"total_calories"`
	TotalActivities int    `json:"total_activities"`

	score float64
}

// leaderboard ranks users with at least one activity by metric, ties broken
// by username.
func (s *Server) leaderboard(metric string) []leaderboardEntry {
	entries := make([]leaderboardEntry, 0)
	for _, u := range s.store.Users() {
		m := computeMetrics(s.store.Activities(u.ID, ActivityFilter{}))
		if m.TotalActivities == 0 {
			continue
		}
		e := leaderboardEntry{
			Username:        u.Username,
			TotalDistance:   decimal(m.TotalDistance),
			TotalDuration:   m.TotalDuration,
			TotalCalories:   m.TotalCalories,
			TotalActivities: m.TotalActivities,
		}
		switch metric {
		case "distance":
			e.score = m.TotalDistance
		case "duration":
			e.score = float64(m.TotalDuration)
		case "calories":
			e.score = float64(m.TotalCalories)
		case "activities":
			e.score = float64(m.TotalActivities)
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

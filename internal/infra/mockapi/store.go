package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	errDuplicateUser = errors.New("duplicate username")
	errNoUser        = errors.New("no such user")
)

// ActivityTypes are the activity kinds the API accepts.
var ActivityTypes = []string{
	"running", "cycling", "swimming", "walking", "weightlifting", "yoga",
	"basketball", "football", "tennis", "hiking", "dancing", "boxing", "other",
}

var (
	goalTypes   = []string{"distance", "duration", "calories", "frequency"}
	goalPeriods = []string{"daily", "weekly", "monthly", "yearly"}
)

type User struct {
	ID           int
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	DateJoined   time.Time
}

type Activity struct {
	ID             int
	UserID         int
	ActivityType   string
	Duration       int
	Distance       *float64
	CaloriesBurned *int
	Date           time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Goal struct {
	ID           int
	UserID       int
	GoalType     string
	TargetValue  float64
	Period       string
	ActivityType string
	StartDate    time.Time
	EndDate      time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store keeps every user, activity, goal and refresh token in memory.
type Store struct {
	mu sync.RWMutex

	users      map[int]*User
	byName     map[string]int
	activities []Activity
	goals      []Goal
	refresh    map[string]int

	nextUser     int
	nextActivity int
	nextGoal     int
}

func NewStore() *Store {
	return &Store{
		users:   map[int]*User{},
		byName:  map[string]int{},
		refresh: map[string]int{},
	}
}

// AddUser stores u with a fresh id. Usernames are unique, case-insensitively.
func (s *Store) AddUser(u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	if _, ok := s.byName[key]; ok {
		return User{}, errDuplicateUser
	}
	s.nextUser++
	u.ID = s.nextUser
	s.users[u.ID] = &u
	s.byName[key] = u.ID
	return u, nil
}

func (s *Store) UserByName(name string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return User{}, errNoUser
	}
	return *s.users[id], nil
}

func (s *Store) UserByID(id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, errNoUser
	}
	return *u, nil
}

func (s *Store) SaveRefresh(token string, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[token] = userID
}

func (s *Store) RefreshOwner(token string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.refresh[token]
	return id, ok
}

func (s *Store) AddActivity(a Activity) Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextActivity++
	a.ID = s.nextActivity
	s.activities = append(s.activities, a)
	return a
}

// ActivityFilter narrows Activities. Zero values match everything.
type ActivityFilter struct {
	From, To     time.Time
	ActivityType string
}

func (f ActivityFilter) match(a Activity) bool {
	if !f.From.IsZero() && a.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && a.Date.After(f.To) {
		return false
	}
	return f.ActivityType == "" || a.ActivityType == f.ActivityType
}

// Activities returns the user's activities, newest date first.
func (s *Store) Activities(userID int, f ActivityFilter) []Activity {
	s.mu.RLock()
	out := make([]Activity, 0)
	for _, a := range s.activities {
		if a.UserID == userID && f.match(a) {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) Activity(userID, id int) (Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.activities {
		if a.ID == id && a.UserID == userID {
			return a, true
		}
	}
	return Activity{}, false
}

// UpdateActivity replaces the stored activity with the same id and owner.
func (s *Store) UpdateActivity(a Activity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.activities {
		if cur.ID == a.ID && cur.UserID == a.UserID {
			s.activities[i] = a
			return true
		}
	}
	return false
}

func (s *Store) DeleteActivity(userID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.activities {
		if a.ID == id && a.UserID == userID {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) AddGoal(g Goal) Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGoal++
	g.ID = s.nextGoal
	s.goals = append(s.goals, g)
	return g
}

// Goals returns the user's goals, newest first.
func (s *Store) Goals(userID int) []Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Goal, 0)
	for i := len(s.goals) - 1; i >= 0; i-- {
		if s.goals[i].UserID == userID {
			out = append(out, s.goals[i])
		}
	}
	return out
}

func (s *Store) Goal(userID, id int) (Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.goals {
		if g.ID == id && g.UserID == userID {
			return g, true
		}
	}
	return Goal{}, false
}

// UpdateGoal replaces the stored goal with the same id and owner.
func (s *Store) UpdateGoal(g Goal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.goals {
		if cur.ID == g.ID && cur.UserID == g.UserID {
			s.goals[i] = g
			return true
		}
	}
	return false
}

func (s *Store) DeleteGoal(userID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id && g.UserID == userID {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return true
		}
	}
	return false
}

// Users returns every user ordered by id.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

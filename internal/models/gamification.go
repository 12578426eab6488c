package models

import "time"

type Badge struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	Progress    float64 `json:"progress,omitempty"`
}

// GameState is a session's points, badges and streak counters.
type GameState struct {
	Points         int      `json:"points"`
	Badges         []string `json:"badges"`
	StreakDays     int      `json:"streak_days"`
	LastVisitDate  string   `json:"last_visit_date,omitempty"` // YYYY-MM-DD
	QuestionsAsked int      `json:"questions_asked"`
	CorrectAnswers int      `json:"correct_answers"`
	TopicsExplored int      `json:"topics_explored"`
	Shares         int      `json:"shares"`
}

type GamificationResponse struct {
	State      GameState `json:"state"`
	Earned     []Badge   `json:"earned"`
	NextBadges []Badge   `json:"next_badges"`
}

type FactActionResponse struct {
	PointsAdded int       `json:"points_added"`
	NewBadges   []Badge   `json:"new_badges"`
	Text        string    `json:"text,omitempty"`
	State       GameState `json:"state"`
	At          time.Time `json:"at"`
}

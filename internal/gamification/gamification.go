// Package gamification awards points, badges and daily streaks.
package gamification

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"sciencegpt-backend/internal/models"
)

//go:embed rules.yaml
var rulesYAML []byte

// Point-earning actions.
const (
	ActionQuestionAsked    = "question_asked"
	ActionDailyChallenge   = "daily_challenge"
	ActionCorrectAnswer    = "correct_answer"
	ActionTopicExploration = "topic_exploration"
	ActionDailyLogin       = "daily_login"
	ActionSharing          = "sharing_knowledge"
	ActionCompletingLesson = "completing_lesson"
)

// nextBadgeThreshold is the progress a badge needs before it is suggested.
const nextBadgeThreshold = 0.3

const dateLayout = "2006-01-02"

type badgeDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Icon        string         `yaml:"icon"`
	Description string         `yaml:"description"`
	Criteria    map[string]int `yaml:"criteria"`
}

type rules struct {
	Points map[string]int `yaml:"points"`
	Badges []badgeDef     `yaml:"badges"`
}

// Engine applies the point table and badge rules to a GameState. It holds
// no per-student state.
type Engine struct {
	points map[string]int
	badges []badgeDef
	byID   map[string]badgeDef
}

func Load() (*Engine, error) {
	return Parse(rulesYAML)
}

func MustLoad() *Engine {
	e, err := Load()
	if err != nil {
		panic(err)
	}
	return e
}

func Parse(data []byte) (*Engine, error) {
	var r rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse gamification rules: %w", err)
	}
	if len(r.Points) == 0 {
		return nil, errors.New("gamification rules define no points")
	}

	e := &Engine{
		points: r.Points,
		badges: r.Badges,
		byID:   make(map[string]badgeDef, len(r.Badges)),
	}
	for _, b := range r.Badges {
		if len(b.Criteria) == 0 {
			return nil, fmt.Errorf("badge %s has no criteria", b.ID)
		}
		for stat, need := range b.Criteria {
			if need <= 0 {
				return nil, fmt.Errorf("badge %s: %s must be positive", b.ID, stat)
			}
		}
		e.byID[b.ID] = b
	}
	return e, nil
}

// Points returns the base value of an action; unknown actions are worth 0.
func (e *Engine) Points(action string) int {
	return e.points[action]
}

// AwardPoints adds the action's points times multiplier to the state and
// returns what was added.
func (e *Engine) AwardPoints(state *models.GameState, action string, multiplier int) int {
	earned := e.points[action] * multiplier
	state.Points += earned
	return earned
}

// CheckBadges awards every badge whose criteria are now met and returns the
// new ones in definition order.
func (e *Engine) CheckBadges(state *models.GameState) []models.Badge {
	stats := statsOf(*state)
	var earned []models.Badge

	for _, b := range e.badges {
		if hasBadge(state.Badges, b.ID) {
			continue
		}
		if progress(b.Criteria, stats) >= 1 {
			state.Badges = append(state.Badges, b.ID)
			earned = append(earned, toModel(b))
		}
	}
	return earned
}

// EarnedBadges lists the state's badges in the order they were earned.
func (e *Engine) EarnedBadges(state models.GameState) []models.Badge {
	out := make([]models.Badge, 0, len(state.Badges))
	for _, id := range state.Badges {
		if b, ok := e.byID[id]; ok {
			out = append(out, toModel(b))
		}
	}
	return out
}

// NextBadges returns up to three unearned badges that are more than 30%
// complete, closest first.
func (e *Engine) NextBadges(state models.GameState) []models.Badge {
	stats := statsOf(state)
	var next []models.Badge

	for _, b := range e.badges {
		if hasBadge(state.Badges, b.ID) {
			continue
		}
		p := progress(b.Criteria, stats)
		if p > nextBadgeThreshold {
			m := toModel(b)
			m.Progress = p
			next = append(next, m)
		}
	}

	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Progress > next[j].Progress
	})
	if len(next) > 3 {
		next = next[:3]
	}
	return next
}

// UpdateStreak records a visit on now's calendar day. A visit on the same
// day changes nothing; the next day extends the streak; any longer gap
// restarts it at 1. Every counted visit earns the daily login points, which
// are returned.
func (e *Engine) UpdateStreak(state *models.GameState, now time.Time) int {
	today := now.Format(dateLayout)

	if state.LastVisitDate != "" {
		last, err := time.ParseInLocation(dateLayout, state.LastVisitDate, now.Location())
		switch {
		case err != nil:
			state.StreakDays = 1
		case today == state.LastVisitDate:
			return 0
		case today == last.AddDate(0, 0, 1).Format(dateLayout):
			state.StreakDays++
		default:
			state.StreakDays = 1
		}
	} else {
		state.StreakDays = 1
	}

	state.LastVisitDate = today
	return e.AwardPoints(state, ActionDailyLogin, 1)
}

func statsOf(s models.GameState) map[string]int {
	return map[string]int{
		"questions_asked": s.QuestionsAsked,
		"streak_days":     s.StreakDays,
		"correct_answers": s.CorrectAnswers,
		"total_points":    s.Points,
		"topics_explored": s.TopicsExplored,
		"shares":          s.Shares,
	}
}

// progress averages the completion of each criterion, each capped at 1.
func progress(criteria map[string]int, stats map[string]int) float64 {
	if len(criteria) == 0 {
		return 0
	}
	var total float64
	for stat, need := range criteria {
		total += min(float64(stats[stat])/float64(need), 1.0)
	}
	return total / float64(len(criteria))
}

func hasBadge(ids []string, id string) bool {
	for _, b := range ids {
		if b == id {
			return true
		}
	}
	return false
}

func toModel(b badgeDef) models.Badge {
	return models.Badge{
		ID:          b.ID,
		Name:        b.Name,
		Icon:        b.Icon,
		Description: b.Description,
	}
}

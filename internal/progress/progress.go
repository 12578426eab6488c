// Package progress keeps a session's question history and study time and
// derives learning statistics from them.
package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"sciencegpt-backend/internal/models"
)

const (
	recentActivityLimit = 5
	recentQuestionRunes = 50
	weekDays            = 7
)

// Metrics are running totals kept alongside the history.
type Metrics struct {
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	TopicsExplored   int     `json:"topics_explored"`
	TimeSpentSeconds float64 `json:"time_spent"`
}

// Snapshot is the exported form of a Tracker.
type Snapshot struct {
	Sessions         []models.StudySession        `json:"sessions"`
	TopicsStudied    map[string]models.TopicStudy `json:"topics_studied"`
	QuestionsHistory []models.QuestionLog         `json:"questions_history"`
	Metrics          Metrics                      `json:"performance_metrics"`
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	questions  []models.QuestionLog
	topics     map[string]*models.TopicStudy
	topicOrder []string
	sessions   []models.StudySession
	current    *models.StudySession
	metrics    Metrics

	now func() time.Time
}

func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		topics: make(map[string]*models.TopicStudy),
		now:    now,
	}
}

func topicKey(subject, topic string) string {
	return subject + "_" + topic
}

// LogQuestion records a question against its subject and topic.
func (t *Tracker) LogQuestion(question string, grade int, subject, topic string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.questions = append(t.questions, models.QuestionLog{
		Timestamp: now,
		Question:  question,
		Grade:     grade,
		Subject:   subject,
		Topic:     topic,
	})
	t.metrics.TotalQuestions++

	key := topicKey(subject, topic)
	ts, ok := t.topics[key]
	if !ok {
		ts = &models.TopicStudy{Subject: subject, Topic: topic, FirstStudied: now}
		t.topics[key] = ts
		t.topicOrder = append(t.topicOrder, key)
	}
	ts.QuestionsCount++

	if t.current != nil {
		t.current.Questions++
		if !containsString(t.current.Topics, topic) {
			t.current.Topics = append(t.current.Topics, topic)
		}
	}
}

// RecordCorrectAnswer bumps the correct-answer counter.
func (t *Tracker) RecordCorrectAnswer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.CorrectAnswers++
}

// StartStudySession opens a study session unless one is already open.
func (t *Tracker) StartStudySession() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		return
	}
	t.current = &models.StudySession{StartedAt: t.now(), Topics: []string{}}
}

// EndStudySession closes the open study session, if any, and adds its
// duration to the time spent.
func (t *Tracker) EndStudySession() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	end := t.now()
	s := *t.current
	s.EndedAt = &end
	s.DurationSeconds = int(end.Sub(s.StartedAt).Seconds())

	t.sessions = append(t.sessions, s)
	t.metrics.TimeSpentSeconds += end.Sub(s.StartedAt).Seconds()
	t.current = nil
}

// Stats summarizes the history.
func (t *Tracker) Stats() models.LearningStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := models.LearningStats{
		TotalQuestions:   t.metrics.TotalQuestions,
		TopicsExplored:   len(t.topics),
		TotalSessions:    len(t.sessions),
		TotalTimeMinutes: t.metrics.TimeSpentSeconds / 60,
		RecentActivity:   []models.RecentActivity{},
	}
	if stats.TotalSessions > 0 {
		stats.AverageSessionTime = stats.TotalTimeMinutes / float64(stats.TotalSessions)
	}

	subjectCounts := map[string]int{}
	topicCounts := map[string]int{}
	var subjectOrder, topicNames []string
	for _, key := range t.topicOrder {
		ts := t.topics[key]
		if _, ok := subjectCounts[ts.Subject]; !ok {
			subjectOrder = append(subjectOrder, ts.Subject)
		}
		if _, ok := topicCounts[ts.Topic]; !ok {
			topicNames = append(topicNames, ts.Topic)
		}
		subjectCounts[ts.Subject] += ts.QuestionsCount
		topicCounts[ts.Topic] += ts.QuestionsCount
	}
	stats.MostStudiedSubject = argmax(subjectOrder, subjectCounts)
	stats.MostStudiedTopic = argmax(topicNames, topicCounts)

	start := max(len(t.questions)-recentActivityLimit, 0)
	for _, q := range t.questions[start:] {
		stats.RecentActivity = append(stats.RecentActivity, models.RecentActivity{
			Question: truncate(q.Question, recentQuestionRunes),
			Subject:  q.Subject,
			Topic:    q.Topic,
			Time:     q.Timestamp,
		})
	}
	return stats
}

// BySubject groups studied topics under their subject.
func (t *Tracker) BySubject() map[string]models.SubjectProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]models.SubjectProgress)
	for _, key := range t.topicOrder {
		ts := t.topics[key]
		sp := out[ts.Subject]
		sp.TopicsCount++
		sp.QuestionsCount += ts.QuestionsCount
		sp.Topics = append(sp.Topics, ts.Topic)
		out[ts.Subject] = sp
	}
	return out
}

// WeeklyActivity counts questions per calendar day over the last week.
// Index 0 is today, index 6 six days ago.
func (t *Tracker) WeeklyActivity() [weekDays]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var days [weekDays]int
	now := t.now()
	start := now.AddDate(0, 0, -weekDays)
	today := dateOf(now)

	for _, q := range t.questions {
		if q.Timestamp.Before(start) || q.Timestamp.After(now) {
			continue
		}
		ago := int(math.Round(today.Sub(dateOf(q.Timestamp)).Hours() / 24))
		if ago >= 0 && ago < weekDays {
			days[ago]++
		}
	}
	return days
}

// Snapshot copies the tracker's data.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	topics := make(map[string]models.TopicStudy, len(t.topics))
	for k, v := range t.topics {
		topics[k] = *v
	}
	m := t.metrics
	m.TopicsExplored = len(t.topics)

	return Snapshot{
		Sessions:         append([]models.StudySession{}, t.sessions...),
		TopicsStudied:    topics,
		QuestionsHistory: append([]models.QuestionLog{}, t.questions...),
		Metrics:          m,
	}
}

// Export renders the snapshot as indented JSON.
func (t *Tracker) Export() ([]byte, error) {
	data, err := json.MarshalIndent(t.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export progress: %w", err)
	}
	return data, nil
}

// Clear drops all history. An open study session stays open.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.questions = nil
	t.topics = make(map[string]*models.TopicStudy)
	t.topicOrder = nil
	t.sessions = nil
	t.metrics = Metrics{}
}

func argmax(order []string, counts map[string]int) *string {
	var best *string
	bestCount := 0
	for i, k := range order {
		if best == nil || counts[k] > bestCount {
			best = &order[i]
			bestCount = counts[k]
		}
	}
	return best
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

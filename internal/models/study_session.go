package models

import "time"

// StudySession is one stretch of activity inside a browser session.
type StudySession struct {
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	Questions       int        `json:"questions"`
	Topics          []string   `json:"topics"`
}

type QuestionLog struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Grade     int       `json:"grade"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
}

type TopicStudy struct {
	Subject        string    `json:"subject"`
	Topic          string    `json:"topic"`
	QuestionsCount int       `json:"questions_count"`
	FirstStudied   time.Time `json:"first_studied"`
}

type RecentActivity struct {
	Question string    `json:"question"`
	Subject  string    `json:"subject"`
	Topic    string    `json:"topic"`
	Time     time.Time `json:"time"`
}

type LearningStats struct {
	TotalQuestions     int              `json:"total_questions"`
	TopicsExplored     int              `json:"topics_explored"`
	TotalSessions      int              `json:"total_sessions"`
	TotalTimeMinutes   float64          `json:"total_time_minutes"`
	AverageSessionTime float64          `json:"average_session_time"`
	MostStudiedSubject *string          `json:"most_studied_subject"`
	MostStudiedTopic   *string          `json:"most_studied_topic"`
	RecentActivity     []RecentActivity `json:"recent_activity"`
}

type SubjectProgress struct {
	TopicsCount    int      `json:"topics_count"`
	QuestionsCount int      `json:"questions_count"`
	Topics         []string `json:"topics"`
}

type ProgressResponse struct {
	Stats          LearningStats              `json:"stats"`
	BySubject      map[string]SubjectProgress `json:"by_subject"`
	WeeklyActivity [7]int                     `json:"weekly_activity"`
}

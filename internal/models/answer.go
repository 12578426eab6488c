package models

import "time"

// AllTopics is the topic sentinel meaning "no topic restriction".
const AllTopics = "All Topics"

// PivotLanguage is the language every question is answered in before
// being translated back to the student's language.
const PivotLanguage = "English"

// Settings is the learning context a student has applied.
type Settings struct {
	Grade    int    `json:"grade"`
	Subject  string `json:"subject"`
	Language string `json:"language"`
	Topic    string `json:"topic"`
}

// Answer is the result of one question going through the pipeline.
type Answer struct {
	Text                     string  `json:"text"`
	Language                 string  `json:"language"`
	VideoURL                 *string `json:"video_url,omitempty"`
	VideoTitle               *string `json:"video_title,omitempty"`
	VideoSummary             *string `json:"video_summary,omitempty"`
	OriginalUntranslatedText *string `json:"original_untranslated_text,omitempty"`
	TranslationFallback      bool    `json:"translation_fallback"`
}

type VideoCandidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Fact is the daily "fact of the day" challenge content.
type Fact struct {
	Fact        string    `json:"fact"`
	Explanation string    `json:"explanation"`
	Timestamp   time.Time `json:"timestamp"`
}

type SuggestionsResponse struct {
	Settings    Settings `json:"settings"`
	Suggestions []string `json:"suggestions"`
}

type ApplySettingsResponse struct {
	Settings Settings `json:"settings"`
	Changed  bool     `json:"changed"`
	Message  string   `json:"message"`
}

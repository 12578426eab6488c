package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"sciencegpt-backend/internal/models"
)

func topicClause(prefix, topic string) string {
	if topic == "" || topic == models.AllTopics {
		return ""
	}
	return prefix + topic
}

func buildAnswerSystem(s models.Settings) string {
	return fmt.Sprintf("You are a helpful science teacher for Grade %d students. "+
		"Always respond in %s and keep explanations age-appropriate.", s.Grade, models.PivotLanguage)
}

func buildAnswerPrompt(question string, s models.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert science teacher for Grade %d Indian students following the NCERT curriculum.\n", s.Grade)
	fmt.Fprintf(&b, "Student Question: %s\n", question)
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Grade: %d\n", s.Grade)
	fmt.Fprintf(&b, "- Subject: %s\n", s.Subject)
	fmt.Fprintf(&b, "- Topic: %s\n", s.Topic)
	fmt.Fprintf(&b, "Please provide a comprehensive, age-appropriate answer in %s that:\n", models.PivotLanguage)
	b.WriteString("1. Directly answers the student's question\n")
	fmt.Fprintf(&b, "2. Is appropriate for Grade %d level understanding\n", s.Grade)
	fmt.Fprintf(&b, "3. Relates to %s%s\n", s.Subject, topicClause(" with focus on ", s.Topic))
	b.WriteString("4. Encourages further learning\n")
	b.WriteString("5. Uses simple language and examples\n")
	b.WriteString("Keep the response educational, engaging, and encouraging.")
	return b.String()
}

const selectionSystem = "You are an expert at selecting relevant educational videos."

func buildSelectionPrompt(question string, grade int, candidates []models.VideoCandidate) string {
	options, _ := json.MarshalIndent(candidates, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "From the following list of YouTube videos, select the one that is most relevant and appropriate "+
		"for a Grade %d student who asked this question: %q\n\n", grade, question)
	b.WriteString("Here are the video options:\n")
	b.Write(options)
	b.WriteString("\n\nAnalyze the titles and descriptions to make your choice. ")
	fmt.Fprintf(&b, "Return ONLY the id of the best video, for example: %s", candidates[0].ID)
	return b.String()
}

const summarySystem = "You are an expert at summarizing educational content for students."

func buildSummaryPrompt(content string) string {
	return "Based on the following content, please provide a concise, 2-3 sentence summary suitable for a young student.\n\n" +
		"Content:\n" + content
}

const curriculumSystem = "You are an educational assistant specialized in creating engaging questions for Indian students following the NCERT curriculum."

func buildSuggestionsPrompt(s models.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate 4 educational questions for Grade %d students studying %s%s.\n",
		s.Grade, s.Subject, topicClause(" focusing on ", s.Topic))
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Questions must be in %s language\n", s.Language)
	fmt.Fprintf(&b, "- Age-appropriate for Grade %d students\n", s.Grade)
	fmt.Fprintf(&b, "- Related to %s curriculum\n", s.Subject)
	b.WriteString("- Encourage curiosity and learning\n")
	b.WriteString("- Mix different question types (factual, conceptual, analytical)\n")
	b.WriteString("Return only the questions, one per line, without numbering or bullets.")
	return b.String()
}

const factSystem = "You are an educational assistant specialized in creating fascinating science facts for Indian students following the NCERT curriculum."

func buildFactPrompt(grade int, subject, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate an interesting and educational science fact for Grade %d students studying %s%s.\n",
		grade, subject, topicClause(" related to ", topic))
	b.WriteString("Requirements:\n")
	b.WriteString("- Must be in English language (always)\n")
	fmt.Fprintf(&b, "- Age-appropriate for Grade %d students\n", grade)
	fmt.Fprintf(&b, "- Related to %s curriculum\n", subject)
	b.WriteString("- Fascinating and memorable\n")
	b.WriteString("- Include a brief explanation\n")
	b.WriteString("- Should inspire curiosity\n")
	b.WriteString("Format the response as:\n")
	b.WriteString("Fact: [The interesting fact]\n")
	b.WriteString("Explanation: [Brief 2-3 sentence explanation]")
	return b.String()
}

func buildMoreInfoQuestion(fact string) string {
	return "Provide more detailed, age-appropriate information about: " + fact
}

func buildRelatedQuestionsQuestion(fact string) string {
	return "Generate 3 related science questions suitable for students based on: " + fact
}

func buildTranslatePrompt(text, from, to string) string {
	return fmt.Sprintf("Translate the following text from %s to %s. "+
		"Return only the translation, with no notes or quotation marks.\n\n%s", from, to, text)
}

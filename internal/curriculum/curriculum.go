// Package curriculum serves the grade/subject/topic catalog and the
// supported languages.
package curriculum

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"sciencegpt-backend/internal/models"
)

//go:embed curriculum.yaml
var curriculumYAML []byte

var (
	ErrUnknownGrade    = errors.New("unknown grade")
	ErrUnknownSubject  = errors.New("unknown subject for grade")
	ErrUnknownTopic    = errors.New("unknown topic for subject")
	ErrUnknownLanguage = errors.New("unsupported language")
)

const DefaultGrade = 8

type Language struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

type Subject struct {
	Name   string   `yaml:"name" json:"name"`
	Topics []string `yaml:"topics" json:"topics"`
}

type Grade struct {
	Grade    int       `yaml:"grade" json:"grade"`
	Subjects []Subject `yaml:"subjects" json:"subjects"`
}

type document struct {
	Languages []Language `yaml:"languages"`
	Grades    []Grade    `yaml:"grades"`
}

// Catalog is read-only after Load and safe for concurrent use.
type Catalog struct {
	languages []Language
	grades    map[int]Grade
	codes     map[string]string
}

// Load parses the embedded curriculum.
func Load() (*Catalog, error) {
	return Parse(curriculumYAML)
}

// Parse builds a Catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	if len(doc.Grades) == 0 || len(doc.Languages) == 0 {
		return nil, errors.New("curriculum has no grades or languages")
	}

	c := &Catalog{
		languages: doc.Languages,
		grades:    make(map[int]Grade, len(doc.Grades)),
		codes:     make(map[string]string, len(doc.Languages)),
	}
	for _, g := range doc.Grades {
		if len(g.Subjects) == 0 {
			return nil, fmt.Errorf("grade %d has no subjects", g.Grade)
		}
		c.grades[g.Grade] = g
	}
	for _, l := range doc.Languages {
		c.codes[l.Name] = l.Code
	}
	return c, nil
}

// MustLoad is Load for program start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Grades() []int {
	out := make([]int, 0, len(c.grades))
	for g := range c.grades {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

// Grade returns the full entry for one grade.
func (c *Catalog) Grade(grade int) (Grade, bool) {
	g, ok := c.grades[grade]
	return g, ok
}

func (c *Catalog) Subjects(grade int) []string {
	g, ok := c.grades[grade]
	if !ok {
		return nil
	}
	out := make([]string, len(g.Subjects))
	for i, s := range g.Subjects {
		out[i] = s.Name
	}
	return out
}

func (c *Catalog) Topics(grade int, subject string) []string {
	g, ok := c.grades[grade]
	if !ok {
		return nil
	}
	for _, s := range g.Subjects {
		if s.Name == subject {
			return append([]string(nil), s.Topics...)
		}
	}
	return nil
}

// TopicOptions is Topics with "All Topics" in front, the list offered to
// the student.
func (c *Catalog) TopicOptions(grade int, subject string) []string {
	return append([]string{models.AllTopics}, c.Topics(grade, subject)...)
}

func (c *Catalog) Languages() []Language {
	return append([]Language(nil), c.languages...)
}

// LanguageCode maps a language name to its ISO 639-1 code.
func (c *Catalog) LanguageCode(name string) (string, bool) {
	code, ok := c.codes[name]
	return code, ok
}

// Defaults returns the settings a new session starts with.
func (c *Catalog) Defaults() models.Settings {
	grade := DefaultGrade
	if _, ok := c.grades[grade]; !ok {
		grade = c.Grades()[0]
	}
	return models.Settings{
		Grade:    grade,
		Subject:  c.Subjects(grade)[0],
		Language: models.PivotLanguage,
		Topic:    models.AllTopics,
	}
}

// Validate checks that s names a real grade, subject, topic and language.
func (c *Catalog) Validate(s models.Settings) error {
	if _, ok := c.grades[s.Grade]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownGrade, s.Grade)
	}
	if !contains(c.Subjects(s.Grade), s.Subject) {
		return fmt.Errorf("%w: %q (grade %d)", ErrUnknownSubject, s.Subject, s.Grade)
	}
	if !contains(c.TopicOptions(s.Grade, s.Subject), s.Topic) {
		return fmt.Errorf("%w: %q (%s)", ErrUnknownTopic, s.Topic, s.Subject)
	}
	if _, ok := c.codes[s.Language]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, s.Language)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

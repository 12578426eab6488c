package curriculum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sciencegpt-backend/internal/models"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, c.Grades())
	assert.Len(t, c.Languages(), 10)
	assert.Equal(t, "English", c.Languages()[0].Name)
}

func TestSubjectsAndTopics(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, []string{"General Science"}, c.Subjects(3))
	assert.Equal(t, []string{"Biology", "Physics", "Chemistry"}, c.Subjects(8))
	assert.Nil(t, c.Subjects(13))

	topics := c.Topics(8, "Physics")
	assert.Contains(t, topics, "Friction")
	assert.Nil(t, c.Topics(8, "Astronomy"))

	opts := c.TopicOptions(8, "Physics")
	assert.Equal(t, models.AllTopics, opts[0])
	assert.Len(t, opts, len(topics)+1)
}

func TestTopicsReturnsCopy(t *testing.T) {
	c := MustLoad()
	topics := c.Topics(1, "General Science")
	topics[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Topics(1, "General Science")[0])
}

func TestLanguageCode(t *testing.T) {
	c := MustLoad()

	tests := map[string]string{
		"English":   "en",
		"Hindi":     "hi",
		"Tamil":     "ta",
		"Malayalam": "ml",
		"Punjabi":   "pa",
	}
	for name, want := range tests {
		got, ok := c.LanguageCode(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := c.LanguageCode("Klingon")
	assert.False(t, ok)
}

func TestDefaults(t *testing.T) {
	c := MustLoad()
	d := c.Defaults()

	assert.Equal(t, models.Settings{Grade: 8, Subject: "Biology", Language: "English", Topic: "All Topics"}, d)
	assert.NoError(t, c.Validate(d))
}

func TestValidate(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		name    string
		s       models.Settings
		wantErr error
	}{
		{"valid", models.Settings{Grade: 5, Subject: "General Science", Language: "Hindi", Topic: "Fun with Magnets"}, nil},
		{"all topics", models.Settings{Grade: 10, Subject: "Physics", Language: "English", Topic: "All Topics"}, nil},
		{"bad grade", models.Settings{Grade: 0, Subject: "Physics", Language: "English", Topic: "All Topics"}, ErrUnknownGrade},
		{"subject not in grade", models.Settings{Grade: 3, Subject: "Physics", Language: "English", Topic: "All Topics"}, ErrUnknownSubject},
		{"topic from other subject", models.Settings{Grade: 8, Subject: "Physics", Language: "English", Topic: "Coal and Petroleum"}, ErrUnknownTopic},
		{"language", models.Settings{Grade: 8, Subject: "Physics", Language: "French", Topic: "All Topics"}, ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.s)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("grades: [oops"))
	assert.Error(t, err)

	_, err = Parse([]byte("languages: []\ngrades: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("languages: [{name: English, code: en}]\ngrades: [{grade: 1}]\n"))
	assert.Error(t, err)
}

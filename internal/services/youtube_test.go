package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestYouTubeSearch(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query = map[string]string{
			"type":              q.Get("type"),
			"videoCategoryId":   q.Get("videoCategoryId"),
			"safeSearch":        q.Get("safeSearch"),
			"relevanceLanguage": q.Get("relevanceLanguage"),
			"maxResults":        q.Get("maxResults"),
			"q":                 q.Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": {"kind": "youtube#video", "videoId": "aaaaaaaaaaa"},
				 "snippet": {"title": "Why Is the Sky Blue? &amp; Other Questions", "description": "Light &quot;scatters&quot;"}},
				{"id": {"kind": "youtube#channel", "channelId": "UCxyz"},
				 "snippet": {"title": "A channel", "description": ""}}
			]
		}`))
	}))
	defer srv.Close()

	search, err := NewYouTubeSearch(t.Context(), option.WithEndpoint(srv.URL+"/"), option.WithAPIKey("test"))
	require.NoError(t, err)

	got, err := search.Search(t.Context(), "educational video for grade 5 Physics: Why is the sky blue?", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aaaaaaaaaaa", got[0].ID)
	assert.Equal(t, "Why Is the Sky Blue? & Other Questions", got[0].Title)
	assert.Equal(t, `Light "scatters"`, got[0].Description)

	assert.Equal(t, "video", query["type"])
	assert.Equal(t, "27", query["videoCategoryId"])
	assert.Equal(t, "strict", query["safeSearch"])
	assert.Equal(t, "en", query["relevanceLanguage"])
	assert.Equal(t, "5", query["maxResults"])
	assert.Equal(t, "educational video for grade 5 Physics: Why is the sky blue?", query["q"])
}

func TestYouTubeSearch_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	search, err := NewYouTubeSearch(t.Context(), option.WithEndpoint(srv.URL+"/"), option.WithAPIKey("test"))
	require.NoError(t, err)

	_, err = search.Search(t.Context(), "q", 5)
	assert.Error(t, err)
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", WatchURL("aaaaaaaaaaa"))
}

func TestExtractCaptionURL(t *testing.T) {
	page := `<script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":` +
		`{"captionTracks":[{"baseUrl":"https:\/\/www.youtube.com\/api\/timedtext?v=aaaaaaaaaaa\u0026lang=en","vssId":".en"}],` +
		`"audioTracks":[]}}};</script>`

	got, err := extractCaptionURL(page)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/api/timedtext?v=aaaaaaaaaaa&lang=en", got)

	_, err = extractCaptionURL("<html>no captions here</html>")
	assert.Error(t, err)

	_, err = extractCaptionURL(`"captionTracks":[{"name":"English"}],"x"`)
	assert.Error(t, err)
}

func TestParseCaptionsXML(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8" ?><transcript>` +
		`<text start="0.0" dur="1.5">Light from the sun</text>` +
		`<text start="1.5" dur="1.0">   </text>` +
		`<text start="2.5" dur="2.0">scatters &amp;amp; spreads</text>` +
		`</transcript>`)

	got, err := parseCaptionsXML(data)
	require.NoError(t, err)
	assert.Equal(t, "Light from the sun scatters & spreads", got)

	_, err = parseCaptionsXML([]byte(`<transcript></transcript>`))
	assert.Error(t, err)

	_, err = parseCaptionsXML([]byte(`not xml`))
	assert.Error(t, err)
}

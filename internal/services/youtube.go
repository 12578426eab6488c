package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"sciencegpt-backend/internal/models"
)

// educationCategoryID is YouTube's "Education" video category.
const educationCategoryID = "27"

const watchURLPrefix = "https://www.youtube.com/watch?v="

// ErrTranscriptUnavailable means the video has no usable captions.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

// EnglishTranscriptLanguages are tried, in order, before any other track.
var EnglishTranscriptLanguages = []string{"en", "en-US", "en-GB"}

// VideoIndex searches for videos.
type VideoIndex interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.VideoCandidate, error)
}

// TranscriptSource fetches the spoken text of a video.
type TranscriptSource interface {
	Transcript(ctx context.Context, videoID string, langs []string) (string, error)
}

// VideoMetadata looks up a video's description.
type VideoMetadata interface {
	Description(ctx context.Context, videoID string) (string, error)
}

// WatchURL is the public URL of a video.
func WatchURL(videoID string) string {
	return watchURLPrefix + videoID
}

// YouTubeSearch implements VideoIndex with the YouTube Data API v3.
type YouTubeSearch struct {
	svc *youtube.Service
}

func NewYouTubeSearch(ctx context.Context, opts ...option.ClientOption) (*YouTubeSearch, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeSearch{svc: svc}, nil
}

// Search returns educational, strictly safe-searched videos in relevance
// order.
func (s *YouTubeSearch) Search(ctx context.Context, query string, maxResults int) ([]models.VideoCandidate, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(int64(maxResults)).
		Type("video").
		VideoCategoryId(educationCategoryID).
		RelevanceLanguage("en").
		SafeSearch("strict").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out := make([]models.VideoCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		out = append(out, models.VideoCandidate{
			ID:          item.Id.VideoId,
			Title:       html.UnescapeString(item.Snippet.Title),
			Description: html.UnescapeString(item.Snippet.Description),
		})
	}
	return out, nil
}

// YouTubeService fetches transcripts and metadata without an API key.
type YouTubeService struct {
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
	watchBase     string
	logger        *slog.Logger
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func NewYouTubeService(logger *slog.Logger) *YouTubeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &YouTubeService{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{},
		watchBase:     watchURLPrefix,
		logger:        logger,
	}
}

// Transcript tries langs first, then any track, then the captions listed
// on the watch page.
func (s *YouTubeService) Transcript(ctx context.Context, videoID string, langs []string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, langs)
	if err != nil {
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			legacy, legacyErr := s.transcriptViaTimedText(ctx, videoID)
			if legacyErr == nil {
				return legacy, nil
			}
			return "", fmt.Errorf("%w: transcript API (%v), timedtext fallback (%v)", ErrTranscriptUnavailable, err, legacyErr)
		}
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", fmt.Errorf("%w: subtitle track is empty", ErrTranscriptUnavailable)
	}
	return cleaned, nil
}

func (s *YouTubeService) transcriptViaTimedText(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.watchBase+videoID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read YouTube page: %w", err)
	}
	s.logger.DebugContext(ctx, "timedtext fallback fetched watch page", "video_id", videoID, "bytes", len(body))

	captionURL, err := extractCaptionURL(string(body))
	if err != nil {
		return "", err
	}

	captionReq, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return "", err
	}
	captionResp, err := s.httpClient.Do(captionReq)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer captionResp.Body.Close()

	captionBody, err := io.ReadAll(captionResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read captions: %w", err)
	}

	transcript, err := parseCaptionsXML(captionBody)
	if err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}
	return transcript, nil
}

var (
	captionTracksRe   = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionRendererRe = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	baseURLRe         = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
)

func extractCaptionURL(pageHTML string) (string, error) {
	matches := captionTracksRe.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		matches = captionRendererRe.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", fmt.Errorf("no captions available for this video")
		}
	}

	urlMatches := baseURLRe.FindStringSubmatch(matches[1])
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := urlMatches[1]
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")
	return u, nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", err
	}

	var parts []string
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("captions XML empty")
	}
	return strings.Join(parts, " "), nil
}

// Description reads the video description from the watch page metadata.
func (s *YouTubeService) Description(ctx context.Context, videoID string) (string, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}
	return strings.TrimSpace(video.Description), nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/set-night/mindlens/internal/config"
	"github.com/set-night/mindlens/internal/domain"
)

var youtubeRe = regexp.MustCompile(`(youtube\.com|youtu\.be)`)

// MediaService classifies content URLs and extracts their text.
type MediaService struct {
	httpClient *http.Client

	// readerURL is the prefix of a text-extraction reader service. When
	// empty, pages are fetched directly and the article body is extracted
	// locally.
	readerURL string
}

// Media is the classified, extracted content of a URL.
type Media struct {
	Type    domain.MediaType
	Content string
}

func NewMediaService(readerURL string) *MediaService {
	return &MediaService{
		httpClient: &http.Client{Timeout: config.FetchTimeout},
		readerURL:  readerURL,
	}
}

// Classify determines the media type of a URL.
func Classify(rawURL string) domain.MediaType {
	if youtubeRe.MatchString(rawURL) {
		return domain.MediaVideo
	}
	if u, err := url.Parse(rawURL); err == nil && strings.HasSuffix(strings.ToLower(u.Path), ".mp3") {
		return domain.MediaPodcast
	}
	return domain.MediaWebpage
}

// Process classifies the URL and returns its extracted text. Video and
// podcast transcription are not implemented and surface as explicit errors.
func (s *MediaService) Process(ctx context.Context, rawURL string) (*Media, error) {
	mediaType := Classify(rawURL)

	switch mediaType {
	case domain.MediaVideo, domain.MediaPodcast:
		return nil, fmt.Errorf("%s %s: %w", mediaType, rawURL, domain.ErrTranscriptionNotSupported)
	}

	content, err := s.processWebpage(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if len(content) > config.MaxContentChars {
		content = content[:config.MaxContentChars]
	}
	return &Media{Type: mediaType, Content: content}, nil
}

func (s *MediaService) processWebpage(ctx context.Context, rawURL string) (string, error) {
	if s.readerURL == "" {
		return s.extractDirect(ctx, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.readerURL+rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create reader request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch webpage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reader returned status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read reader response: %w", err)
	}

	return stripHTML(string(body)), nil
}

// extractDirect fetches the page itself and pulls out the article body.
func (s *MediaService) extractDirect(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch webpage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("webpage returned status %d", resp.StatusCode)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", rawURL)
	}
	return text, nil
}

// stripHTML flattens any markup in reader output to plain text. Reader
// services usually return text already; this keeps stray tags out of
// prompts.
func stripHTML(content string) string {
	if !strings.Contains(content, "<") {
		return strings.TrimSpace(content)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(doc.Text())
}

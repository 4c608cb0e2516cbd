package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/xcontext"
)

// Post flairs that are never tasks.
var redditDeniedFlairs = []string{"meta"}

// Phrases marking a post as a paid task request. A post is kept when it shows
// a payment signal, a request phrase, or an explicit task tag.
var (
	redditTaskTags        = []string{"[task]", "[hiring]", "[offer]"}
	redditPaymentSignals  = []string{"$", "usd", "dollar", "paying", "paid", "budget"}
	redditRequestPhrases  = []string{"looking for", "need help", "hiring", "wanted", "help with", "assistance with", "i need"}
)

type redditPost struct {
	ID            string  `mapstructure:"id"`
	Title         string  `mapstructure:"title"`
	Selftext      string  `mapstructure:"selftext"`
	Permalink     string  `mapstructure:"permalink"`
	Author        string  `mapstructure:"author"`
	LinkFlairText string  `mapstructure:"link_flair_text"`
	Stickied      bool    `mapstructure:"stickied"`
	Score         float64 `mapstructure:"score"`
	CreatedUTC    float64 `mapstructure:"created_utc"`
}

type redditSource struct {
	client *http.Client
}

func NewRedditSource(ctx context.Context) *redditSource {
	return &redditSource{
		client: &http.Client{Timeout: xcontext.Configs(ctx).Pipeline.SourceTimeout},
	}
}

func (s *redditSource) Name() entity.SourceType {
	return entity.SourceReddit
}

func (s *redditSource) Fetch(ctx context.Context) ([]RawListing, int, error) {
	cfg := xcontext.Configs(ctx).Reddit
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", cfg.BaseURL, cfg.Subreddit, cfg.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: reddit returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Data struct {
			Children []struct {
				Data map[string]any `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	listings := []RawListing{}
	skipped := 0
	for _, child := range body.Data.Children {
		var post redditPost
		if err := mapstructure.Decode(child.Data, &post); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode reddit post: %v", err)
			skipped++
			continue
		}

		if post.Stickied || post.ID == "" {
			skipped++
			continue
		}

		if isDeniedFlair(post.LinkFlairText) {
			skipped++
			continue
		}

		if !looksLikeTask(post.Title, post.Selftext) {
			skipped++
			continue
		}

		listings = append(listings, RawListing{
			Source:      entity.SourceReddit,
			ExternalID:  post.ID,
			Title:       post.Title,
			Description: post.Selftext,
			Link:        "https://reddit.com" + post.Permalink,
			Author:      post.Author,
			RewardText:  post.Title + " " + post.Selftext,
			Location:    "Remote",
			Score:       int(post.Score),
			PostedAt:    time.Unix(int64(post.CreatedUTC), 0).UTC(),
		})
	}

	return listings, skipped, nil
}

func isDeniedFlair(flair string) bool {
	if flair == "" {
		return false
	}

	flair = strings.ToLower(flair)
	for _, denied := range redditDeniedFlairs {
		if strings.Contains(flair, denied) {
			return true
		}
	}

	return false
}

func looksLikeTask(title, description string) bool {
	text := strings.ToLower(title + " " + description)

	for _, tag := range redditTaskTags {
		if strings.Contains(text, tag) {
			return true
		}
	}

	for _, signal := range redditPaymentSignals {
		if strings.Contains(text, signal) {
			return true
		}
	}

	for _, phrase := range redditRequestPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}

	return false
}

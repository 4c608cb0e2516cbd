package source

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/testutil"
	"github.com/questboard/backend/pkg/xcontext"
)

const redditListingBody = `{
  "data": {
    "children": [
      {"data": {"id": "aaa", "title": "[Task] Fix leaky faucet, $20", "selftext": "Kitchen faucet drips", "permalink": "/r/slavelabour/comments/aaa/", "author": "u1", "score": 3, "created_utc": 1700000000}},
      {"data": {"id": "bbb", "title": "Weekly discussion thread", "selftext": "", "stickied": true, "score": 100, "created_utc": 1700000000}},
      {"data": {"id": "ccc", "title": "Subreddit rules update", "selftext": "", "link_flair_text": "Meta", "score": 5, "created_utc": 1700000000}},
      {"data": {"id": "ddd", "title": "My cat is cute", "selftext": "just sharing", "score": 1, "created_utc": 1700000000}},
      {"data": {"id": "eee", "title": "Looking for someone to mow my lawn", "selftext": "paying cash", "author": "u2", "score": 2, "created_utc": 1700000000}}
    ]
  }
}`

func Test_redditSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/r/slavelabour/new.json")
		w.Write([]byte(redditListingBody))
	}))
	defer server.Close()

	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Reddit.BaseURL = server.URL
	cfg.Reddit.Subreddit = "slavelabour"
	cfg.Reddit.Limit = 20
	ctx = xcontext.WithConfigs(ctx, cfg)

	src := NewRedditSource(ctx)
	require.Equal(t, entity.SourceReddit, src.Name())

	listings, skipped, err := src.Fetch(ctx)
	require.NoError(t, err)

	// Stickied, meta-flaired and non-task posts are skipped.
	require.Equal(t, 3, skipped)
	require.Len(t, listings, 2)

	require.Equal(t, "aaa", listings[0].ExternalID)
	require.Equal(t, "[Task] Fix leaky faucet, $20", listings[0].Title)
	require.Equal(t, 3, listings[0].Score)
	require.Equal(t, "https://reddit.com/r/slavelabour/comments/aaa/", listings[0].Link)

	require.Equal(t, "eee", listings[1].ExternalID)
}

func Test_redditSource_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Reddit.BaseURL = server.URL
	ctx = xcontext.WithConfigs(ctx, cfg)

	src := NewRedditSource(ctx)
	_, _, err := src.Fetch(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
}

func Test_looksLikeTask(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "task tag", title: "[Task] need a logo", want: true},
		{name: "payment signal", title: "will pay $15 for data entry", want: true},
		{name: "request phrase", title: "looking for a mover this weekend", want: true},
		{name: "chatter", title: "how is everyone doing", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, looksLikeTask(tt.title, ""))
		})
	}
}

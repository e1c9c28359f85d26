// Package research discovers candidate video topics from Reddit.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
)

// hookKeywords boost a topic's score when present
var hookKeywords = []string{
	"how", "why", "explained", "science", "history",
	"surprising", "actually", "myth", "secret", "hidden",
	"works", "discovered", "invented", "truth", "mistake",
}

// redditLister is the slice of the Reddit client the finder uses
type redditLister interface {
	TopPosts(ctx context.Context, subreddit string, opts *reddit.ListPostOptions) ([]*reddit.Post, *reddit.Response, error)
}

// Finder collects and ranks topic candidates
type Finder struct {
	cfg        *config.Config
	lister     redditLister
	usedTopics map[string]bool
	usedLog    string
}

// New creates a Finder backed by the public Reddit API
func New(cfg *config.Config) (*Finder, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return newFinder(cfg, client.Subreddit), nil
}

func newFinder(cfg *config.Config, lister redditLister) *Finder {
	usedLog := cfg.Output.BaseDir + "/used_topics.json"
	return &Finder{
		cfg:        cfg,
		lister:     lister,
		usedTopics: loadUsedTopics(usedLog),
		usedLog:    usedLog,
	}
}

// Run fetches top posts from the configured subreddits and returns topic
// candidates ranked by score, best first.
func (f *Finder) Run(ctx context.Context) ([]types.Topic, error) {
	log.Println("[research] Searching for topic candidates...")

	cutoff := time.Now().AddDate(0, 0, -f.cfg.Research.LookbackDays)

	var candidates []types.Topic
	for _, subreddit := range f.cfg.Research.Subreddits {
		posts, _, err := f.lister.TopPosts(ctx, subreddit, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: 25},
			Time:        "week",
		})
		if err != nil {
			log.Printf("[research] ⚠️ r/%s: %v", subreddit, err)
			continue
		}

		kept := 0
		for _, post := range posts {
			topic, ok := f.topicFromPost(subreddit, post, cutoff)
			if !ok {
				continue
			}
			candidates = append(candidates, topic)
			kept++
		}
		log.Printf("[research] r/%s: %d posts, %d candidates", subreddit, len(posts), kept)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no topic candidates found in %v", f.cfg.Research.Subreddits)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if max := f.cfg.Research.MaxCandidates; max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}

	log.Printf("[research] ✅ Top candidate: %q (score %d)", candidates[0].Title, candidates[0].Score)
	return candidates, nil
}

// Pick returns the best candidate that has not been used before and records
// it in the dedup log.
func (f *Finder) Pick(ctx context.Context) (*types.Topic, error) {
	candidates, err := f.Run(ctx)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if f.usedTopics[candidates[i].ID] {
			continue
		}
		f.markUsed(candidates[i].ID)
		return &candidates[i], nil
	}
	return nil, fmt.Errorf("all %d candidates have been used already", len(candidates))
}

func (f *Finder) topicFromPost(subreddit string, post *reddit.Post, cutoff time.Time) (types.Topic, bool) {
	if post.Score < f.cfg.Research.MinScore {
		return types.Topic{}, false
	}
	if post.NumberOfComments < f.cfg.Research.MinComments {
		return types.Topic{}, false
	}

	var posted time.Time
	if post.Created != nil {
		posted = post.Created.Time
		if posted.Before(cutoff) {
			return types.Topic{}, false
		}
	}

	topic := types.Topic{
		ID:        fmt.Sprintf("reddit_%s", post.ID),
		Title:     cleanTitle(post.Title),
		Storyline: post.Body,
		Source:    fmt.Sprintf("r/%s", subreddit),
		SourceURL: "https://reddit.com" + post.Permalink,
		Keywords:  extractKeywords(post.Title + " " + post.Body),
	}
	if !posted.IsZero() {
		topic.PostedAt = posted.Format(time.RFC3339)
	}
	if topic.Storyline == "" {
		topic.Storyline = topic.Title
	}
	topic.Score = scoreTopic(topic, post, posted)
	return topic, true
}

func scoreTopic(topic types.Topic, post *reddit.Post, posted time.Time) int {
	score := post.Score

	score += 50 * len(topic.Keywords)

	// Comment count signals discussion-worthy material.
	score += post.NumberOfComments / 10

	// Recency bonus: posted within the last 3 days.
	if !posted.IsZero() && time.Since(posted) < 72*time.Hour {
		score += 200
	}

	// Longer self-posts carry more script material.
	if len(topic.Storyline) > 500 {
		score += 75
	}
	return score
}

// cleanTitle strips common subreddit prefixes like "ELI5:" or "TIL that"
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, prefix := range []string{"ELI5:", "ELI5 -", "ELI5", "TIL that", "TIL:", "TIL"} {
		if strings.HasPrefix(title, prefix) {
			title = strings.TrimSpace(title[len(prefix):])
			break
		}
	}
	if title == "" {
		return title
	}
	return strings.ToUpper(title[:1]) + title[1:]
}

func extractKeywords(text string) []string {
	text = strings.ToLower(text)
	var found []string
	for _, kw := range hookKeywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func loadUsedTopics(path string) map[string]bool {
	used := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil {
		return used
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return used
	}
	for _, id := range ids {
		used[id] = true
	}
	return used
}

func (f *Finder) markUsed(id string) {
	f.usedTopics[id] = true
	ids := make([]string, 0, len(f.usedTopics))
	for used := range f.usedTopics {
		ids = append(ids, used)
	}
	sort.Strings(ids)
	data, _ := json.MarshalIndent(ids, "", "  ")
	_ = os.WriteFile(f.usedLog, data, 0644)
}

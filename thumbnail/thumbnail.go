// Package thumbnail generates a YouTube thumbnail image for a video via
// the free Pollinations.ai image API.
package thumbnail

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/solaz/contents-autouploader/types"
)

const (
	thumbnailWidth  = 1280
	thumbnailHeight = 720
)

// Fetcher generates thumbnail images via Pollinations.ai (no key needed)
type Fetcher struct {
	httpClient *http.Client
}

// New creates a new Fetcher
func New() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate creates a thumbnail for the script's topic and saves it in
// outputDir. The seed is derived from the title so reruns are reproducible.
func (f *Fetcher) Generate(ctx context.Context, script *types.Script, outputDir string) (string, error) {
	prompt := buildPrompt(script)
	encodedPrompt := url.PathEscape(prompt)

	imageURL := fmt.Sprintf(
		"https://image.pollinations.ai/prompt/%s?width=%d&height=%d&nologo=true&model=flux&seed=%d",
		encodedPrompt, thumbnailWidth, thumbnailHeight, seedFor(script.Title),
	)
	outFile := filepath.Join(outputDir, "thumbnail.jpg")

	log.Printf("[thumbnail] Generating thumbnail: %q", truncate(prompt, 60))

	// Pollinations occasionally times out, retry a few times.
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = f.downloadImage(ctx, imageURL, outFile)
		if err == nil {
			log.Printf("[thumbnail] ✅ Thumbnail saved: %s", outFile)
			return outFile, nil
		}
		log.Printf("[thumbnail] ⚠️ Attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * 3 * time.Second)
	}
	return "", fmt.Errorf("thumbnail fetch failed after 3 attempts: %w", err)
}

func (f *Fetcher) downloadImage(ctx context.Context, imageURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ContentsAutouploader/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from Pollinations", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// An error HTML page is much smaller than a real image.
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes)", len(data))
	}
	return os.WriteFile(outFile, data, 0644)
}

// buildPrompt turns the script topic into an image prompt with a clean,
// educational style.
func buildPrompt(script *types.Script) string {
	subject := script.Title
	if subject == "" {
		subject = "an educational lecture"
	}
	return fmt.Sprintf(
		"illustration representing %s, clean modern flat design, bright colors, bold shapes, "+
			"educational infographic style, no text, no watermark",
		subject,
	)
}

func seedFor(title string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(title))
	return h.Sum32()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

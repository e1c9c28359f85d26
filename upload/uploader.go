// Package upload publishes finished videos to YouTube via the Data API v3.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
	"github.com/solaz/contents-autouploader/util"
)

// Uploader handles YouTube video upload via Data API v3
type Uploader struct {
	cfg *config.Config
}

// New creates a new Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Run uploads the video to YouTube with the given metadata and returns the
// video ID and watch URL.
func (u *Uploader) Run(ctx context.Context, videoFile string, metadata *types.UploadMetadata) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	svc, err := u.newService(ctx)
	if err != nil {
		return "", "", err
	}

	log.Printf("[upload] Uploading: %q", metadata.Title)

	visibility := metadata.Visibility
	if visibility == "" {
		visibility = u.cfg.Upload.PrivacyStatus
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                metadata.Title,
			Description:          metadata.Description,
			Tags:                 metadata.Tags,
			CategoryId:           metadata.CategoryID,
			DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
			DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           visibility,
			SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if fi, statErr := f.Stat(); statErr == nil {
		log.Printf("[upload] File size: %.1f MB", float64(fi.Size())/1024/1024)
	}

	// Resumable upload, required for files over 5MB.
	uploaded, err := svc.Videos.Insert([]string{"snippet", "status"}, video).NotifySubscribers(u.cfg.Upload.NotifySubscribers).Media(f).Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoID := uploaded.Id
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	log.Printf("[upload] ✅ Uploaded successfully!")
	log.Printf("[upload] Video ID: %s", videoID)
	log.Printf("[upload] Video URL: %s", videoURL)

	return videoID, videoURL, nil
}

// SetThumbnail replaces the auto-generated thumbnail of an uploaded video
func (u *Uploader) SetThumbnail(ctx context.Context, videoID, thumbnailFile string) error {
	svc, err := u.newService(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(thumbnailFile)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer f.Close()

	if _, err := svc.Thumbnails.Set(videoID).Media(f).Do(); err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}

	log.Printf("[upload] ✅ Thumbnail set for %s", videoID)
	return nil
}

// Status reports the upload and processing state of a video
type Status struct {
	UploadStatus     string `json:"upload_status"`
	PrivacyStatus    string `json:"privacy_status"`
	ProcessingStatus string `json:"processing_status"`
}

// CheckStatus queries YouTube for the processing state of an uploaded video
func (u *Uploader) CheckStatus(ctx context.Context, videoID string) (*Status, error) {
	svc, err := u.newService(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Videos.List([]string{"status", "processingDetails"}).Id(videoID).Do()
	if err != nil {
		return nil, fmt.Errorf("video status: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	status := &Status{}
	if item.Status != nil {
		status.UploadStatus = item.Status.UploadStatus
		status.PrivacyStatus = item.Status.PrivacyStatus
	}
	if item.ProcessingDetails != nil {
		status.ProcessingStatus = item.ProcessingDetails.ProcessingStatus
	}
	return status, nil
}

func (u *Uploader) newService(ctx context.Context) (*youtube.Service, error) {
	client, err := oauthClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("youtube auth: %w", err)
	}
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}

// oauthClient creates an OAuth2 HTTP client using env credentials
func oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

// LogUpload saves the upload result to the output directory
func LogUpload(videoID, videoURL, videoFile, outputDir string, metadata *types.UploadMetadata) error {
	logEntry := map[string]any{
		"video_id":    videoID,
		"video_url":   videoURL,
		"title":       metadata.Title,
		"visibility":  metadata.Visibility,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"video_file":  videoFile,
	}

	logFile := filepath.Join(outputDir, fmt.Sprintf("upload_%s.json", util.Timestamp()))
	data, _ := json.MarshalIndent(logEntry, "", "  ")
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		return err
	}

	log.Printf("[upload] Upload log saved: %s", logFile)
	return nil
}

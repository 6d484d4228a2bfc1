package recording

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campuskit/recarchive/internal/recording"
)

const listPageSize = "30"

type ZoomConfig struct {
	ClientID     string
	ClientSecret string
	AccountID    string
	APIURL       string
	// TokenURL overrides the derived account-credentials endpoint,
	// used by tests.
	TokenURL string
}

// ZoomClient implements recording.Source against the Zoom REST API
// using a server-to-server OAuth token.
type ZoomClient struct {
	apiURL       string
	tokenURL     string
	clientID     string
	clientSecret string
	accessToken  string
	client       *http.Client
}

func NewZoomClient(cfg ZoomConfig) *ZoomClient {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://zoom.us/oauth/token?grant_type=account_credentials&account_id=%s", cfg.AccountID)
	}
	return &ZoomClient{
		apiURL:       strings.TrimSuffix(cfg.APIURL, "/"),
		tokenURL:     tokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       &http.Client{},
	}
}

// Authenticate exchanges the account credentials for an access token.
// Failure here is fatal for the run.
func (c *ZoomClient) Authenticate(ctx context.Context) error {
	body := strings.NewReader("grant_type=account_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request access token: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("token endpoint returned no access token")
	}
	c.accessToken = payload.AccessToken
	return nil
}

func (c *ZoomClient) ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]recording.Meeting, error) {
	var meetings []recording.Meeting
	pageToken := ""
	for {
		query := url.Values{
			"from":      {from.Format(time.DateOnly)},
			"to":        {to.Format(time.DateOnly)},
			"page_size": {listPageSize},
		}
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}
		var page recordingsPage
		if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID)+"/recordings", query, &page); err != nil {
			return nil, fmt.Errorf("list recordings: %w", err)
		}
		for _, m := range page.Meetings {
			meetings = append(meetings, m.toDomain())
		}
		if page.NextPageToken == "" {
			return meetings, nil
		}
		pageToken = page.NextPageToken
	}
}

// ParticipantCount resolves the unique-participant count across all
// recorded instances of the meeting, taking the maximum. Transport
// failures degrade to a count of zero and never abort the caller.
func (c *ZoomClient) ParticipantCount(ctx context.Context, meetingID string) (int, error) {
	var instances struct {
		Meetings []struct {
			UUID string `json:"uuid"`
		} `json:"meetings"`
	}
	if err := c.getJSON(ctx, "/past_meetings/"+url.PathEscape(meetingID)+"/instances", nil, &instances); err != nil {
		slog.Warn("failed to fetch meeting instances", "meeting_id", meetingID, "error", err)
		return 0, nil
	}

	if len(instances.Meetings) == 0 {
		count, err := c.uniqueParticipants(ctx, meetingID)
		if err != nil {
			slog.Warn("failed to fetch participants", "meeting_id", meetingID, "error", err)
			return 0, nil
		}
		return count, nil
	}

	most := 0
	for _, instance := range instances.Meetings {
		count, err := c.uniqueParticipants(ctx, instance.UUID)
		if err != nil {
			slog.Warn("failed to fetch participants for instance", "instance_uuid", instance.UUID, "error", err)
			continue
		}
		if count > most {
			most = count
		}
	}
	return most, nil
}

// uniqueParticipants de-duplicates by participant id, falling back to
// the display name for unauthenticated participants.
func (c *ZoomClient) uniqueParticipants(ctx context.Context, id string) (int, error) {
	var payload struct {
		Participants []struct {
			ID       string `json:"id"`
			UserName string `json:"user_name"`
		} `json:"participants"`
	}
	if err := c.getJSON(ctx, "/past_meetings/"+url.PathEscape(id)+"/participants", nil, &payload); err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(payload.Participants))
	for _, p := range payload.Participants {
		identifier := p.ID
		if identifier == "" {
			identifier = p.UserName
		}
		if identifier == "" {
			continue
		}
		seen[identifier] = struct{}{}
	}
	return len(seen), nil
}

// DeleteRecording moves a meeting's recordings to the trash. A 404 is
// treated as already gone.
func (c *ZoomClient) DeleteRecording(ctx context.Context, meetingID string) error {
	endpoint := c.apiURL + "/meetings/" + url.PathEscape(meetingID) + "/recordings?action=trash"
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		slog.Warn("recording not found, possibly already deleted", "meeting_id", meetingID)
		return nil
	case isHTTPSuccessStatus(resp.StatusCode):
		slog.Info("recording moved to trash", "meeting_id", meetingID)
		return nil
	default:
		return fmt.Errorf("zoom returned status %d deleting recording %s", resp.StatusCode, meetingID)
	}
}

func (c *ZoomClient) Download(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download recording: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *ZoomClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("zoom returned status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

type recordingsPage struct {
	NextPageToken string           `json:"next_page_token"`
	Meetings      []meetingPayload `json:"meetings"`
}

type meetingPayload struct {
	ID             json.Number       `json:"id"`
	Topic          string            `json:"topic"`
	StartTime      string            `json:"start_time"`
	Timezone       string            `json:"timezone"`
	RecordingFiles []recordingFilePayload `json:"recording_files"`
}

type recordingFilePayload struct {
	ID          string `json:"id"`
	MeetingID   string `json:"meeting_id"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	DownloadURL string `json:"download_url"`
}

func (m meetingPayload) toDomain() recording.Meeting {
	meeting := recording.Meeting{
		ID:       m.ID.String(),
		Topic:    m.Topic,
		Timezone: m.Timezone,
	}
	if m.StartTime != "" {
		start, err := time.Parse(time.RFC3339, m.StartTime)
		if err != nil {
			slog.Warn("meeting has unparseable start time", "meeting_id", meeting.ID, "start_time", m.StartTime)
		} else {
			meeting.StartTime = start
		}
	}
	for _, f := range m.RecordingFiles {
		meeting.RecordingFiles = append(meeting.RecordingFiles, recording.RecordingFile{
			MeetingID:   f.MeetingID,
			ID:          f.ID,
			FileType:    f.FileType,
			FileSize:    f.FileSize,
			DownloadURL: f.DownloadURL,
		})
	}
	return meeting
}

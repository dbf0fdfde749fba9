// Package meeting generates video meeting links for online appointments.
package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// FallbackLink is returned when no provider is configured or the provider
// fails. It opens a fresh ad-hoc meeting.
const FallbackLink = "https://meet.google.com/new"

// LinkProvider creates a meeting link for an appointment.
type LinkProvider interface {
	CreateLink(ctx context.Context, summary string, start, end time.Time) (string, error)
}

// StaticProvider always returns the fallback link. Used when Google Calendar
// credentials are not configured.
type StaticProvider struct{}

func (StaticProvider) CreateLink(_ context.Context, _ string, _, _ time.Time) (string, error) {
	return FallbackLink, nil
}

// GoogleConfig holds OAuth credentials for the Google Calendar API.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Configured reports whether all required credentials are present.
func (c GoogleConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

const calendarEventsURL = "https://www.googleapis.com/calendar/v3/calendars/primary/events?conferenceDataVersion=1"

// GoogleProvider creates Google Meet links by inserting a calendar event with
// a conference request and reading back the generated link.
type GoogleProvider struct {
	client  *http.Client
	baseURL string
}

// NewGoogleProvider builds a provider whose HTTP client refreshes access
// tokens automatically from the stored refresh token.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig) *GoogleProvider {
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
	}
	tok := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	return &GoogleProvider{
		client:  oc.Client(ctx, tok),
		baseURL: calendarEventsURL,
	}
}

type eventRequest struct {
	Summary        string          `json:"summary"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	ConferenceData *conferenceData `json:"conferenceData,omitempty"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type conferenceData struct {
	CreateRequest conferenceCreateRequest `json:"createRequest"`
}

type conferenceCreateRequest struct {
	RequestID             string            `json:"requestId"`
	ConferenceSolutionKey map[string]string `json:"conferenceSolutionKey"`
}

type eventResponse struct {
	HangoutLink string `json:"hangoutLink"`
}

// CreateLink inserts a calendar event with a Meet conference attached and
// returns the hangout link.
func (p *GoogleProvider) CreateLink(ctx context.Context, summary string, start, end time.Time) (string, error) {
	body := eventRequest{
		Summary: summary,
		Start:   eventTime{DateTime: start.Format(time.RFC3339)},
		End:     eventTime{DateTime: end.Format(time.RFC3339)},
		ConferenceData: &conferenceData{
			CreateRequest: conferenceCreateRequest{
				RequestID:             uuid.NewString(),
				ConferenceSolutionKey: map[string]string{"type": "hangoutsMeet"},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar API returned status %d", resp.StatusCode)
	}

	var event eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return "", fmt.Errorf("decode calendar response: %w", err)
	}
	if event.HangoutLink == "" {
		return "", fmt.Errorf("calendar event has no meeting link")
	}
	return event.HangoutLink, nil
}

// WithFallback wraps a provider so that failures degrade to the static
// fallback link instead of failing the booking.
type WithFallback struct {
	Provider LinkProvider
	Logger   zerolog.Logger
}

func (w WithFallback) CreateLink(ctx context.Context, summary string, start, end time.Time) (string, error) {
	link, err := w.Provider.CreateLink(ctx, summary, start, end)
	if err != nil {
		w.Logger.Warn().Err(err).Msg("meeting link generation failed, using fallback")
		return FallbackLink, nil
	}
	return link, nil
}

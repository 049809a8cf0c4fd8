package gservice

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
	"github.com/sakethbandi007/email-chat-agent/internal/auth"
)

const primaryCalendarID = "primary"

// NewGCalendar creates a Calendar-backed schedule source.
func NewGCalendar(cfg *oauth2.Config, tok *auth.Token) *GCalendar {
	return &GCalendar{
		cfg: cfg,
		tok: tok,
		now: time.Now,
	}
}

// GCalendar implements agent.Calendar over the Google Calendar API.
type GCalendar struct {
	cfg *oauth2.Config
	tok *auth.Token
	now func() time.Time
}

// UpcomingEvents lists events on the primary calendar over the next days.
func (c *GCalendar) UpcomingEvents(ctx context.Context, days int) ([]agent.Event, error) {
	svc, err := c.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	now := c.now().UTC()

	result, err := svc.Events.List(primaryCalendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, days).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(20).
		Do()
	if err != nil {
		return nil, fmt.Errorf("events.List failed: %w", err)
	}

	events := make([]agent.Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, agent.Event{
			Title: eventTitle(item),
			Start: eventStart(item),
		})
	}

	return events, nil
}

func (c *GCalendar) newSvc(ctx context.Context) (*calendar.Service, error) {
	t, err := c.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := c.cfg.Client(ctx, t)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("calendar.NewService failed: %w", err)
	}

	return svc, nil
}

func eventTitle(item *calendar.Event) string {
	if item.Summary == "" {
		return "(no title)"
	}

	return item.Summary
}

// eventStart prefers the timed start, falling back to the date for all-day
// events.
func eventStart(item *calendar.Event) string {
	if item.Start == nil {
		return ""
	}
	if item.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			return t.Format("Mon Jan 2 3:04 PM")
		}

		return item.Start.DateTime
	}

	return item.Start.Date
}

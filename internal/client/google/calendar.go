package google

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"saas-agent/internal/model"
)

const primaryCalendar = "primary"

// CreateMeet 创建带 Google Meet 会议链接的日历事件
func (c *Client) CreateMeet(ctx context.Context, summary, description string, start, end time.Time) (*model.Meeting, error) {
	ev := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
			},
		},
	}
	created, err := c.calendar.Events.Insert(primaryCalendar, ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar insert: %w", err)
	}
	m := toMeeting(created)
	if m.Start.IsZero() {
		m.Start, m.End = start, end
	}
	return &m, nil
}

// MoveEvent 修改事件起止时间
func (c *Client) MoveEvent(ctx context.Context, eventID string, start, end time.Time) (*model.Meeting, error) {
	patched, err := c.calendar.Events.Patch(primaryCalendar, eventID, &calendar.Event{
		Start: &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:   &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar patch: %w", err)
	}
	m := toMeeting(patched)
	if m.Start.IsZero() {
		m.Start, m.End = start, end
	}
	return &m, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.calendar.Events.Delete(primaryCalendar, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar delete: %w", err)
	}
	return nil
}

// UpcomingEvents [from, to) 区间内的事件，按开始时间排序
func (c *Client) UpcomingEvents(ctx context.Context, from, to time.Time, limit int) ([]model.Meeting, error) {
	res, err := c.calendar.Events.List(primaryCalendar).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar list: %w", err)
	}
	out := make([]model.Meeting, 0, len(res.Items))
	for _, ev := range res.Items {
		out = append(out, toMeeting(ev))
	}
	return out, nil
}

func toMeeting(ev *calendar.Event) model.Meeting {
	m := model.Meeting{
		EventID:     ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		JoinLink:    ev.HangoutLink,
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				m.JoinLink = ep.Uri
				break
			}
		}
	}
	m.Start = parseEventTime(ev.Start)
	m.End = parseEventTime(ev.End)
	return m
}

func parseEventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
	}
	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saas-agent/internal/model"
	"saas-agent/internal/timeutil"
)

// calendarWindow fetch_calendar 查看的范围
const calendarWindow = 7 * 24 * time.Hour

func (e *Executor) createMeet(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.MeetingParams](req.Intent)
	if p.Time == "" {
		return missing(action, "Please tell me the meeting time (e.g. 5pm).")
	}
	start, end, err := timeutil.Window(p.Date, p.Time, p.EndTime, e.now(), e.opts.Location)
	if err != nil {
		return timeProblem(action, err)
	}
	summary := p.Subject
	if summary == "" {
		summary = "Google Meet"
	}
	m, err := g.CreateMeet(ctx, summary, p.Body, start, end)
	if err != nil {
		return vendorFailed(action, "Failed to create Google Meet.", err)
	}
	// 没有 eventId 的会议无法再按 ID 定位，不进台账
	if m.EventID != "" {
		e.remember(ctx, req.Session, m.EventID, *m)
	}
	msg := fmt.Sprintf("Google Meet created for %s - %s.\n%s",
		timeutil.Display(m.Start, e.opts.Location),
		timeutil.Display(m.End, e.opts.Location),
		m.JoinLink)
	return done(action, msg, m)
}

func (e *Executor) updateMeet(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.MeetingParams](req.Intent)
	lookup, newTime := p.FromTime, p.Time
	// 只给了日期和时间：把该时间的会议挪到新日期
	if lookup == "" && p.Date != "" {
		lookup = p.Time
	}
	if newTime == "" && p.Date == "" && p.EndTime == "" {
		return missing(action, "What time should I move the meeting to?")
	}
	target, res := e.pickMeeting(ctx, req, p.EventID, lookup)
	if res != nil {
		return *res
	}

	loc := e.opts.Location
	date := p.Date
	if date == "" && !target.Start.IsZero() {
		date = timeutil.DateOf(target.Start, loc)
	}
	if newTime == "" {
		newTime = timeutil.HourMinute(target.Start, loc)
	}
	if newTime == "" {
		return missing(action, "What time should I move the meeting to?")
	}
	start, end, err := timeutil.Window(date, newTime, p.EndTime, e.now(), loc)
	if err != nil {
		return timeProblem(action, err)
	}

	moved, err := g.MoveEvent(ctx, target.EventID, start, end)
	if err != nil {
		return vendorFailed(action, "Failed to reschedule meeting.", err)
	}
	updated := *moved
	if updated.JoinLink == "" {
		updated.JoinLink = target.JoinLink
	}
	e.remember(ctx, req.Session, target.EventID, updated)
	msg := fmt.Sprintf("Meeting rescheduled to %s on %s.",
		timeutil.Display(updated.Start, loc), timeutil.DateOf(updated.Start, loc))
	return done(action, msg, updated)
}

func (e *Executor) deleteMeet(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.MeetingParams](req.Intent)
	lookup := p.Time
	if lookup == "" {
		lookup = p.FromTime
	}
	target, res := e.pickMeeting(ctx, req, p.EventID, lookup)
	if res != nil {
		return *res
	}
	if err := g.DeleteEvent(ctx, target.EventID); err != nil {
		return vendorFailed(action, "Failed to delete meeting.", err)
	}
	if err := e.store.RemoveMeeting(ctx, req.Session, target.EventID); err != nil {
		e.log.Warn().Err(err).Str("session", req.Session).Msg("remove meeting from ledger")
	}
	return done(action, "Meeting deleted.", target)
}

func (e *Executor) fetchCalendar(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	now := e.now()
	events, err := g.UpcomingEvents(ctx, now, now.Add(calendarWindow), 10)
	if err != nil {
		return vendorFailed(action, "Failed to fetch calendar events.", err)
	}
	if len(events) == 0 {
		return done(action, "No upcoming events in the next 7 days.", events)
	}
	return done(action, fmt.Sprintf("Found %d upcoming events.", len(events)), events)
}

// pickMeeting 选出要修改的会议：eventID 优先，其次台账中 HH:MM 相同的最近一场，
// lookup 为空时取最近创建的一场
func (e *Executor) pickMeeting(ctx context.Context, req Request, eventID, lookup string) (model.Meeting, *model.Result) {
	action := req.Intent.Action
	meetings, err := e.store.Meetings(ctx, req.Session)
	if err != nil {
		r := fail(action, model.KindUnexpected, GenericHelp, fmt.Errorf("load meetings: %w", err))
		return model.Meeting{}, &r
	}
	if eventID != "" {
		for _, m := range meetings {
			if m.EventID == eventID {
				return m, nil
			}
		}
		return model.Meeting{EventID: eventID}, nil
	}
	if lookup == "" {
		if n := len(meetings); n > 0 {
			return meetings[n-1], nil
		}
		r := notFound(action, "No meeting found. Create one first.")
		return model.Meeting{}, &r
	}
	hm, err := timeutil.NormalizeTo24h(lookup)
	if err != nil {
		r := timeProblem(action, err)
		return model.Meeting{}, &r
	}
	for i := len(meetings) - 1; i >= 0; i-- {
		if timeutil.HourMinute(meetings[i].Start, e.opts.Location) == hm {
			return meetings[i], nil
		}
	}
	r := notFound(action, fmt.Sprintf("No meeting found at %s.", lookup))
	return model.Meeting{}, &r
}

// remember 台账按 eventID 更新，不存在时追加；写入失败只记日志，日历上的变更已经生效
func (e *Executor) remember(ctx context.Context, session, eventID string, m model.Meeting) {
	err := e.store.ReplaceMeeting(ctx, session, eventID, m)
	if errors.Is(err, model.ErrNotFound) {
		err = e.store.AppendMeeting(ctx, session, m)
	}
	if err != nil {
		e.log.Warn().Err(err).Str("session", session).Str("event_id", m.EventID).Msg("update meeting ledger")
	}
}

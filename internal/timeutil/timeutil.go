// Package timeutil 会议时间解析与格式化
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"saas-agent/internal/model"
)

// DefaultMeetingLength 未指定结束时间时的会议时长
const DefaultMeetingLength = 30 * time.Minute

const dateLayout = "2006-01-02"

var (
	clockRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	ampmRE  = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
)

// NormalizeTo24h 将 "17:00"、"5pm"、"5:30 am" 等写法统一为 24 小时制 HH:MM。
// 只接受 H[H]:MM 或带 am/pm 后缀的 12 小时制，其余返回 ErrInvalidTime。
func NormalizeTo24h(s string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if m := clockRE.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", fmt.Errorf("%w: %s", model.ErrInvalidTime, s)
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}
	m := ampmRE.FindStringSubmatch(t)
	if m == nil {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidTime, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidTime, s)
	}
	switch {
	case m[3] == "pm" && hour != 12:
		hour += 12
	case m[3] == "am" && hour == 12:
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// At 在 loc 时区下组合日期与 HH:MM；date 为空时取 now 所在的日期
func At(date, hm string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day := now.In(loc)
	if date != "" {
		d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", model.ErrInvalidDate, date)
		}
		day = d
	}
	clock, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", model.ErrInvalidTime, hm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// Window 计算会议起止时间。endTime 可为空；结束时间必须晚于开始时间，
// 否则按开始 + 30 分钟重新计算。
func Window(date, startTime, endTime string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	hm, err := NormalizeTo24h(startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := At(date, hm, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.Add(DefaultMeetingLength)
	if endTime != "" {
		endHM, err := NormalizeTo24h(endTime)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		explicit, err := At(start.Format(dateLayout), endHM, now, start.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = EnsureEnd(start, explicit)
	}
	return start, end, nil
}

// EnsureEnd 保证结束时间严格晚于开始时间
func EnsureEnd(start, end time.Time) time.Time {
	if end.IsZero() || !end.After(start) {
		return start.Add(DefaultMeetingLength)
	}
	return end
}

// HourMinute 返回 loc 时区下的 HH:MM，零值返回空串
func HourMinute(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}

// Display 面向用户的时间写法，如 "5:00 pm"
func Display(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return strings.ToLower(t.In(loc).Format("3:04 PM"))
}

// DateOf 返回 loc 时区下的 YYYY-MM-DD
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateLayout)
}

// WallClock 生成不带时区偏移的起止字符串（Outlook 事件按指定时区解释），结束 = 开始 + d
func WallClock(date, hm string, d time.Duration, now time.Time) (string, string, error) {
	start, err := At(date, hm, now, time.UTC)
	if err != nil {
		return "", "", err
	}
	const layout = "2006-01-02T15:04:05"
	return start.Format(layout), start.Add(d).Format(layout), nil
}

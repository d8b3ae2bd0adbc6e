// Package google Google Workspace / YouTube 客户端，基于官方 google.golang.org/api
package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/keep/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/youtube/v3"
)

// Client 一个用户令牌下的全部 Google 服务
type Client struct {
	gmail     *gmail.Service
	calendar  *calendar.Service
	drive     *drive.Service
	sheets    *sheets.Service
	docs      *docs.Service
	keep      *keep.Service
	classroom *classroom.Service
	youtube   *youtube.Service
	forms     *forms.Service
}

// New ts 为空时只使用 opts（测试中配合 option.WithoutAuthentication）
func New(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Client, error) {
	if ts != nil {
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}
	var (
		c   Client
		err error
	)
	if c.gmail, err = gmail.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	if c.calendar, err = calendar.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	if c.drive, err = drive.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	if c.sheets, err = sheets.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if c.docs, err = docs.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("docs service: %w", err)
	}
	if c.keep, err = keep.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("keep service: %w", err)
	}
	if c.classroom, err = classroom.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("classroom service: %w", err)
	}
	if c.youtube, err = youtube.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	if c.forms, err = forms.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("forms service: %w", err)
	}
	return &c, nil
}

// StaticToken 由 access token 构造 TokenSource，刷新由上层负责
func StaticToken(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

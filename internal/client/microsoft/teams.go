package microsoft

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"saas-agent/internal/model"
)

type team struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type channel struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	MembershipType string `json:"membershipType"`
	WebURL         string `json:"webUrl"`
}

type chatMessage struct {
	ID              string  `json:"id"`
	Subject         string  `json:"subject"`
	CreatedDateTime string  `json:"createdDateTime"`
	DeletedDateTime *string `json:"deletedDateTime"`
	WebURL          string  `json:"webUrl"`
	Body            struct {
		Content string `json:"content"`
	} `json:"body"`
	From *struct {
		User *struct {
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"from"`
}

// 读取消息时只遍历少量团队与频道，控制请求数
const (
	teamsScanTeams    = 2
	teamsScanChannels = 2
	teamsPerChannel   = 5
)

func (c *Client) joinedTeams(ctx context.Context) ([]team, error) {
	var out list[team]
	err := c.do(ctx, http.MethodGet, "/me/joinedTeams", map[string]string{"$select": "id,displayName"}, nil, &out)
	return out.Value, err
}

func (c *Client) channels(ctx context.Context, teamID string) ([]channel, error) {
	var out list[channel]
	err := c.do(ctx, http.MethodGet, "/teams/"+escape(teamID)+"/channels", nil, nil, &out)
	return out.Value, err
}

// TeamsMessages 最近的频道消息；单个频道读取失败时跳过
func (c *Client) TeamsMessages(ctx context.Context, limit int) ([]model.TeamsMessage, error) {
	teams, err := c.joinedTeams(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.TeamsMessage
	for i, t := range teams {
		if i >= teamsScanTeams || len(out) >= limit {
			break
		}
		chans, err := c.channels(ctx, t.ID)
		if err != nil {
			continue
		}
		for j, ch := range chans {
			if j >= teamsScanChannels || len(out) >= limit {
				break
			}
			var msgs list[chatMessage]
			path := "/teams/" + escape(t.ID) + "/channels/" + escape(ch.ID) + "/messages"
			if err := c.do(ctx, http.MethodGet, path, map[string]string{"$top": "5"}, nil, &msgs); err != nil {
				continue
			}
			for k, m := range msgs.Value {
				if k >= teamsPerChannel || len(out) >= limit {
					break
				}
				if m.DeletedDateTime != nil {
					continue
				}
				from := "Unknown User"
				if m.From != nil && m.From.User != nil && m.From.User.DisplayName != "" {
					from = m.From.User.DisplayName
				}
				body := StripHTML(m.Body.Content)
				if body == "" {
					body = "No content"
				}
				out = append(out, model.TeamsMessage{
					ID:              m.ID,
					Subject:         m.Subject,
					Body:            body,
					From:            from,
					CreatedDateTime: m.CreatedDateTime,
					WebURL:          m.WebURL,
				})
			}
		}
	}
	if out == nil {
		out = []model.TeamsMessage{}
	}
	return out, nil
}

// TeamsChannels 所有已加入团队的频道，名称为 "团队 > 频道"
func (c *Client) TeamsChannels(ctx context.Context, limit int) ([]model.TeamsChannel, error) {
	teams, err := c.joinedTeams(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.TeamsChannel{}
	for _, t := range teams {
		if len(out) >= limit {
			break
		}
		chans, err := c.channels(ctx, t.ID)
		if err != nil {
			continue
		}
		for _, ch := range chans {
			if len(out) >= limit {
				break
			}
			membership := ch.MembershipType
			if membership == "" {
				membership = "standard"
			}
			out = append(out, model.TeamsChannel{
				ID:             ch.ID,
				DisplayName:    t.DisplayName + " > " + ch.DisplayName,
				Description:    ch.Description,
				MembershipType: membership,
				WebURL:         ch.WebURL,
			})
		}
	}
	return out, nil
}

var (
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// StripHTML 去掉标签并压缩空白，最多保留 200 个字符
func StripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if r := []rune(s); len(r) > 200 {
		s = string(r[:200])
	}
	return s
}

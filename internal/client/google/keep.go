package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/keep/v1"

	"saas-agent/internal/model"
)

// ListNotes 未删除的笔记
func (c *Client) ListNotes(ctx context.Context, limit int) ([]model.Note, error) {
	res, err := c.keep.Notes.List().
		PageSize(int64(limit)).
		Filter("trashed=false").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("keep list: %w", err)
	}
	out := make([]model.Note, 0, len(res.Notes))
	for _, n := range res.Notes {
		out = append(out, toNote(n, "Untitled Note"))
	}
	return out, nil
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	n, err := c.keep.Notes.Create(&keep.Note{
		Title: title,
		Body:  &keep.Section{Text: &keep.TextContent{Text: content}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("keep create: %w", err)
	}
	note := toNote(n, title)
	return &note, nil
}

func toNote(n *keep.Note, defaultTitle string) model.Note {
	title := n.Title
	if title == "" {
		title = defaultTitle
	}
	return model.Note{
		ID:          n.Name,
		Title:       title,
		TextContent: noteText(n.Body),
		URL:         "https://keep.google.com/u/0/#NOTE/" + strings.TrimPrefix(n.Name, "notes/"),
	}
}

// noteText 清单笔记渲染为 "[x] item" 多行文本
func noteText(body *keep.Section) string {
	if body == nil {
		return ""
	}
	if body.Text != nil {
		return body.Text.Text
	}
	if body.List != nil {
		lines := make([]string, 0, len(body.List.ListItems))
		for _, it := range body.List.ListItems {
			box := "[ ] "
			if it.Checked {
				box = "[x] "
			}
			text := ""
			if it.Text != nil {
				text = it.Text.Text
			}
			lines = append(lines, box+text)
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

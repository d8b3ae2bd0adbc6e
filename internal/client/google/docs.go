package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"

	"saas-agent/internal/model"
)

func (c *Client) CreateDoc(ctx context.Context, title string) (*model.Doc, error) {
	d, err := c.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("docs create: %w", err)
	}
	return &model.Doc{
		DocumentID: d.DocumentId,
		Title:      d.Title,
		URL:        "https://docs.google.com/document/d/" + d.DocumentId + "/edit",
	}, nil
}

// ReadDoc 拼接所有段落中的文本
func (c *Client) ReadDoc(ctx context.Context, documentID string) (*model.DocContent, error) {
	d, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("docs get: %w", err)
	}
	var b strings.Builder
	if d.Body != nil {
		for _, el := range d.Body.Content {
			if el.Paragraph == nil {
				continue
			}
			for _, pe := range el.Paragraph.Elements {
				if pe.TextRun != nil {
					b.WriteString(pe.TextRun.Content)
				}
			}
		}
	}
	return &model.DocContent{
		DocumentID: d.DocumentId,
		Title:      d.Title,
		Content:    strings.TrimSpace(b.String()),
	}, nil
}

// AppendText 在文末另起一行追加
func (c *Client) AppendText(ctx context.Context, documentID, text string) error {
	return c.batchUpdate(ctx, documentID, &docs.Request{
		InsertText: &docs.InsertTextRequest{
			EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
			Text:                 "\n" + text,
		},
	})
}

// ReplaceText 全文替换（不区分大小写），返回替换次数
func (c *Client) ReplaceText(ctx context.Context, documentID, find, replace string) (int64, error) {
	res, err := c.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{Text: find, MatchCase: false},
				ReplaceText:  replace,
				// 替换为空串时也要发送该字段
				ForceSendFields: []string{"ReplaceText"},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("docs replace: %w", err)
	}
	var n int64
	for _, r := range res.Replies {
		if r.ReplaceAllText != nil {
			n += r.ReplaceAllText.OccurrencesChanged
		}
	}
	return n, nil
}

// ClearDoc 删除正文全部内容，空文档不发请求
func (c *Client) ClearDoc(ctx context.Context, documentID string) error {
	d, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("docs get: %w", err)
	}
	if d.Body == nil || len(d.Body.Content) == 0 {
		return nil
	}
	end := d.Body.Content[len(d.Body.Content)-1].EndIndex
	if end <= 2 {
		return nil
	}
	return c.batchUpdate(ctx, documentID, &docs.Request{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: &docs.Range{StartIndex: 1, EndIndex: end - 1},
		},
	})
}

func (c *Client) batchUpdate(ctx context.Context, documentID string, reqs ...*docs.Request) error {
	_, err := c.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{Requests: reqs}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("docs batch update: %w", err)
	}
	return nil
}

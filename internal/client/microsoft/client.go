// Package microsoft Microsoft Graph 客户端：Outlook、OneDrive、Word/Excel、Teams
package microsoft

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Client 绑定单个用户访问令牌
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(20 * time.Second)
	return &Client{http: c}
}

// GraphError Graph 返回的错误
type GraphError struct {
	Status  int
	Code    string
	Message string
}

func (e *GraphError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("graph %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("graph %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		ge := &GraphError{Status: resp.StatusCode(), Message: resp.String()}
		if eb, ok := resp.Error().(*errorBody); ok && eb.Error.Code != "" {
			ge.Code = eb.Error.Code
			ge.Message = eb.Error.Message
		}
		return ge
	}
	return nil
}

// list Graph 集合响应
type list[T any] struct {
	Value []T `json:"value"`
}

func escape(s string) string { return url.PathEscape(s) }

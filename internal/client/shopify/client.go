// Package shopify Shopify Admin REST 客户端
package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"saas-agent/internal/model"
)

const defaultAPIVersion = "2024-01"

// MaxPageSize Admin API 单页上限
const MaxPageSize = 250

type Client struct {
	http       *resty.Client
	apiVersion string
}

// NewClient storeURL 可带或不带协议，如 shop.myshopify.com
func NewClient(storeURL, accessToken, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	c := resty.New().
		SetBaseURL(BaseURL(storeURL)).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(20 * time.Second)
	return &Client{http: c, apiVersion: apiVersion}
}

// BaseURL 规范化店铺地址
func BaseURL(storeURL string) string {
	u := strings.TrimRight(strings.TrimSpace(storeURL), "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// OrderQuery 订单查询条件
type OrderQuery struct {
	Limit  int
	Status string // open, closed, cancelled, any
	// FinancialStatus paid, pending, refunded 等
	FinancialStatus string
	CreatedAtMin    string
	CreatedAtMax    string
}

// StatusError 非 2xx 响应
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shopify api error %d: %s", e.Code, e.Body)
}

// Orders 按创建时间倒序列出订单
func (c *Client) Orders(ctx context.Context, q OrderQuery) ([]model.Order, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	status := q.Status
	if status == "" {
		status = "any"
	}
	params := map[string]string{
		"limit":  strconv.Itoa(limit),
		"status": status,
		"order":  "created_at desc",
	}
	if q.FinancialStatus != "" {
		params["financial_status"] = q.FinancialStatus
	}
	if q.CreatedAtMin != "" {
		params["created_at_min"] = q.CreatedAtMin
	}
	if q.CreatedAtMax != "" {
		params["created_at_max"] = q.CreatedAtMax
	}

	var out struct {
		Orders []model.Order `json:"orders"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get(fmt.Sprintf("/admin/api/%s/orders.json", c.apiVersion))
	if err != nil {
		return nil, fmt.Errorf("shopify orders: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return out.Orders, nil
}

// Package mcpserver 把代理以 MCP 工具的形式暴露给支持 MCP 的客户端（stdio）。
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"saas-agent/internal/model"
)

const (
	serverName    = "saas-agent"
	serverVersion = "0.1.0"
)

// Querier 与 HTTP 入口共用的查询接口
type Querier interface {
	Query(ctx context.Context, req model.QueryRequest) (model.QueryResponse, error)
}

// Handler 工具处理器
type Handler struct {
	svc Querier
	log zerolog.Logger
}

func NewHandler(svc Querier, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With().Str("component", "mcp").Logger()}
}

// New 创建 MCP 服务并注册 ask 工具
func New(svc Querier, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(true))
	NewHandler(svc, log).RegisterTools(s)
	return s
}

// Serve 在 stdio 上运行，直到输入关闭
func Serve(svc Querier, log zerolog.Logger) error {
	return server.ServeStdio(New(svc, log))
}

func (h *Handler) RegisterTools(s *server.MCPServer) {
	ask := mcp.NewTool("ask",
		mcp.WithDescription("Run a natural-language request against the connected SaaS accounts (mail, calendar, drive, chat, shop)"),
		mcp.WithString("query", mcp.Required(), mcp.Description("What you want done, in plain words")),
		mcp.WithString("session_id", mcp.Description("Session whose stored credentials and meeting history to use")),
	)
	s.AddTool(ask, h.handleAsk)
}

func (h *Handler) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	session, _ := req.GetArguments()["session_id"].(string)

	start := time.Now()
	resp, err := h.svc.Query(ctx, model.QueryRequest{Query: query, SessionID: session})
	elapsed := time.Since(start)
	if err != nil {
		h.log.Error().Err(err).Dur("elapsed", elapsed).Msg("ask failed")
		if errors.Is(err, model.ErrInvalidParams) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to handle request: %v", err)), nil
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	h.log.Debug().Str("task_id", resp.TaskID).Str("action", string(resp.Action)).Dur("elapsed", elapsed).Msg("ask completed")
	return mcp.NewToolResultText(string(body)), nil
}

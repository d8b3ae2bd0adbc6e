package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"saas-agent/internal/model"
)

// Querier 自然语言请求的处理方（service.AgentService）
type Querier interface {
	Query(ctx context.Context, req model.QueryRequest) (model.QueryResponse, error)
}

// AgentHandler 处理对话相关 HTTP 请求
type AgentHandler struct {
	svc Querier
}

func NewAgentHandler(svc Querier) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// Query 解析文本并执行对应动作
// POST /api/v1/agent/query
func (h *AgentHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	resp, err := h.svc.Query(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		_ = c.Error(err)
		c.JSON(status, gin.H{
			"task_id": resp.TaskID,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Package llm 意图解析：大模型优先，失败时走关键词规则表
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	clientllm "saas-agent/internal/client/llm"
	"saas-agent/internal/metrics"
	"saas-agent/internal/model"
)

// Chatter 大模型对话接口，由 client/llm.Client 实现
type Chatter interface {
	Chat(ctx context.Context, systemPrompt, userContent string, opts clientllm.Options) (string, error)
}

// Service 调用大模型并解析为结构化意图
type Service struct {
	client   Chatter
	log      zerolog.Logger
	maxLimit int
}

// NewService maxLimit 为列表类动作 limit 上限，<=0 时取 200
func NewService(client Chatter, log zerolog.Logger, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = 200
	}
	return &Service{
		client:   client,
		log:      log.With().Str("component", "resolver").Logger(),
		maxLimit: maxLimit,
	}
}

// rawIntent 大模型原始输出
type rawIntent struct {
	Action          string          `json:"action"`
	UsesContext     json.RawMessage `json:"usesContext"`
	Parameters      json.RawMessage `json:"parameters"`
	NaturalResponse *string         `json:"naturalResponse"`
}

// Resolve 解析用户文本，永不失败：大模型不可用或输出无法解析时使用规则表
func (s *Service) Resolve(ctx context.Context, text string) model.Intent {
	raw, err := s.client.Chat(ctx, intentPrompt, text, clientllm.Options{Temperature: 0, MaxTokens: 500})
	if err == nil {
		var it model.Intent
		if it, err = s.parse(raw); err == nil {
			metrics.ObserveIntent("llm", string(it.Action))
			s.log.Debug().Str("action", string(it.Action)).Msg("intent resolved")
			return it
		}
	}
	s.log.Warn().Err(err).Msg("llm intent failed, using fallback rules")
	it := Fallback(text)
	metrics.ObserveIntent("fallback", string(it.Action))
	return it
}

func (s *Service) parse(raw string) (model.Intent, error) {
	body := ExtractJSON(raw)
	if body == "" {
		return model.Intent{}, fmt.Errorf("%w: empty reply", model.ErrInvalidLLMOutput)
	}
	var out rawIntent
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return model.Intent{}, fmt.Errorf("%w: %v", model.ErrInvalidLLMOutput, err)
	}

	action, ok := model.ParseActionTag(strings.TrimSpace(out.Action))
	if !ok {
		action = model.ActionNone
	}
	params, err := model.DecodeParams(action, out.Parameters)
	if err != nil {
		return model.Intent{}, err
	}
	s.normalize(action, params)

	natural := "Okay."
	if out.NaturalResponse != nil {
		natural = *out.NaturalResponse
	}
	return model.Intent{
		Action:          action,
		Params:          params,
		UsesContext:     bytes.Equal(bytes.TrimSpace(out.UsesContext), []byte("true")),
		NaturalResponse: natural,
	}, nil
}

// normalize limit 上限与 create_course 的名称默认值
func (s *Service) normalize(action model.ActionTag, params model.Params) {
	if p, ok := params.(interface{ ClampLimit(int) }); ok {
		p.ClampLimit(s.maxLimit)
	}
	if action == model.ActionCreateCourse {
		p := params.(*model.CreateCourseParams)
		switch {
		case p.Name == "" && p.Title == "":
			p.Name = "New Classroom"
		case p.Name == "":
			p.Name = p.Title
		}
	}
}

// ExtractJSON 从回复中提取 JSON（大模型可能带 markdown 代码块）
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return ""
}

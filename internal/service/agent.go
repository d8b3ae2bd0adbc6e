package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"saas-agent/internal/model"
	"saas-agent/internal/service/executor"
	servicellm "saas-agent/internal/service/llm"
	"saas-agent/internal/store"
)

// CredentialRefresher 在调用前刷新过期的 OAuth 令牌
type CredentialRefresher interface {
	Ensure(ctx context.Context, session string, creds model.Credentials) (model.Credentials, error)
}

// Dispatcher 执行已解析的意图
type Dispatcher interface {
	Dispatch(ctx context.Context, req executor.Request) model.Result
}

// Summarizer 列表结果的自然语言摘要
type Summarizer interface {
	Summarize(ctx context.Context, query string, action model.ActionTag, data any) string
}

// AgentOptions 编排参数
type AgentOptions struct {
	DefaultSession string
	// Summarize 列表结果是否改写为摘要
	Summarize bool
}

// AgentService 编排：合并会话凭证 -> 刷新令牌 -> 解析意图 -> 分发 -> 摘要
type AgentService struct {
	store      store.SessionStore
	refresher  CredentialRefresher
	resolver   executor.Resolver
	dispatcher Dispatcher
	summarizer Summarizer
	opts       AgentOptions
	log        zerolog.Logger
}

func NewAgentService(
	st store.SessionStore,
	refresher CredentialRefresher,
	resolver executor.Resolver,
	dispatcher Dispatcher,
	summarizer Summarizer,
	opts AgentOptions,
	log zerolog.Logger,
) *AgentService {
	if opts.DefaultSession == "" {
		opts.DefaultSession = "default"
	}
	return &AgentService{
		store:      st,
		refresher:  refresher,
		resolver:   resolver,
		dispatcher: dispatcher,
		summarizer: summarizer,
		opts:       opts,
		log:        log.With().Str("component", "agent").Logger(),
	}
}

// Query 处理一段自然语言请求。只有请求本身无效时返回错误，其余失败都体现在 Message 中。
func (s *AgentService) Query(ctx context.Context, req model.QueryRequest) (model.QueryResponse, error) {
	resp := model.QueryResponse{TaskID: uuid.NewString()}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return resp, fmt.Errorf("%w: query is required", model.ErrInvalidParams)
	}
	session := req.SessionID
	if session == "" {
		session = s.opts.DefaultSession
	}
	log := s.log.With().Str("task_id", resp.TaskID).Str("session", session).Logger()

	creds := s.credentials(ctx, session, req.Credentials, log)

	intent := s.resolver.Resolve(ctx, query)
	res := s.dispatcher.Dispatch(ctx, executor.Request{
		Session: session,
		Query:   query,
		Intent:  intent,
		Creds:   creds,
	})

	out := res.Response
	if s.opts.Summarize && res.OK() && servicellm.Summarizable(out.Action) {
		if n, ok := out.ItemCount(); ok && n > 0 {
			out.Message = s.summarizer.Summarize(ctx, query, out.Action, out.Data)
		}
	}

	log.Info().
		Str("action", string(out.Action)).
		Str("kind", res.Kind.String()).
		AnErr("dispatch_err", res.Err).
		Msg("query handled")

	resp.Action = out.Action
	resp.Message = out.Message
	resp.Data = out.Data
	if _, none := intent.Params.(*model.NoParams); !none {
		resp.Parameters = intent.Params
	}
	return resp, nil
}

// credentials 请求中的凭证覆盖会话已保存的凭证，并持久化；随后刷新过期令牌
func (s *AgentService) credentials(ctx context.Context, session string, incoming model.Credentials, log zerolog.Logger) model.Credentials {
	stored, err := s.store.LoadCredentials(ctx, session)
	if err != nil {
		log.Warn().Err(err).Msg("load credentials")
	}
	creds := stored.Merge(incoming)
	if !incoming.IsZero() {
		if err := s.store.SaveCredentials(ctx, session, creds); err != nil {
			log.Warn().Err(err).Msg("save credentials")
		}
	}
	if s.refresher == nil {
		return creds
	}
	refreshed, err := s.refresher.Ensure(ctx, session, creds)
	if err != nil {
		log.Warn().Err(err).Msg("refresh oauth token")
	}
	return refreshed
}

package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"saas-agent/internal/metrics"
	"saas-agent/internal/model"
	"saas-agent/internal/service/directory"
	"saas-agent/internal/store"
)

// GenericHelp 未预期错误时的兜底回复
const GenericHelp = "I can help with Gmail, Outlook, OneDrive, Docs, Word, Excel, Keep, Classroom, Shopify, and Teams."

// Resolver 自由文本 -> 意图
type Resolver interface {
	Resolve(ctx context.Context, text string) model.Intent
}

// EmailAnswerer 基于邮件内容回答问题
type EmailAnswerer interface {
	AnswerFromEmails(ctx context.Context, emails []model.Email, question, date string) string
}

// Options 分发时使用的默认值
type Options struct {
	// MaxLimit 列表动作 limit 上限
	MaxLimit int
	// Location 解释 "5pm" 等时间的时区
	Location *time.Location
	// OutlookTimeZone 写入 Outlook 事件的 Windows 时区名
	OutlookTimeZone string
}

// Request 单次分发
type Request struct {
	Session string
	// Query 原始文本，部分动作会从中补充参数
	Query  string
	Intent model.Intent
	Creds  model.Credentials
}

// Executor 按动作类型路由到各厂商的处理函数，先做凭证检查，再调用厂商接口
type Executor struct {
	adapters  Adapters
	store     store.SessionStore
	directory *directory.Service
	answerer  EmailAnswerer
	opts      Options
	log       zerolog.Logger
	now       func() time.Time
	routes    map[model.ActionTag]route
}

func New(adapters Adapters, st store.SessionStore, dir *directory.Service, answerer EmailAnswerer, opts Options, log zerolog.Logger) *Executor {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.OutlookTimeZone == "" {
		opts.OutlookTimeZone = "India Standard Time"
	}
	e := &Executor{
		adapters:  adapters,
		store:     st,
		directory: dir,
		answerer:  answerer,
		opts:      opts,
		log:       log.With().Str("component", "executor").Logger(),
		now:       time.Now,
	}
	e.routes = routeTable()
	return e
}

// Dispatch 执行已解析的意图。Response 总是可直接展示，Kind/Err 供调用方区分失败原因。
func (e *Executor) Dispatch(ctx context.Context, req Request) (res model.Result) {
	start := time.Now()
	action := req.Intent.Action
	defer func() {
		if r := recover(); r != nil {
			err := pkgerrors.Errorf("panic: %v", r)
			e.log.Error().Stack().Err(err).Str("action", string(action)).Msg("dispatch panicked")
			res = model.Result{
				Response: model.Response{Action: model.ActionHelp, Message: GenericHelp},
				Kind:     model.KindUnexpected,
				Err:      err,
			}
		}
		metrics.ObserveDispatch(string(action), res.Kind.String(), time.Since(start))
	}()

	switch action {
	case model.ActionHelp, model.ActionNone:
		msg := req.Intent.NaturalResponse
		if msg == "" {
			msg = GenericHelp
		}
		return done(action, msg, nil)
	}

	rt, ok := e.routes[action]
	if !ok {
		err := fmt.Errorf("%w: %s", model.ErrActionNotSupport, action)
		e.log.Warn().Err(err).Msg("no route")
		return model.Result{
			Response: model.Response{Action: model.ActionHelp, Message: GenericHelp},
			Kind:     model.KindUnexpected,
			Err:      err,
		}
	}
	if msg, ok := gate(rt.vendor, req.Creds); !ok {
		return fail(action, model.KindMissingCredential, msg, model.ErrMissingCredential)
	}

	res = rt.run(e, ctx, req)
	switch res.Kind {
	case model.KindNone, model.KindResolutionMiss:
		metrics.ObserveVendorCall(string(rt.vendor), nil)
	case model.KindVendor:
		metrics.ObserveVendorCall(string(rt.vendor), res.Err)
		e.log.Error().Err(res.Err).
			Str("action", string(action)).
			Str("session", req.Session).
			Msg("vendor call failed")
	}
	return res
}

// gate 厂商凭证检查，失败时返回提示语
func gate(v model.Vendor, c model.Credentials) (string, bool) {
	switch v {
	case model.VendorGoogle:
		if !c.Google.Usable() {
			return "Please connect your Google account first.", false
		}
	case model.VendorMicrosoft:
		if !c.Microsoft.Usable() {
			return "Please sign in with Microsoft first.", false
		}
	case model.VendorShopify:
		if c.Shopify == nil || c.Shopify.StoreURL == "" || c.Shopify.AccessToken == "" {
			return "No Shopify connection found. Please connect your Shopify store first.", false
		}
	case model.VendorSlack:
		if c.SlackToken == "" {
			return "Please connect Slack first.", false
		}
	case model.VendorTelegram:
		if c.TelegramToken == "" {
			return "Please provide a Telegram Bot Token.", false
		}
	case model.VendorDiscord:
		if c.Discord == nil || c.Discord.BotToken == "" {
			return "Discord Bot Token is not configured.", false
		}
	}
	return "", true
}

func (e *Executor) limit(n int) int {
	return min(n, e.opts.MaxLimit)
}

func done(action model.ActionTag, msg string, data any) model.Result {
	return model.Result{Response: model.Response{Action: action, Message: msg, Data: data}}
}

func fail(action model.ActionTag, kind model.ErrorKind, msg string, err error) model.Result {
	return model.Result{
		Response: model.Response{Action: action, Message: msg},
		Kind:     kind,
		Err:      err,
	}
}

func missing(action model.ActionTag, msg string) model.Result {
	return fail(action, model.KindMissingParam, msg, model.ErrInvalidParams)
}

func notFound(action model.ActionTag, msg string) model.Result {
	return fail(action, model.KindResolutionMiss, msg, model.ErrNotFound)
}

func vendorFailed(action model.ActionTag, msg string, err error) model.Result {
	return fail(action, model.KindVendor, msg, err)
}

// timeProblem 时间/日期解析失败的提示
func timeProblem(action model.ActionTag, err error) model.Result {
	if errors.Is(err, model.ErrInvalidDate) {
		return fail(action, model.KindMissingParam, "Invalid date format. Use YYYY-MM-DD.", err)
	}
	return fail(action, model.KindMissingParam, "Invalid time format. Try something like 5pm or 17:30.", err)
}

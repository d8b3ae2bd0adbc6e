package executor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"saas-agent/internal/client/discord"
	"saas-agent/internal/client/slack"
	"saas-agent/internal/client/telegram"
	"saas-agent/internal/model"
	"saas-agent/internal/service/directory"
	"saas-agent/internal/service/match"
)

const (
	defaultSlackChannel   = "general"
	defaultDiscordChannel = "general"
	discordKickReason     = "Kicked by AI Agent"
)

// quotedGroup 从原文中取出 group "Family Group" 这样的会话名
var quotedGroup = regexp.MustCompile(`(?i)\b(?:group|chat|channel)\s+["“']([^"”']+)["”']`)

// ---- Slack ----

// slackChannel 按 ID 或名称找频道，"#" 前缀可省略；没找到时返回的 Name 为查询名
func slackChannel(ctx context.Context, s SlackAPI, name string) (slack.Channel, bool, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	if name == "" {
		name = defaultSlackChannel
	}
	channels, err := s.ListChannels(ctx)
	if err != nil {
		return slack.Channel{}, false, err
	}
	for _, c := range channels {
		if c.ID == name {
			return c, true, nil
		}
	}
	c, ok := match.Name(channels, name, func(c slack.Channel) string { return c.Name })
	if !ok {
		return slack.Channel{Name: name}, false, nil
	}
	return c, true, nil
}

func (e *Executor) fetchSlackHistory(ctx context.Context, req Request, s SlackAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.SlackParams](req.Intent)
	ch, ok, err := slackChannel(ctx, s, p.ChannelName)
	if err != nil {
		return vendorFailed(action, "Failed to fetch Slack messages.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find Slack channel #%s.", ch.Name))
	}
	msgs, err := s.History(ctx, ch.ID, e.limit(p.LimitOr(10)))
	if err != nil {
		return vendorFailed(action, "Failed to fetch Slack messages.", err)
	}
	return done(action, fmt.Sprintf("Fetched %d messages from #%s.", len(msgs), ch.Name), msgs)
}

func (e *Executor) sendSlackMessage(ctx context.Context, req Request, s SlackAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.SlackParams](req.Intent)
	if strings.TrimSpace(p.Text) == "" {
		return missing(action, "What should I send to Slack?")
	}
	ch, ok, err := slackChannel(ctx, s, p.ChannelName)
	if err != nil {
		return vendorFailed(action, "Failed to send Slack message.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find Slack channel #%s.", ch.Name))
	}
	if err := s.SendMessage(ctx, ch.ID, p.Text); err != nil {
		return vendorFailed(action, "Failed to send Slack message.", err)
	}
	return done(action, fmt.Sprintf("Message sent to #%s.", ch.Name), nil)
}

// ---- Telegram ----

// telegramFailed 401/403 给出具体提示，其余用通用失败语
func telegramFailed(action model.ActionTag, msg string, err error) model.Result {
	var apiErr *telegram.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			msg = "Invalid Telegram Token."
		case http.StatusForbidden:
			msg = "Bot lacks permissions (Must be Admin for this action)."
		}
	}
	return vendorFailed(action, msg, err)
}

func (e *Executor) fetchTelegramUpdates(ctx context.Context, req Request, t TelegramAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.TelegramFetchParams](req.Intent)
	updates, err := e.directory.Refresh(ctx, req.Session, t)
	if err != nil {
		if updates == nil {
			return telegramFailed(action, "Failed to fetch Telegram updates.", err)
		}
		e.log.Warn().Err(err).Str("session", req.Session).Msg("learn telegram chats")
	}

	var msgs []model.TelegramMessage
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p.ChatName), "@"))
	for _, m := range directory.Messages(updates) {
		if m.Text == "" {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(chatTitle(m.Chat)), name) &&
			!strings.EqualFold(m.Chat.Username, name) {
			continue
		}
		msgs = append(msgs, m)
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Date > msgs[j].Date })
	if n := e.limit(p.LimitOr(10)); len(msgs) > n {
		msgs = msgs[:n]
	}
	if len(msgs) == 0 {
		if p.ChatName != "" {
			return done(action, fmt.Sprintf("No recent messages found in %q.", p.ChatName), msgs)
		}
		return done(action, "No recent messages found.", msgs)
	}
	return done(action, formatTelegram(msgs), msgs)
}

func chatTitle(c model.TelegramChat) string {
	switch {
	case c.Title != "":
		return c.Title
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.Username
	}
}

func formatTelegram(msgs []model.TelegramMessage) string {
	var b strings.Builder
	b.WriteString("Recent Activity:\n")
	for _, m := range msgs {
		kind := "Group"
		if m.Chat.Type == "private" {
			kind = "DM"
		}
		sender := "Unknown"
		if m.From != nil {
			sender = m.From.FirstName
			if sender == "" {
				sender = m.From.Username
			}
		}
		fmt.Fprintf(&b, "\n• [%s: %s | ID: %d]\n  %s: %q\n", kind, chatTitle(m.Chat), m.Chat.ID, sender, m.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// telegramChat 解析目标会话：chatId 优先，其次 chatName，再从原文中找 group "X"。
// 目录没命中时先拉一次 getUpdates 学习新会话再查。
func (e *Executor) telegramChat(ctx context.Context, req Request, t TelegramAPI, chatID, name string) (id, label string, res *model.Result) {
	action := req.Intent.Action
	if chatID != "" {
		return chatID, chatID, nil
	}
	if name == "" {
		if m := quotedGroup.FindStringSubmatch(req.Query); m != nil {
			name = strings.TrimSpace(m[1])
		}
	}
	if name == "" {
		r := missing(action, "Which chat should I use? Please provide the group name or chat ID.")
		return "", "", &r
	}

	entry, ok, err := e.directory.Resolve(ctx, req.Session, name)
	if err != nil {
		e.log.Warn().Err(err).Str("session", req.Session).Msg("resolve telegram chat")
	}
	if !ok {
		if _, err := e.directory.Refresh(ctx, req.Session, t); err != nil {
			e.log.Warn().Err(err).Str("session", req.Session).Msg("refresh telegram directory")
		}
		entry, ok, err = e.directory.Resolve(ctx, req.Session, name)
		if err != nil {
			e.log.Warn().Err(err).Str("session", req.Session).Msg("resolve telegram chat")
		}
	}
	if !ok {
		r := notFound(action, fmt.Sprintf("I couldn't find a chat named %q. Please send a message in that group first so I can learn it.", name))
		return "", "", &r
	}
	return strconv.FormatInt(entry.ID, 10), name, nil
}

func (e *Executor) sendTelegramMessage(ctx context.Context, req Request, t TelegramAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.TelegramSendParams](req.Intent)
	if strings.TrimSpace(p.Text) == "" {
		return missing(action, "What message should I send?")
	}
	chatID, label, res := e.telegramChat(ctx, req, t, p.ChatID.String(), p.ChatName)
	if res != nil {
		return *res
	}
	msg, err := t.SendMessage(ctx, chatID, p.Text, int64(p.ReplyToMessageID))
	if err != nil {
		return telegramFailed(action, "Failed to send Telegram message.", err)
	}
	return done(action, fmt.Sprintf("Message sent to %q.", label), msg)
}

func (e *Executor) manageTelegramGroup(ctx context.Context, req Request, t TelegramAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.TelegramManageParams](req.Intent)
	op := strings.ToLower(strings.TrimSpace(p.Op))
	userID, messageID := int64(p.UserID), int64(p.MessageID)

	switch op {
	case "kick", "ban", "promote":
		if userID == 0 {
			return missing(action, "Which user? Please provide the user ID.")
		}
	case "pin":
		if messageID == 0 {
			return missing(action, "Which message should I pin? Please provide the message ID.")
		}
	case "unpin":
	case "title":
		if strings.TrimSpace(p.Value) == "" {
			return missing(action, "What should the new group title be?")
		}
	default:
		return missing(action, "Supported group actions: kick, pin, unpin, promote and title.")
	}

	chatID, _, res := e.telegramChat(ctx, req, t, p.ChatID.String(), p.ChatName)
	if res != nil {
		return *res
	}

	var (
		err error
		msg string
	)
	switch op {
	case "kick", "ban":
		err = t.BanChatMember(ctx, chatID, userID)
		msg = fmt.Sprintf("User %d has been kicked.", userID)
	case "pin":
		err = t.PinChatMessage(ctx, chatID, messageID)
		msg = "Message pinned successfully."
	case "unpin":
		err = t.UnpinChatMessage(ctx, chatID, messageID)
		msg = "Message unpinned successfully."
	case "promote":
		err = t.PromoteChatMember(ctx, chatID, userID)
		msg = fmt.Sprintf("User %d has been promoted to admin.", userID)
	case "title":
		err = t.SetChatTitle(ctx, chatID, p.Value)
		msg = "Group title changed to: " + p.Value
	}
	if err != nil {
		return telegramFailed(action, "Failed to manage the Telegram group.", err)
	}
	return done(action, msg, nil)
}

// ---- Discord ----

func guildOf(req Request, p *model.DiscordParams) string {
	if g := p.GuildID.String(); g != "" {
		return g
	}
	if req.Creds.Discord != nil {
		return req.Creds.Discord.GuildID
	}
	return ""
}

// discordChannel channelId 优先，否则在服务器中选 #general 或第一个文字频道
func discordChannel(ctx context.Context, req Request, d DiscordAPI, p *model.DiscordParams) (id, name string, res *model.Result) {
	action := req.Intent.Action
	if c := p.ChannelID.String(); c != "" {
		return c, c, nil
	}
	guild := guildOf(req, p)
	if guild == "" {
		r := fail(action, model.KindMissingCredential, "Please connect a Discord server first.", model.ErrMissingCredential)
		return "", "", &r
	}
	channels, err := d.Channels(ctx, guild)
	if err != nil {
		r := vendorFailed(action, "Failed to load Discord channels.", err)
		return "", "", &r
	}
	var first *discord.Channel
	for i, c := range channels {
		if c.Type != discord.ChannelTypeText {
			continue
		}
		if strings.EqualFold(c.Name, defaultDiscordChannel) {
			return c.ID, c.Name, nil
		}
		if first == nil {
			first = &channels[i]
		}
	}
	if first == nil {
		r := notFound(action, "No text channels found in this Discord server.")
		return "", "", &r
	}
	return first.ID, first.Name, nil
}

func (e *Executor) fetchDiscordMessages(ctx context.Context, req Request, d DiscordAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DiscordParams](req.Intent)
	channelID, name, res := discordChannel(ctx, req, d, p)
	if res != nil {
		return *res
	}
	raw, err := d.Messages(ctx, channelID, e.limit(p.LimitOr(10)))
	if err != nil {
		return vendorFailed(action, "Failed to fetch Discord messages.", err)
	}
	msgs := make([]model.DiscordMessage, 0, len(raw))
	for _, m := range raw {
		msgs = append(msgs, model.DiscordMessage{
			ID:        m.ID,
			Author:    m.Author.Username,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			IsBot:     m.Author.Bot,
		})
	}
	if len(msgs) == 0 {
		return done(action, fmt.Sprintf("No recent messages in #%s.", name), msgs)
	}
	var b strings.Builder
	b.WriteString("**Latest Discord Activity:**\n")
	for _, m := range msgs {
		fmt.Fprintf(&b, "\n**%s**: %q", m.Author, m.Content)
	}
	return done(action, b.String(), msgs)
}

func (e *Executor) sendDiscordMessage(ctx context.Context, req Request, d DiscordAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DiscordParams](req.Intent)
	if strings.TrimSpace(p.Text) == "" {
		return missing(action, "What should I send to Discord?")
	}
	channelID, name, res := discordChannel(ctx, req, d, p)
	if res != nil {
		return *res
	}
	sent, err := d.SendMessage(ctx, channelID, p.Text)
	if err != nil {
		return vendorFailed(action, "Failed to send Discord message.", err)
	}
	return done(action, fmt.Sprintf("Message sent to **#%s**.", name), sent)
}

func (e *Executor) kickDiscordUser(ctx context.Context, req Request, d DiscordAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DiscordParams](req.Intent)
	user := p.UserID.String()
	if user == "" {
		return missing(action, "Which user should I kick? Please provide the user ID.")
	}
	guild := guildOf(req, p)
	if guild == "" {
		return fail(action, model.KindMissingCredential,
			"I don't know which server to act on. Please connect your Discord server first.", model.ErrMissingCredential)
	}
	if err := d.KickMember(ctx, guild, user, discordKickReason); err != nil {
		return vendorFailed(action, "Failed to kick the Discord user.", err)
	}
	return done(action, fmt.Sprintf("User %s has been kicked from the server.", user), nil)
}

// Package bot runs the Telegram side of the service: it tells users which
// chat id to link, lists their open tasks and delivers account
// notifications to linked chats.
package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
	"todotrek/internal/notify"
	"todotrek/internal/service"
)

const noParent = "Inbox"

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UserFinder resolves the account linked to a chat.
type UserFinder interface {
	GetByTelegramChat(ctx context.Context, chatID int64) (*model.User, error)
}

// TaskLister returns task views for an actor.
type TaskLister interface {
	List(ctx context.Context, actorID string, filter service.TaskListFilter, sortBy string) ([]service.TaskView, error)
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api   botAPI
	users UserFinder
	tasks TaskLister
	log   *logrus.Entry
}

func New(token string, users UserFinder, tasks TaskLister, log *logrus.Entry) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log = log.WithField("component", "bot")
	log.WithField("account", api.Self.UserName).Info("bot authorized")

	return newBot(api, users, tasks, log), nil
}

func newBot(api botAPI, users UserFinder, tasks TaskLister, log *logrus.Entry) *Bot {
	return &Bot{api: api, users: users, tasks: tasks, log: log}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.WithError(err).Warn("handle message")
		}
	}

	return nil
}

// Notify sends n to its chat. It implements notify.Notifier.
func (b *Bot) Notify(_ context.Context, n notify.Notification) (notify.Receipt, error) {
	if n.ChatID == 0 {
		return notify.Receipt{}, fmt.Errorf("notification for user %s has no chat", n.UserID)
	}
	sent, err := b.api.Send(tgbotapi.NewMessage(n.ChatID, notify.Text(n)))
	if err != nil {
		return notify.Receipt{}, fmt.Errorf("send telegram message: %w", err)
	}
	return notify.Receipt{Channel: "telegram", Reference: strconv.Itoa(sent.MessageID)}, nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "Send /help to see what I can do.")
	}

	b.log.WithFields(logrus.Fields{"chat_id": msg.Chat.ID, "command": msg.Command()}).Debug("command")

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "tasks":
		return b.handleTasks(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := ""
	if msg.From != nil {
		name = strings.TrimSpace(msg.From.FirstName)
	}
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\nYour chat id is <code>%d</code>.\n"+
			"Paste it into the Telegram field of your TodoTrek account to get account notifications here.\n\n"+
			"Then use /tasks to see your open tasks.",
		escape(name), msg.Chat.ID,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /start - show the chat id to link\n" +
		"• /tasks - list open tasks by project\n" +
		"• /help - this message"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.users.GetByTelegramChat(ctx, msg.Chat.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		return b.sendText(msg.Chat.ID, "This chat is not linked to an account yet. Send /start to get your chat id.")
	}
	if err != nil {
		return err
	}

	tasks, err := b.tasks.List(ctx, user.ID, service.TaskListFilter{}, string(service.SortIncompleteFirst))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load tasks: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, renderTaskList(tasks))
}

// renderTaskList groups open tasks by parent name. Standalone tasks go last.
func renderTaskList(tasks []service.TaskView) string {
	groups := make(map[string][]service.TaskView)
	var order []string
	for _, task := range tasks {
		if task.IsCompleted {
			continue
		}
		name := parentName(task)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], task)
	}

	if len(order) == 0 {
		return "You have no open tasks. 🎉"
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i] == noParent {
			return false
		}
		if order[j] == noParent {
			return true
		}
		return order[i] < order[j]
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Open tasks</b>\n")
	for _, name := range order {
		builder.WriteString("\n<b>" + escape(name) + "</b>\n")
		for _, task := range groups[name] {
			builder.WriteString("• " + priorityIcon(task.Priority) + " " + escape(task.Body))
			if task.DueDate != nil {
				builder.WriteString(" ⏳ " + task.DueDate.Format("2006-01-02"))
			}
			builder.WriteString("\n")
		}
	}
	return strings.TrimSpace(builder.String())
}

func parentName(task service.TaskView) string {
	switch {
	case task.Category != nil:
		return task.Category.Name
	case task.Project != nil:
		return task.Project.Name
	default:
		return noParent
	}
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟠"
	case model.PriorityLow:
		return "🟡"
	default:
		return "⚪"
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func escape(s string) string {
	return html.EscapeString(s)
}

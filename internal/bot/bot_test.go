package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
	"todotrek/internal/notify"
	"todotrek/internal/service"
)

type fakeAPI struct {
	sent    []tgbotapi.MessageConfig
	sendErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeAPI) StopReceivingUpdates() {}

type fakeUsers struct {
	byChat map[int64]*model.User
}

func (f fakeUsers) GetByTelegramChat(_ context.Context, chatID int64) (*model.User, error) {
	if u, ok := f.byChat[chatID]; ok {
		return u, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

type fakeTasks struct {
	views   []service.TaskView
	actorID string
}

func (f *fakeTasks) List(_ context.Context, actorID string, _ service.TaskListFilter, _ string) ([]service.TaskView, error) {
	f.actorID = actorID
	return f.views, nil
}

func command(chatID int64, text string) *tgbotapi.Message {
	name := strings.Fields(text)[0]
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID, Type: "private"},
		From:     &tgbotapi.User{ID: chatID, FirstName: "Ann"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func newTestBot(users UserFinder, tasks TaskLister) (*Bot, *fakeAPI) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := &fakeAPI{}
	return newBot(api, users, tasks, logrus.NewEntry(logger)), api
}

func TestStartRepliesWithChatID(t *testing.T) {
	b, api := newTestBot(fakeUsers{}, &fakeTasks{})

	if err := b.handleMessage(context.Background(), command(4242, "/start")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages", len(api.sent))
	}
	if got := api.sent[0].Text; !strings.Contains(got, "4242") || !strings.Contains(got, "Ann") {
		t.Fatalf("reply = %q", got)
	}
}

func TestHelpListsCommands(t *testing.T) {
	b, api := newTestBot(fakeUsers{}, &fakeTasks{})

	if err := b.handleMessage(context.Background(), command(1, "/help")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := api.sent[0].Text
	for _, line := range []string{"/start - ", "/tasks - ", "/help - "} {
		if !strings.Contains(got, line) {
			t.Errorf("help text lacks %q: %q", line, got)
		}
	}
	if strings.ContainsRune(got, '\u2014') {
		t.Errorf("help text uses an em dash: %q", got)
	}
}

func TestTasksRequiresLinkedChat(t *testing.T) {
	b, api := newTestBot(fakeUsers{}, &fakeTasks{})

	if err := b.handleMessage(context.Background(), command(7, "/tasks")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := api.sent[0].Text; !strings.Contains(got, "not linked") {
		t.Fatalf("reply = %q", got)
	}
}

func TestTasksListsOpenTasksGrouped(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{views: []service.TaskView{
		{TaskSummary: model.TaskSummary{Body: "standalone"}},
		{TaskSummary: model.TaskSummary{Body: "fix <bug>", Priority: model.PriorityHigh, DueDate: &due}, Category: &service.CategoryLink{Name: "Sprint1"}},
		{TaskSummary: model.TaskSummary{Body: "done", IsCompleted: true}, Project: &service.ProjectLink{Name: "Work"}},
		{TaskSummary: model.TaskSummary{Body: "plan"}, Project: &service.ProjectLink{Name: "Home"}},
	}}
	users := fakeUsers{byChat: map[int64]*model.User{9: {ID: "user-1"}}}
	b, api := newTestBot(users, tasks)

	if err := b.handleMessage(context.Background(), command(9, "/tasks")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if tasks.actorID != "user-1" {
		t.Fatalf("listed for %q", tasks.actorID)
	}
	got := api.sent[0].Text
	if strings.Contains(got, "done") {
		t.Fatalf("completed task listed: %q", got)
	}
	if !strings.Contains(got, "fix &lt;bug&gt;") || !strings.Contains(got, "2026-03-01") {
		t.Fatalf("task line missing: %q", got)
	}
	home, sprint, inbox := strings.Index(got, "Home"), strings.Index(got, "Sprint1"), strings.Index(got, noParent)
	if !(home < sprint && sprint < inbox) {
		t.Fatalf("group order wrong: %q", got)
	}
}

func TestNotify(t *testing.T) {
	b, api := newTestBot(fakeUsers{}, &fakeTasks{})

	receipt, err := b.Notify(context.Background(), notify.Notification{Kind: notify.KindPasswordReset, ChatID: 5, Address: "a@b.c", Link: "http://x/reset"})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if receipt.Channel != "telegram" || receipt.Reference != "1" {
		t.Fatalf("receipt = %+v", receipt)
	}
	if api.sent[0].ChatID != 5 || !strings.Contains(api.sent[0].Text, "http://x/reset") {
		t.Fatalf("message = %+v", api.sent[0])
	}

	if _, err := b.Notify(context.Background(), notify.Notification{Kind: notify.KindPasswordReset}); err == nil {
		t.Fatal("expected error without chat id")
	}
	api.sendErr = errors.New("blocked")
	if _, err := b.Notify(context.Background(), notify.Notification{ChatID: 5}); err == nil {
		t.Fatal("expected send error")
	}
}

func TestStartStopsWhenUpdatesClose(t *testing.T) {
	b, _ := newTestBot(fakeUsers{}, &fakeTasks{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
}

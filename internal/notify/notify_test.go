package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type recorder struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recorder) Notify(_ context.Context, n Notification) (Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return Receipt{Channel: "test"}, r.err
}

func discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestRouter(t *testing.T) {
	chat, fallback := &recorder{}, &recorder{}
	r := Router{Chat: chat, Fallback: fallback}

	if _, err := r.Notify(context.Background(), Notification{Kind: KindPasswordReset, ChatID: 42}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := r.Notify(context.Background(), Notification{Kind: KindPasswordReset}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(chat.sent) != 1 || chat.sent[0].ChatID != 42 {
		t.Fatalf("chat got %+v", chat.sent)
	}
	if len(fallback.sent) != 1 || fallback.sent[0].ChatID != 0 {
		t.Fatalf("fallback got %+v", fallback.sent)
	}

	// no chat notifier configured
	r = Router{Fallback: fallback}
	if _, err := r.Notify(context.Background(), Notification{ChatID: 7}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fallback.sent) != 2 {
		t.Fatalf("fallback got %d", len(fallback.sent))
	}
}

func TestDispatcherDeliversAndSwallowsErrors(t *testing.T) {
	rec := &recorder{err: errors.New("smtp down")}
	d := NewDispatcher(rec, time.Second, discard())

	for i := 0; i < 3; i++ {
		d.Dispatch(Notification{Kind: KindEmailVerification, UserID: "u"})
	}
	d.Wait()

	if len(rec.sent) != 3 {
		t.Fatalf("delivered %d, want 3", len(rec.sent))
	}
}

func TestText(t *testing.T) {
	got := Text(Notification{Kind: KindEmailVerification, Link: "http://x/verify"})
	if !strings.Contains(got, "http://x/verify") {
		t.Fatalf("verification text missing link: %q", got)
	}
	got = Text(Notification{Kind: KindPasswordChanged, Address: "a@b.c"})
	if !strings.Contains(got, "a@b.c") {
		t.Fatalf("password changed text missing address: %q", got)
	}
}

func TestLogNotifier(t *testing.T) {
	receipt, err := NewLogNotifier(discard()).Notify(context.Background(), Notification{Kind: KindPasswordReset})
	if err != nil || receipt.Channel != "log" {
		t.Fatalf("receipt = %+v, err = %v", receipt, err)
	}
}

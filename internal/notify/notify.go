// Package notify delivers account notifications (verification links,
// password resets) over whatever channel a user has configured.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindEmailVerification Kind = "EMAIL_VERIFICATION"
	KindPasswordReset     Kind = "PASSWORD_RESET"
	KindPasswordChanged   Kind = "PASSWORD_CHANGED"
)

// Notification is one message to a user. ChatID is zero when the user has
// not linked a Telegram chat.
type Notification struct {
	Kind    Kind
	UserID  string
	Address string
	ChatID  int64
	Link    string
}

// Receipt identifies a delivered notification.
type Receipt struct {
	Channel   string `json:"channel"`
	Reference string `json:"reference,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) (Receipt, error)
}

// Text renders the notification body shared by every channel.
func Text(n Notification) string {
	switch n.Kind {
	case KindEmailVerification:
		return fmt.Sprintf("Welcome to TodoTrek! Activate your account within 15 minutes:\n%s", n.Link)
	case KindPasswordReset:
		return fmt.Sprintf("A password reset was requested for %s. Follow the link within 15 minutes:\n%s", n.Address, n.Link)
	case KindPasswordChanged:
		return fmt.Sprintf("The password for %s has been changed. If this was not you, reset it right away.", n.Address)
	default:
		return string(n.Kind)
	}
}

// LogNotifier writes notifications to the log. It stands in for a mail
// provider in local setups.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log.WithField("component", "notify")}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) (Receipt, error) {
	l.log.WithFields(logrus.Fields{
		"kind":    n.Kind,
		"user_id": n.UserID,
		"address": n.Address,
		"link":    n.Link,
	}).Info("notification")
	return Receipt{Channel: "log"}, nil
}

// Router sends to Chat when the notification carries a chat id and to
// Fallback otherwise.
type Router struct {
	Chat     Notifier
	Fallback Notifier
}

func (r Router) Notify(ctx context.Context, n Notification) (Receipt, error) {
	if n.ChatID != 0 && r.Chat != nil {
		return r.Chat.Notify(ctx, n)
	}
	return r.Fallback.Notify(ctx, n)
}

// Dispatcher delivers notifications in the background. Failures are logged
// and never reach the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *logrus.Entry
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration, log *logrus.Entry) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, log: log.WithField("component", "dispatcher")}
}

func (d *Dispatcher) Dispatch(n Notification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		receipt, err := d.notifier.Notify(ctx, n)
		entry := d.log.WithFields(logrus.Fields{"kind": n.Kind, "user_id": n.UserID})
		if err != nil {
			entry.WithError(err).Error("notification failed")
			return
		}
		entry.WithField("channel", receipt.Channel).Debug("notification sent")
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

/*
Package notify renders DV status messages and delivers them to the single
configured destination. Delivery is best effort: failures are logged and
returned, never retried.
*/
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// TimestampLayout formats check times in every message.
const TimestampLayout = "2006-01-02 15:04:05"

type Kind int

const (
	KindChanged Kind = iota
	KindRoutine
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindChanged:
		return "changed"
	case KindRoutine:
		return "routine"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NotificationData is everything a message template may show.
type NotificationData struct {
	Kind      Kind
	Summary   string
	PageURL   string
	CheckedAt time.Time
}

type RenderedMessage struct {
	Kind    Kind
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a rendered message to one destination.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *RenderedMessage) error
}

// Dispatcher renders and sends notifications.
type Dispatcher struct {
	renderer *Renderer
	sender   Sender
	logger   *slog.Logger
}

func NewDispatcher(renderer *Renderer, sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{renderer: renderer, sender: sender, logger: logger}
}

// Notify sends one message. The returned error is informational; callers
// must not let it stop the run.
func (d *Dispatcher) Notify(ctx context.Context, data NotificationData) error {
	msg, err := d.renderer.Render(data)
	if err != nil {
		d.logger.Error("failed to render notification", "kind", data.Kind, "error", err)
		return err
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Error("failed to send notification", "sender", d.sender.Name(), "kind", data.Kind, "error", err)
		return err
	}

	d.logger.Info("notification sent", "sender", d.sender.Name(), "kind", data.Kind)
	return nil
}

package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/booknest/library-api/pkg/helpers"
	"github.com/booknest/library-api/pkg/mailer"
)

// QueueNotifier publishes notification jobs to the email queue. Sending is
// fire-and-forget: a failed publish is logged and reported as false, it
// never unwinds the business mutation that triggered it.
type QueueNotifier struct {
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
	Enabled bool
}

func NewQueueNotifier(pub *helpers.RabbitPublisher, logger *logrus.Logger, enabled bool) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Logger: logger, Enabled: enabled}
}

func (n *QueueNotifier) Send(ctx context.Context, kind, to string, data map[string]any) bool {
	if n == nil || n.Pub == nil || !n.Enabled {
		return false
	}
	job := mailer.EmailJob{To: to, Kind: kind, Data: data}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		if n.Logger != nil {
			n.Logger.WithError(err).WithFields(logrus.Fields{
				"kind": kind,
				"to":   to,
			}).Warn("failed to publish notification job")
		}
		return false
	}
	return true
}

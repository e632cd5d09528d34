package notifier

import (
	log "github.com/sirupsen/logrus"

	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

type logNotifier struct{}

// NewLogNotifier returns a Notifier writing to the application log. Canceled
// key-manager outcomes are swallowed: the user abandoned the flow on purpose
// and must not see an error for it.
func NewLogNotifier() ports.Notifier {
	return logNotifier{}
}

func (logNotifier) Warn(message string) {
	log.Warn(message)
}

func (logNotifier) Error(err error) {
	if err == nil || ports.IsCanceled(err) {
		return
	}
	log.Error(err)
}

package memory

import (
	"github.com/agencykit/runway/service/approval"
	"github.com/agencykit/runway/service/messaging"
)

type Option func(*service)

// WithQueue overrides the event queue the service publishes request and
// decision notifications to.
func WithQueue(queue messaging.Queue[approval.Event]) Option {
	return func(s *service) { s.events = queue }
}

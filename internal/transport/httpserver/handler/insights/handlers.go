package insights

import (
	notificationdomain "expensezen/internal/domain/notification"
	rankdomain "expensezen/internal/domain/rank"
	reportdomain "expensezen/internal/domain/report"
	"expensezen/pkg/logger"
)

// Handlers serve the read-mostly screens: alerts, the rank board and the
// reports overview.
type Handlers struct {
	Notifications *notificationdomain.Service
	Rank          *rankdomain.Service
	Reports       *reportdomain.Service
	log           logger.Logger
}

func New(notifications *notificationdomain.Service, rank *rankdomain.Service, reports *reportdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Notifications: notifications,
		Rank:          rank,
		Reports:       reports,
		log:           log,
	}
}

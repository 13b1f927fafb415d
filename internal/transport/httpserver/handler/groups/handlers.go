package groups

import (
	"time"

	groupdomain "expensezen/internal/domain/group"
	ledgerdomain "expensezen/internal/domain/ledger"
	userdomain "expensezen/internal/domain/user"
	"expensezen/internal/realtime"
	"expensezen/pkg/logger"
)

type Handlers struct {
	Groups    *groupdomain.Service
	Ledger    *ledgerdomain.Coordinator
	Users     *userdomain.Service
	Hub       *realtime.Hub
	keepAlive time.Duration
	log       logger.Logger
}

func New(groups *groupdomain.Service, coordinator *ledgerdomain.Coordinator, users *userdomain.Service, hub *realtime.Hub, keepAlive time.Duration, log logger.Logger) *Handlers {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &Handlers{
		Groups:    groups,
		Ledger:    coordinator,
		Users:     users,
		Hub:       hub,
		keepAlive: keepAlive,
		log:       log,
	}
}

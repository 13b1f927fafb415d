package ledger

import (
	budgetdomain "expensezen/internal/domain/budget"
	goaldomain "expensezen/internal/domain/goal"
	ledgerdomain "expensezen/internal/domain/ledger"
	"expensezen/pkg/logger"
)

// Handlers serve budgets, goals and the wallet. Writes that touch more
// than one aggregate go through the coordinator.
type Handlers struct {
	Budgets *budgetdomain.Service
	Goals   *goaldomain.Service
	Ledger  *ledgerdomain.Coordinator
	log     logger.Logger
}

func New(budgets *budgetdomain.Service, goals *goaldomain.Service, coordinator *ledgerdomain.Coordinator, log logger.Logger) *Handlers {
	return &Handlers{
		Budgets: budgets,
		Goals:   goals,
		Ledger:  coordinator,
		log:     log,
	}
}

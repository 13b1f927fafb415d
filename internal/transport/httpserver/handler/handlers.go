package handler

import (
	"expensezen/internal/transport/httpserver/handler/common"
	"expensezen/internal/transport/httpserver/handler/groups"
	"expensezen/internal/transport/httpserver/handler/insights"
	"expensezen/internal/transport/httpserver/handler/ledger"
)

type Handlers struct {
	Common   *common.Handlers
	Ledger   *ledger.Handlers
	Groups   *groups.Handlers
	Insights *insights.Handlers
}

func New(commonHandlers *common.Handlers, ledgerHandlers *ledger.Handlers, groupHandlers *groups.Handlers, insightHandlers *insights.Handlers) *Handlers {
	return &Handlers{
		Common:   commonHandlers,
		Ledger:   ledgerHandlers,
		Groups:   groupHandlers,
		Insights: insightHandlers,
	}
}

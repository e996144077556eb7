package retrieval

import (
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/strategy"
)

// Monitor provides hooks to observe the routing process.
// Implement this interface to trace intermediate steps during a query.
type Monitor interface {
	Start(req Request)
	Classified(i intent.Intent, fallback bool)
	StrategySelected(s strategy.Strategy)
	AfterSearch(returned, kept int)
	Truncated(stored, retrieved int)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Request)                         {}
func (n *noopMonitor) Classified(_ intent.Intent, _ bool)      {}
func (n *noopMonitor) StrategySelected(_ strategy.Strategy)    {}
func (n *noopMonitor) AfterSearch(_, _ int)                    {}
func (n *noopMonitor) Truncated(_, _ int)                      {}
func (n *noopMonitor) Finish(_ *Result)                        {}

package observability

import (
	"log/slog"

	"github.com/aretw0/archiscript/pkg/proxy"
)

// LogHooks returns proxy hooks that write one record per event.
// Searches are logged at debug, mutations at info, failures at warn.
func LogHooks(logger *slog.Logger) proxy.Hooks {
	return proxy.Hooks{
		OnFind: func(e *proxy.FindEvent) {
			logger.Debug("find",
				"selector", e.Selector,
				"scope", e.ScopeID,
				"matches", e.Matches,
				"elapsed", e.Elapsed,
			)
		},
		OnDelete: func(e *proxy.DeleteEvent) {
			if e.Err != nil {
				logger.Warn("delete failed", "node_id", e.ID, "kind", e.Kind.String(), "err", e.Err)
				return
			}
			logger.Info("delete", "node_id", e.ID, "kind", e.Kind.String(), "removed", e.Removed)
		},
		OnAttrSet: func(e *proxy.AttrEvent) {
			if e.Err != nil {
				logger.Warn("set attribute failed", "node_id", e.ID, "key", e.Key, "err", e.Err)
				return
			}
			logger.Info("set attribute", "node_id", e.ID, "key", e.Key)
		},
	}
}

package events

import "github.com/atomicstack/menutrack/internal/logging"

type TrackingTracer struct{}

var Tracking = TrackingTracer{}

func (TrackingTracer) Open(session, menuID string, depth int, sticky bool) {
	logging.Trace("tracking.open", map[string]interface{}{
		"session": session,
		"menu":    menuID,
		"depth":   depth,
		"sticky":  sticky,
	})
}

func (TrackingTracer) Highlight(session, menuID string, index int) {
	logging.Trace("tracking.highlight", map[string]interface{}{"session": session, "menu": menuID, "index": index})
}

func (TrackingTracer) Submenu(session, menuID string, opened bool) {
	logging.Trace("tracking.submenu", map[string]interface{}{"session": session, "menu": menuID, "opened": opened})
}

func (TrackingTracer) Sticky(session string, sticky bool, reason string) {
	logging.Trace("tracking.sticky", map[string]interface{}{"session": session, "sticky": sticky, "reason": reason})
}

func (TrackingTracer) Key(session, key, nav string) {
	logging.Trace("tracking.key", map[string]interface{}{"session": session, "key": key, "nav": nav})
}

func (TrackingTracer) Close(session, menuID, outcome, itemID string) {
	logging.Trace("tracking.close", map[string]interface{}{
		"session": session,
		"menu":    menuID,
		"outcome": outcome,
		"item":    itemID,
	})
}

func (TrackingTracer) Panic(session string, recovered interface{}) {
	logging.Trace("tracking.panic", map[string]interface{}{"session": session, "panic": recovered})
}

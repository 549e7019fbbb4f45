package events

import "github.com/atomicstack/menutrack/internal/logging"

type OverlayTracer struct{}

var Overlay = OverlayTracer{}

func (OverlayTracer) Open(menuID string, x, y, w, h, limit int) {
	logging.Trace("overlay.open", map[string]interface{}{
		"menu":  menuID,
		"frame": []int{x, y, w, h},
		"limit": limit,
	})
}

func (OverlayTracer) Close(menuID string, remaining int) {
	logging.Trace("overlay.close", map[string]interface{}{"menu": menuID, "remaining": remaining})
}

func (OverlayTracer) Scroll(menuID string, offset, limit int) {
	logging.Trace("overlay.scroll", map[string]interface{}{"menu": menuID, "offset": offset, "limit": limit})
}

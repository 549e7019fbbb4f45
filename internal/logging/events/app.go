package events

import "github.com/atomicstack/menutrack/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Tuning(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.tuning", payload)
}

func (AppTracer) Stop(running int) {
	logging.Trace("app.stop", map[string]interface{}{"running": running})
}

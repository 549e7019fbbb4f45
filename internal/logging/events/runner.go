package events

import "github.com/atomicstack/menutrack/internal/logging"

type RunnerTracer struct{}

// RunnerReason explains why a tracking request was dropped.
type RunnerReason string

const (
	RunnerReasonBusy      RunnerReason = "busy"
	RunnerReasonExhausted RunnerReason = "exhausted"
	RunnerReasonRejected  RunnerReason = "rejected"
)

var Runner = RunnerTracer{}

func (RunnerTracer) Start(menuID, mode string) {
	logging.Trace("runner.start", map[string]interface{}{"menu": menuID, "mode": mode})
}

func (RunnerTracer) Drop(menuID string, reason RunnerReason) {
	logging.Trace("runner.drop", map[string]interface{}{"menu": menuID, "reason": string(reason)})
}

func (RunnerTracer) Exit(menuID, outcome string) {
	logging.Trace("runner.exit", map[string]interface{}{"menu": menuID, "outcome": outcome})
}

func (RunnerTracer) Cancel(menuID string) {
	logging.Trace("runner.cancel", map[string]interface{}{"menu": menuID})
}

func (RunnerTracer) Deliver(menuID, itemID string) {
	logging.Trace("runner.deliver", map[string]interface{}{"menu": menuID, "item": itemID})
}

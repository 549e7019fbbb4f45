package events

import "github.com/atomicstack/menutrack/internal/logging"

type UITracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Mouse(x, y int, buttons uint8, action string) {
	logging.Trace("ui.mouse", map[string]interface{}{"x": x, "y": y, "buttons": buttons, "action": action})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) Shortcut(key, itemID string) {
	logging.Trace("ui.shortcut", map[string]interface{}{"key": key, "item": itemID})
}

func (UITracer) Activate(menuID, itemID, via string) {
	logging.Trace("ui.activate", map[string]interface{}{"menu": menuID, "item": itemID, "via": via})
}

func (UITracer) Invoked(itemID string) {
	logging.Trace("ui.invoked", map[string]interface{}{"item": itemID})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

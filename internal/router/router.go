// Package router dispatches captured MIDI events through the action map.
package router

import (
	"context"

	"github.com/midivolt/nanokontrol/internal/action"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// Reloader rebuilds the action map, typically by re-reading the config
// file against the current audio state.
type Reloader func() (map[byte]action.Action, error)

// Router consumes MIDI events and runs the mapped actions. When an action
// fails (a bound playback stream usually vanished), the map is rebuilt so
// mappings re-resolve against whatever is playing now.
type Router struct {
	actions map[byte]action.Action
	reload  Reloader
	logger  contracts.Logger
}

// New creates a router over an initial action map.
func New(actions map[byte]action.Action, reload Reloader, logger contracts.Logger) *Router {
	return &Router{actions: actions, reload: reload, logger: logger}
}

// Run dispatches events until the context is canceled or the event channel
// is closed.
func (r *Router) Run(ctx context.Context, events <-chan contracts.MIDI) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			r.handle(event)
		}
	}
}

func (r *Router) handle(event contracts.MIDI) {
	if event.Command != byte(contracts.ControlChange) {
		r.logger.Debug("ignoring non control-change event",
			r.logger.Field().Uint8("command", event.Command))
		return
	}

	r.logger.Debug("control change",
		r.logger.Field().Uint8("control", event.Control),
		r.logger.Field().Uint8("value", event.Value))

	act, ok := r.actions[event.Control]
	if !ok {
		return
	}

	if err := act.Do(event.Control, event.Value); err != nil {
		r.logger.Warn("action failed; rebuilding action map",
			r.logger.Field().Uint8("control", event.Control),
			r.logger.Field().Error("error", err))
		r.rebuild()
	}
}

func (r *Router) rebuild() {
	if r.reload == nil {
		return
	}
	actions, err := r.reload()
	if err != nil {
		r.logger.Error("failed to rebuild action map", r.logger.Field().Error("error", err))
		return
	}
	r.actions = actions
}

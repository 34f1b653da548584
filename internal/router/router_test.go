package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivolt/nanokontrol/internal/action"
	"github.com/midivolt/nanokontrol/internal/logger"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

type recordingAction struct {
	calls []byte
	err   error
}

func (r *recordingAction) Do(control, value byte) error {
	r.calls = append(r.calls, value)
	return r.err
}

func runEvents(t *testing.T, r *Router, events ...contracts.MIDI) {
	t.Helper()

	ch := make(chan contracts.MIDI, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)

	require.NoError(t, r.Run(context.Background(), ch))
}

func TestRunDispatchesControlChanges(t *testing.T) {
	t.Parallel()

	act := &recordingAction{}
	r := New(map[byte]action.Action{41: act}, nil, logger.NewNopLogger())

	runEvents(t, r,
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 41, Value: 127},
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 41, Value: 0},
	)

	assert.Equal(t, []byte{127, 0}, act.calls)
}

func TestRunIgnoresOtherCommands(t *testing.T) {
	t.Parallel()

	act := &recordingAction{}
	r := New(map[byte]action.Action{41: act}, nil, logger.NewNopLogger())

	runEvents(t, r,
		contracts.MIDI{Command: byte(contracts.NoteOn), Control: 41, Value: 127},
	)

	assert.Empty(t, act.calls)
}

func TestRunIgnoresUnmappedControls(t *testing.T) {
	t.Parallel()

	act := &recordingAction{}
	r := New(map[byte]action.Action{41: act}, nil, logger.NewNopLogger())

	runEvents(t, r,
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 99, Value: 127},
	)

	assert.Empty(t, act.calls)
}

func TestRunRebuildsActionMapOnFailure(t *testing.T) {
	t.Parallel()

	failing := &recordingAction{err: assert.AnError}
	replacement := &recordingAction{}
	reloads := 0
	reload := func() (map[byte]action.Action, error) {
		reloads++
		return map[byte]action.Action{41: replacement}, nil
	}

	r := New(map[byte]action.Action{41: failing}, reload, logger.NewNopLogger())

	runEvents(t, r,
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 41, Value: 64},
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 41, Value: 65},
	)

	assert.Equal(t, 1, reloads)
	assert.Equal(t, []byte{64}, failing.calls)
	assert.Equal(t, []byte{65}, replacement.calls)
}

func TestRunReloadFailureKeepsOldMap(t *testing.T) {
	t.Parallel()

	failing := &recordingAction{err: assert.AnError}
	reload := func() (map[byte]action.Action, error) {
		return nil, assert.AnError
	}

	r := New(map[byte]action.Action{41: failing}, reload, logger.NewNopLogger())

	runEvents(t, r,
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 41, Value: 64},
		contracts.MIDI{Command: byte(contracts.ControlChange), Control: 41, Value: 65},
	)

	assert.Equal(t, []byte{64, 65}, failing.calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := New(nil, nil, logger.NewNopLogger())

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, make(chan contracts.MIDI))
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("router did not stop on context cancel")
	}
}

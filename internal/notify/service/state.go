package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var ErrInvalidTransition = errors.New("invalid dispatch state transition")

// State is the progress of one event through the dispatch pipeline.
type State string

const (
	StateReceived     State = "RECEIVED"
	StateGuardChecked State = "GUARD_CHECKED"
	StateResolved     State = "RESOLVED"
	StateFiltered     State = "FILTERED"
	StateRendered     State = "RENDERED"
	StateSent         State = "SENT"
	StateRecorded     State = "RECORDED"
	StateSkipped      State = "SKIPPED"
	StateFailed       State = "FAILED"
)

// pipeline is the happy path in order.
var pipeline = []State{
	StateReceived,
	StateGuardChecked,
	StateResolved,
	StateFiltered,
	StateRendered,
	StateSent,
	StateRecorded,
}

// transitions lists the legal next states. FILTERED and RENDERED may jump to
// RECORDED when nothing is left to deliver.
var transitions = map[State][]State{
	StateReceived:     {StateGuardChecked},
	StateGuardChecked: {StateResolved, StateSkipped, StateFailed},
	StateResolved:     {StateFiltered, StateFailed},
	StateFiltered:     {StateRendered, StateRecorded, StateFailed},
	StateRendered:     {StateSent, StateRecorded, StateFailed},
	StateSent:         {StateRecorded, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

func canTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}

// run tracks one event. Methods panic on an illegal transition; the dispatch
// boundary recovers and reports the event as failed.
type run struct {
	log   *slog.Logger
	state State
}

func newRun(log *slog.Logger) *run {
	return &run{log: log, state: StateReceived}
}

func (r *run) to(next State) {
	if !canTransition(r.state, next) {
		panic(fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, next))
	}
	r.log.Debug("dispatch transition", slog.String("from", string(r.state)), slog.String("to", string(next)))
	r.state = next
}

// reach advances along the pipeline until target, doing nothing if the run
// is already there or further. Fan-out events use it so the event state is
// the furthest stage any recipient got to.
func (r *run) reach(target State) {
	cur := slices.Index(pipeline, r.state)
	want := slices.Index(pipeline, target)
	for i := cur + 1; cur >= 0 && i <= want; i++ {
		r.to(pipeline[i])
	}
}

// fail moves the run to FAILED. It never panics, so it is safe in deferred
// recovery.
func (r *run) fail() {
	if r.state.Terminal() {
		return
	}
	if !canTransition(r.state, StateFailed) {
		r.log.Warn("dispatch transition forced",
			slog.String("from", string(r.state)), slog.String("to", string(StateFailed)))
	} else {
		r.log.Debug("dispatch transition",
			slog.String("from", string(r.state)), slog.String("to", string(StateFailed)))
	}
	r.state = StateFailed
}

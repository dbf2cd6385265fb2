// Package clock provides the timing primitives of a round.
//
// Scheduler is a delayed task queue: After runs a function once after a
// delay and Every runs it on a fixed cadence. Both return a Timer that can be
// stopped. RealScheduler is backed by the time package, ManualScheduler is
// driven by Advance and is used by tests to step through match delays,
// autosaves and countdown ticks deterministically.
//
// Countdown is the round's whole-second down-counter.
package clock

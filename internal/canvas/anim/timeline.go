// Package anim drives time-based tweens from a single frame loop.
//
// Timelines group tweens that start together, mirroring how the canvas
// choreographs a background and its titles in parallel. A Player advances
// every active timeline once per frame and resolves each timeline's Task when
// its last tween settles.
package anim

import (
	"time"

	"github.com/tanema/gween"
)

// track is one tween on a timeline. Its curve is sampled from a gween tween
// at the timeline's elapsed time.
type track struct {
	target   *float32
	from     float32
	to       float32
	fromSet  bool
	delay    time.Duration
	duration time.Duration
	ease     Ease
	yoyo     bool
	killed   bool
	tween    *gween.Tween
}

func (tr *track) span() time.Duration {
	if tr.yoyo {
		return tr.delay + 2*tr.duration
	}
	return tr.delay + tr.duration
}

func (tr *track) apply(elapsed time.Duration) {
	if tr.killed || elapsed < tr.delay {
		return
	}
	if tr.duration <= 0 {
		*tr.target = tr.to
		return
	}
	if tr.tween == nil {
		tr.tween = gween.New(tr.from, tr.to, float32(tr.duration.Seconds()), tr.ease)
	}
	local := elapsed - tr.delay
	if tr.yoyo && local > tr.duration {
		local = 2*tr.duration - local
	}
	*tr.target, _ = tr.tween.Set(float32(local.Seconds()))
}

// TweenOption customizes a single tween.
type TweenOption func(*track)

// WithEase sets the easing curve. Tweens default to Linear.
func WithEase(e Ease) TweenOption {
	return func(tr *track) {
		if e != nil {
			tr.ease = e
		}
	}
}

// WithDelay offsets the tween from the timeline start.
func WithDelay(d time.Duration) TweenOption {
	return func(tr *track) {
		tr.delay = d
	}
}

// Yoyo plays the tween forward then back once.
func Yoyo() TweenOption {
	return func(tr *track) {
		tr.yoyo = true
	}
}

// Timeline is a set of tweens sharing a start time, with callbacks run once
// every tween has finished.
type Timeline struct {
	tracks  []*track
	calls   []func()
	elapsed time.Duration
	task    *Task
	started bool
}

// NewTimeline returns an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{task: NewTask()}
}

// FromTo tweens target from `from` to `to`. The start value is written
// immediately.
func (tl *Timeline) FromTo(target *float32, d time.Duration, from, to float32, opts ...TweenOption) *Timeline {
	if target == nil {
		return tl
	}
	tr := &track{target: target, from: from, to: to, fromSet: true, duration: d, ease: Linear}
	for _, opt := range opts {
		opt(tr)
	}
	if tr.delay == 0 {
		*target = from
	}
	tl.tracks = append(tl.tracks, tr)
	return tl
}

// To tweens target from its value when the timeline starts playing.
func (tl *Timeline) To(target *float32, d time.Duration, to float32, opts ...TweenOption) *Timeline {
	if target == nil {
		return tl
	}
	tr := &track{target: target, to: to, duration: d, ease: Linear}
	for _, opt := range opts {
		opt(tr)
	}
	tl.tracks = append(tl.tracks, tr)
	return tl
}

// Call registers fn to run after every tween completes.
func (tl *Timeline) Call(fn func()) *Timeline {
	if fn != nil {
		tl.calls = append(tl.calls, fn)
	}
	return tl
}

// Duration is the time at which the last live tween settles. Killed tweens
// do not count.
func (tl *Timeline) Duration() time.Duration {
	var total time.Duration
	for _, tr := range tl.tracks {
		if tr.killed {
			continue
		}
		if span := tr.span(); span > total {
			total = span
		}
	}
	return total
}

// Task resolves when the timeline completes.
func (tl *Timeline) Task() *Task {
	return tl.task
}

// Done reports whether the timeline has completed.
func (tl *Timeline) Done() bool {
	return tl.task.Done()
}

func (tl *Timeline) start() {
	if tl.started {
		return
	}
	tl.started = true
	for _, tr := range tl.tracks {
		if !tr.fromSet {
			tr.from = *tr.target
			tr.fromSet = true
		}
	}
}

// advance moves the timeline forward and reports whether it finished.
func (tl *Timeline) advance(dt time.Duration) bool {
	if tl.task.Done() {
		return true
	}
	tl.start()
	tl.elapsed += dt
	for _, tr := range tl.tracks {
		tr.apply(tl.elapsed)
	}
	if tl.elapsed < tl.Duration() {
		return false
	}
	calls := tl.calls
	tl.calls = nil
	for _, fn := range calls {
		fn()
	}
	tl.task.Resolve()
	return true
}

func (tl *Timeline) kill(target *float32) {
	for _, tr := range tl.tracks {
		if tr.target == target {
			tr.killed = true
		}
	}
}

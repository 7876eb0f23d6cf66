package anim

import (
	"testing"
	"time"

	"cogentcore.org/core/math32"
)

const frame = time.Second / 60

func advanceFor(p *Player, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		p.Advance(frame)
	}
}

func TestTimelineFromToSettlesOnTarget(t *testing.T) {
	t.Parallel()

	var value float32 = 42
	p := NewPlayer()
	tl := NewTimeline().FromTo(&value, time.Second, 0, 10, WithEase(Power3InOut))
	if value != 0 {
		t.Fatalf("from value not applied immediately: %v", value)
	}
	task := p.Play(tl)
	advanceFor(p, 500*time.Millisecond)
	if task.Done() {
		t.Fatal("task completed before duration elapsed")
	}
	if value <= 0 || value >= 10 {
		t.Fatalf("mid value = %v, want within (0, 10)", value)
	}
	advanceFor(p, 600*time.Millisecond)
	if !task.Done() {
		t.Fatal("task not completed after duration")
	}
	if value != 10 {
		t.Fatalf("final value = %v, want 10", value)
	}
	if p.Active() != 0 {
		t.Fatalf("active timelines = %d, want 0", p.Active())
	}
}

func TestTimelineToCapturesStartValue(t *testing.T) {
	t.Parallel()

	var value float32 = 4
	p := NewPlayer()
	task := p.Play(NewTimeline().To(&value, 100*time.Millisecond, 8))
	advanceFor(p, 200*time.Millisecond)
	if !task.Done() || value != 8 {
		t.Fatalf("value = %v done = %t, want 8 and done", value, task.Done())
	}
}

func TestYoyoReturnsToStart(t *testing.T) {
	t.Parallel()

	var value float32
	peak := float32(0)
	p := NewPlayer()
	task := p.Play(NewTimeline().FromTo(&value, 750*time.Millisecond, 0, 3, Yoyo(), WithEase(Power3InOut)))
	for !task.Done() {
		p.Advance(frame)
		if value > peak {
			peak = value
		}
	}
	if math32.Abs(peak-3) > 0.05 {
		t.Fatalf("peak = %v, want about 3", peak)
	}
	if value != 0 {
		t.Fatalf("final = %v, want 0", value)
	}
}

func TestCallsRunBeforeTaskResolves(t *testing.T) {
	t.Parallel()

	var order []string
	var value float32
	p := NewPlayer()
	tl := NewTimeline().FromTo(&value, frame, 0, 1).Call(func() { order = append(order, "call") })
	tl.Task().Then(func() { order = append(order, "then") })
	p.Play(tl)
	p.Advance(frame)
	if len(order) != 2 || order[0] != "call" || order[1] != "then" {
		t.Fatalf("order = %v, want [call then]", order)
	}
}

func TestKillStopsTweensOfTarget(t *testing.T) {
	t.Parallel()

	var a, b float32
	p := NewPlayer()
	p.Play(NewTimeline().FromTo(&a, time.Second, 0, 1).FromTo(&b, time.Second, 0, 1))
	p.Advance(frame)
	p.Kill(&a)
	frozen := a
	advanceFor(p, 2*time.Second)
	if a != frozen {
		t.Fatalf("killed target moved: %v -> %v", frozen, a)
	}
	if b != 1 {
		t.Fatalf("live target = %v, want 1", b)
	}
}

func TestKillingEveryTweenCompletesTimeline(t *testing.T) {
	t.Parallel()

	var a float32
	p := NewPlayer()
	tl := NewTimeline().FromTo(&a, time.Second, 0, 1)
	task := p.Play(tl)
	p.Advance(frame)
	p.Kill(&a)
	if tl.Duration() != 0 {
		t.Fatalf("Duration() = %v, want 0 after kill", tl.Duration())
	}
	p.Advance(frame)
	if !task.Done() || p.Active() != 0 {
		t.Fatalf("done = %t, active = %d, want completed on the next advance", task.Done(), p.Active())
	}
}

func TestJoinWaitsForEveryTask(t *testing.T) {
	t.Parallel()

	first, second := NewTask(), NewTask()
	joined := Join(first, second, Resolved())
	first.Resolve()
	if joined.Done() {
		t.Fatal("join resolved before all tasks")
	}
	second.Resolve()
	if !joined.Done() {
		t.Fatal("join not resolved after all tasks")
	}
	if !Join().Done() {
		t.Fatal("empty join should be resolved")
	}
}

func TestSequenceRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	var order []int
	gate := NewTask()
	result := Sequence(
		func() *Task { order = append(order, 1); return gate },
		func() *Task { order = append(order, 2); return Resolved() },
	)
	if len(order) != 1 || result.Done() {
		t.Fatalf("order = %v done = %t, want [1] pending", order, result.Done())
	}
	gate.Resolve()
	if len(order) != 2 || !result.Done() {
		t.Fatalf("order = %v done = %t, want [1 2] done", order, result.Done())
	}
}

func TestTaskDropAndWait(t *testing.T) {
	t.Parallel()

	task := NewTask()
	task.Drop()
	task.Resolve()
	if !task.Dropped() {
		t.Fatal("expected dropped task")
	}
	select {
	case <-task.Wait():
	default:
		t.Fatal("wait channel not closed")
	}
}

func TestDebouncerFiresOnceAfterQuietPeriod(t *testing.T) {
	t.Parallel()

	calls := 0
	d := NewDebouncer(200*time.Millisecond, func() { calls++ })
	d.Trigger()
	d.Advance(150 * time.Millisecond)
	d.Trigger()
	d.Advance(150 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("calls = %d before quiet period, want 0", calls)
	}
	d.Advance(60 * time.Millisecond)
	d.Advance(time.Second)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEasesAreAnchored(t *testing.T) {
	t.Parallel()

	for name, ease := range map[string]Ease{
		"linear":      Linear,
		"power3inout": Power3InOut,
		"power4out":   Power4Out,
		"expoout":     ExpoOut,
	} {
		if got := ease(0, 0, 1, 1); math32.Abs(got) > 1e-3 {
			t.Fatalf("%s(0) = %v, want 0", name, got)
		}
		if got := ease(1, 0, 1, 1); math32.Abs(got-1) > 1e-3 {
			t.Fatalf("%s(1) = %v, want 1", name, got)
		}
	}
}

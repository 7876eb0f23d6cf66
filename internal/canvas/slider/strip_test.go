package slider

import (
	"testing"

	"github.com/louisbranch/showcase/internal/canvas/overlay"
)

func TestStripRecyclesButtonsLeaving(t *testing.T) {
	t.Parallel()

	rec := overlay.NewRecorder()
	buttons := []Button{{Offset: 0, Width: 100}, {Offset: 100, Width: 100}, {Offset: 200, Width: 100}}
	s := New(0, 300, buttons, false, rec)

	for s.Current() < 120 {
		s.Update()
	}
	if got := s.ButtonPosition(0); got != 300 {
		t.Fatalf("first button position = %v, want 300", got)
	}
	if got := s.ButtonPosition(2); got != 0 {
		t.Fatalf("last button position = %v, want 0", got)
	}
	if got := rec.StripOffset(0); got != -s.Current() {
		t.Fatalf("strip offset = %v, want %v", got, -s.Current())
	}
	if got := rec.StripButton(0, 0); got != 300 {
		t.Fatalf("recorded button = %v, want 300", got)
	}
}

func TestStripRightMovesBackward(t *testing.T) {
	t.Parallel()

	s := New(1, 300, []Button{{Offset: 250, Width: 100}}, false, nil)
	s.Right()
	if s.Direction() != Right {
		t.Fatalf("direction = %v, want right", s.Direction())
	}
	s.Update()
	if s.Current() >= 0 {
		t.Fatalf("current = %v, want negative", s.Current())
	}
	if got := s.ButtonPosition(0); got != -300 {
		t.Fatalf("button position = %v, want -300", got)
	}
}

func TestStripHoldAndPhoneSpeed(t *testing.T) {
	t.Parallel()

	s := New(0, 300, nil, true, nil)
	s.Update()
	if got := s.Current(); got != 0.1 {
		t.Fatalf("phone first step = %v, want 0.1", got)
	}
	s.Hold(true)
	before := s.Current()
	s.Update()
	if s.Current() <= before {
		t.Fatal("held strip should still settle toward target")
	}
	s.Resize(200, nil)
	if s.Current() != 0 {
		t.Fatalf("current after resize = %v, want 0", s.Current())
	}
}

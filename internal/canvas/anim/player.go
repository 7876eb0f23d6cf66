package anim

import "time"

// Player advances active timelines. It is owned by the frame loop and is not
// safe for concurrent use.
type Player struct {
	timelines []*Timeline
	time      time.Duration
}

// NewPlayer returns an idle player.
func NewPlayer() *Player {
	return &Player{}
}

// Play starts tl on the next Advance and returns its completion task.
func (p *Player) Play(tl *Timeline) *Task {
	if tl == nil {
		return Resolved()
	}
	tl.start()
	p.timelines = append(p.timelines, tl)
	return tl.task
}

// Advance moves every active timeline forward by dt. Timelines started by
// completion callbacks begin on the following frame.
func (p *Player) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	p.time += dt
	active := p.timelines
	p.timelines = nil
	var kept []*Timeline
	for _, tl := range active {
		if !tl.advance(dt) {
			kept = append(kept, tl)
		}
	}
	p.timelines = append(kept, p.timelines...)
}

// Kill stops every tween writing to target. Timelines left without live
// tweens complete on the next Advance.
func (p *Player) Kill(target *float32) {
	for _, tl := range p.timelines {
		tl.kill(target)
	}
}

// Active returns the number of running timelines.
func (p *Player) Active() int {
	return len(p.timelines)
}

// Elapsed is the total time advanced since the player was created.
func (p *Player) Elapsed() time.Duration {
	return p.time
}

package anim

// Task is a single-completion future. Callbacks registered with Then run on
// the goroutine that resolves the task, which is the frame loop.
type Task struct {
	done    bool
	dropped bool
	then    []func()
	ch      chan struct{}
}

// NewTask returns a pending task.
func NewTask() *Task {
	return &Task{ch: make(chan struct{})}
}

// Resolved returns an already completed task.
func Resolved() *Task {
	t := NewTask()
	t.Resolve()
	return t
}

// Resolve completes the task. Later calls are no-ops.
func (t *Task) Resolve() {
	if t == nil || t.done {
		return
	}
	t.done = true
	close(t.ch)
	callbacks := t.then
	t.then = nil
	for _, fn := range callbacks {
		fn()
	}
}

// Drop completes the task without the work having run.
func (t *Task) Drop() {
	if t == nil || t.done {
		return
	}
	t.dropped = true
	t.Resolve()
}

// Done reports whether the task has completed.
func (t *Task) Done() bool {
	return t == nil || t.done
}

// Dropped reports whether the task was completed by Drop.
func (t *Task) Dropped() bool {
	return t != nil && t.dropped
}

// Wait returns a channel closed on completion.
func (t *Task) Wait() <-chan struct{} {
	if t == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return t.ch
}

// Then registers fn to run on completion, immediately if already done.
func (t *Task) Then(fn func()) *Task {
	if fn == nil {
		return t
	}
	if t.Done() {
		fn()
		return t
	}
	t.then = append(t.then, fn)
	return t
}

// Join returns a task that completes once every given task has completed.
func Join(tasks ...*Task) *Task {
	joined := NewTask()
	pending := 0
	for _, task := range tasks {
		if !task.Done() {
			pending++
		}
	}
	if pending == 0 {
		joined.Resolve()
		return joined
	}
	for _, task := range tasks {
		if task.Done() {
			continue
		}
		task.Then(func() {
			pending--
			if pending == 0 {
				joined.Resolve()
			}
		})
	}
	return joined
}

// Sequence runs each step after the previous step's task completes and
// resolves once the last one does.
func Sequence(steps ...func() *Task) *Task {
	result := NewTask()
	var run func(int)
	run = func(i int) {
		if i == len(steps) {
			result.Resolve()
			return
		}
		next := steps[i]()
		next.Then(func() { run(i + 1) })
	}
	run(0)
	return result
}

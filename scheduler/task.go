package scheduler

import (
	"context"

	"go.uber.org/zap"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/internal/slot"
)

// TaskID identifies a spawned task in the task table.
type TaskID = slot.Key

// Task is a background computation owned by a scope. Tasks may outlive a
// single render; they are cancelled when their scope is removed.
type Task struct {
	ID     TaskID
	Scope  uiruntime.ScopeID
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed when the task's goroutine has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Spawn runs fn on its own goroutine under a cancellable context and records
// the task against the owning scope. When fn returns, the task removes itself
// and announces completion on the wake channel.
func (s *Scheduler) Spawn(scope uiruntime.ScopeID, fn func(ctx context.Context)) TaskID {
	ctx, cancel := context.WithCancel(context.Background())

	t := &Task{
		Scope:  scope,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	t.ID = s.tasks.Insert(t)
	s.mu.Unlock()

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				Logger().Error("task panicked",
					zap.Uint32("scope", uint32(scope)),
					zap.Uint32("task", uint32(t.ID)),
					zap.Any("panic", r))
			}
			s.finishTask(t.ID)
		}()
		fn(ctx)
	}()

	return t.ID
}

// CancelTask cancels one task. Unknown identifiers are a no-op.
func (s *Scheduler) CancelTask(id TaskID) {
	s.mu.Lock()
	t, ok := s.tasks.Remove(id)
	s.mu.Unlock()
	if ok {
		t.cancel()
	}
}

// TaskCount returns the number of live tasks for a scope, or all tasks when
// scope is zero.
func (s *Scheduler) TaskCount(scope uiruntime.ScopeID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope == 0 {
		return s.tasks.Len()
	}
	n := 0
	s.tasks.Each(func(_ TaskID, t *Task) bool {
		if t.Scope == scope {
			n++
		}
		return true
	})
	return n
}

func (s *Scheduler) finishTask(id TaskID) {
	s.mu.Lock()
	_, ok := s.tasks.Remove(id)
	s.mu.Unlock()
	if ok {
		s.Sender().Send(Msg{Kind: MsgTaskDone, Task: id})
	}
}

package game

// HookQueue is an ordered list of self-expiring lifecycle callbacks.
// Run invokes the most recently added hook first and drops every hook
// that returns true. Hooks added during Run wait for the next Run.
type HookQueue struct {
	hooks []func() bool
}

// Add registers a hook.
func (q *HookQueue) Add(h func() bool) {
	q.hooks = append(q.hooks, h)
}

// Len returns the number of registered hooks.
func (q *HookQueue) Len() int {
	return len(q.hooks)
}

// Run executes the queue from last to first.
func (q *HookQueue) Run() {
	for i := len(q.hooks) - 1; i >= 0; i-- {
		if i >= len(q.hooks) {
			continue
		}
		if q.hooks[i]() && i < len(q.hooks) {
			q.hooks = append(q.hooks[:i], q.hooks[i+1:]...)
		}
	}
}

// Clear drops every hook.
func (q *HookQueue) Clear() {
	q.hooks = nil
}

// Hooks groups the five lifecycle queues of a match.
type Hooks struct {
	GameStart  HookQueue
	RoundStart HookQueue
	RoundEnd   HookQueue
	TurnStart  HookQueue
	TurnEnd    HookQueue
}

package game

import (
	"reflect"
	"testing"
)

func TestHookQueueRunsNewestFirst(t *testing.T) {
	var q HookQueue
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		q.Add(func() bool {
			order = append(order, i)
			return false
		})
	}
	q.Run()
	if !reflect.DeepEqual(order, []int{3, 2, 1}) {
		t.Errorf("expected reverse registration order, got %v", order)
	}
	if q.Len() != 3 {
		t.Errorf("hooks returning false stay registered, len %d", q.Len())
	}
}

func TestHookQueueDropsFinishedHooks(t *testing.T) {
	var q HookQueue
	runs := 0
	q.Add(func() bool { runs++; return runs >= 2 })
	q.Add(func() bool { return true })
	q.Run()
	if q.Len() != 1 {
		t.Fatalf("expected one surviving hook, got %d", q.Len())
	}
	q.Run()
	if q.Len() != 0 {
		t.Errorf("expected queue empty after second run, got %d", q.Len())
	}
}

func TestHookQueueDefersHooksAddedDuringRun(t *testing.T) {
	var q HookQueue
	added := false
	ranLate := 0
	q.Add(func() bool {
		if !added {
			added = true
			q.Add(func() bool { ranLate++; return true })
		}
		return true
	})
	q.Run()
	if ranLate != 0 {
		t.Fatal("hook added during Run must wait for the next Run")
	}
	if q.Len() != 1 {
		t.Fatalf("expected the late hook to be queued, len %d", q.Len())
	}
	q.Run()
	if ranLate != 1 || q.Len() != 0 {
		t.Errorf("late hook: ran=%d len=%d", ranLate, q.Len())
	}
}

func TestHookQueueClearDuringRun(t *testing.T) {
	var q HookQueue
	calls := 0
	q.Add(func() bool { calls++; return false })
	q.Add(func() bool { calls++; q.Clear(); return false })
	q.Run()
	if calls != 1 {
		t.Errorf("cleared hooks must not run, calls %d", calls)
	}
}

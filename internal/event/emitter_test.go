package event

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tessro/botshell/internal/logging"
)

type testEvent struct {
	Value int
}

func TestEmitter_OnEvent(t *testing.T) {
	var e Emitter[testEvent]

	var received []testEvent
	e.OnEvent(func(ev testEvent) {
		received = append(received, ev)
	})

	e.Emit(testEvent{Value: 42})

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Value != 42 {
		t.Errorf("expected value 42, got %d", received[0].Value)
	}
}

func TestEmitter_Order(t *testing.T) {
	var e Emitter[testEvent]

	var calls []int
	for i := range 3 {
		e.OnEvent(func(testEvent) { calls = append(calls, i) })
	}

	e.Emit(testEvent{})

	if len(calls) != 3 || calls[0] != 0 || calls[1] != 1 || calls[2] != 2 {
		t.Errorf("calls = %v, want [0 1 2]", calls)
	}
}

func TestEmitter_Remove(t *testing.T) {
	var e Emitter[testEvent]

	var count1, count2 int
	remove := e.OnEvent(func(testEvent) { count1++ })
	e.OnEvent(func(testEvent) { count2++ })

	e.Emit(testEvent{})
	remove()
	remove() // second call is a no-op
	e.Emit(testEvent{})

	if count1 != 1 {
		t.Errorf("removed handler called %d times, want 1", count1)
	}
	if count2 != 2 {
		t.Errorf("remaining handler called %d times, want 2", count2)
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}

func TestEmitter_EmitToNoHandlers(t *testing.T) {
	var e Emitter[testEvent]

	// Should not panic when emitting with no handlers
	e.Emit(testEvent{Value: 42})
}

func TestEmitter_PanickingHandlerIsolated(t *testing.T) {
	logging.SetupTest(io.Discard)

	var e Emitter[testEvent]

	var after bool
	e.OnEvent(func(testEvent) { panic("window gone") })
	e.OnEvent(func(testEvent) { after = true })

	e.Emit(testEvent{})

	if !after {
		t.Error("handler after a panicking handler was not called")
	}
}

func TestEmitter_RegisterDuringEmit(t *testing.T) {
	var e Emitter[testEvent]

	var calls int
	e.OnEvent(func(testEvent) {
		calls++
		e.OnEvent(func(testEvent) { calls++ })
	})

	e.Emit(testEvent{})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	calls = 0
	e.Emit(testEvent{})
	if calls != 2 {
		t.Errorf("expected 2 calls on second emit, got %d", calls)
	}
}

func TestEmitter_ConcurrentRegistrationAndEmission(t *testing.T) {
	var e Emitter[testEvent]

	var wg sync.WaitGroup
	var callCount atomic.Int32

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.OnEvent(func(testEvent) { callCount.Add(1) })
		}()
		go func(v int) {
			defer wg.Done()
			e.Emit(testEvent{Value: v})
		}(i)
	}

	wg.Wait()

	callCount.Store(0)
	e.Emit(testEvent{})
	if callCount.Load() != 50 {
		t.Errorf("expected 50 handler calls, got %d", callCount.Load())
	}
}

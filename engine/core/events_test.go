package core

import "testing"

type listener struct {
	calls int
	last  EventContext
	stop  bool
}

func (l *listener) onEvent(context EventContext) bool {
	l.calls++
	l.last = context
	return l.stop
}

func withEventSystem(t *testing.T) {
	t.Helper()
	if !EventSystemInitialize() {
		t.Fatal("event system already initialized")
	}
	t.Cleanup(func() { _ = EventSystemShutdown() })
}

func TestEventFireReachesListenersInOrder(t *testing.T) {
	withEventSystem(t)

	first := &listener{}
	second := &listener{}
	if !EventRegister(EVENT_CODE_RESIZED, first, first.onEvent) {
		t.Fatal("first registration failed")
	}
	if !EventRegister(EVENT_CODE_RESIZED, second, second.onEvent) {
		t.Fatal("second registration failed")
	}

	handled := EventFire(EventContext{
		Type: EVENT_CODE_RESIZED,
		Data: &SystemEvent{WindowWidth: 800, WindowHeight: 600},
	})
	if handled {
		t.Fatal("no listener claimed the event")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("calls = %d, %d; want 1, 1", first.calls, second.calls)
	}
	se, ok := second.last.Data.(*SystemEvent)
	if !ok || se.WindowWidth != 800 || se.WindowHeight != 600 {
		t.Fatalf("unexpected payload %#v", second.last.Data)
	}
}

func TestEventHandledStopsPropagation(t *testing.T) {
	withEventSystem(t)

	first := &listener{stop: true}
	second := &listener{}
	EventRegister(EVENT_CODE_BUTTON_PRESSED, first, first.onEvent)
	EventRegister(EVENT_CODE_BUTTON_PRESSED, second, second.onEvent)

	if !EventFire(EventContext{Type: EVENT_CODE_BUTTON_PRESSED}) {
		t.Fatal("expected the event to be handled")
	}
	if second.calls != 0 {
		t.Fatalf("second listener called %d times", second.calls)
	}
}

func TestEventRegisterRejectsDuplicates(t *testing.T) {
	withEventSystem(t)

	l := &listener{}
	if !EventRegister(EVENT_CODE_KEY_PRESSED, l, l.onEvent) {
		t.Fatal("registration failed")
	}
	if EventRegister(EVENT_CODE_KEY_PRESSED, l, l.onEvent) {
		t.Fatal("duplicate registration accepted")
	}
}

func TestEventUnregister(t *testing.T) {
	withEventSystem(t)

	a := &listener{}
	b := &listener{}
	EventRegister(EVENT_CODE_MOUSE_MOVED, a, a.onEvent)
	EventRegister(EVENT_CODE_MOUSE_MOVED, b, b.onEvent)

	if !EventUnregister(EVENT_CODE_MOUSE_MOVED, a) {
		t.Fatal("unregister failed")
	}
	if EventUnregister(EVENT_CODE_MOUSE_MOVED, a) {
		t.Fatal("second unregister should fail")
	}

	EventFire(EventContext{Type: EVENT_CODE_MOUSE_MOVED})
	if a.calls != 0 || b.calls != 1 {
		t.Fatalf("calls = %d, %d; want 0, 1", a.calls, b.calls)
	}
}

func TestEventFireWithoutSystem(t *testing.T) {
	if EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}) {
		t.Fatal("fire without an event system should not be handled")
	}
}

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(PhaseRender, KindTornDown).
		Scope("App").
		Detail("render after removal").
		Build()

	msg := err.Error()
	for _, want := range []string{"[render]", "torn_down", "App", "render after removal"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestErrorIs(t *testing.T) {
	err := TornDown(PhaseRender, "App")

	if !errors.Is(err, &Error{Phase: PhaseRender, Kind: KindTornDown}) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseTeardown, Kind: KindTornDown}) {
		t.Error("unexpected match on different phase")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(PhaseAsset, KindInvalidInput, cause, "read asset")

	if !errors.Is(err, cause) {
		t.Error("expected unwrap to reach cause")
	}
	if !strings.Contains(err.Error(), "caused by: disk full") {
		t.Errorf("cause missing from message: %q", err.Error())
	}
}

func TestHookOrderDetail(t *testing.T) {
	err := HookOrder("Counter", 3, 2)
	if err.Kind != KindHookOrder {
		t.Fatalf("wrong kind %q", err.Kind)
	}
	if !strings.Contains(err.Error(), "hook 3") {
		t.Errorf("detail missing hook index: %q", err.Error())
	}
}

func TestForbidden(t *testing.T) {
	err := Forbidden("../../etc/passwd")
	if err.Phase != PhaseAsset || err.Kind != KindForbidden {
		t.Fatalf("wrong classification: %v", err)
	}
}

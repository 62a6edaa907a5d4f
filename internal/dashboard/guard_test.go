package dashboard

import (
	"testing"
	"time"

	clocktesting "k8s.io/utils/clock/testing"
)

func TestGuardExclusion(t *testing.T) {
	fake := clocktesting.NewFakeClock(time.Now())
	g := NewGuard(fake, time.Second)

	pass, ok := g.Acquire()
	if !ok {
		t.Fatal("Expected the first Acquire to succeed")
	}
	if g.State() != Rendering {
		t.Errorf("Expected Rendering, got %s", g.State())
	}
	if _, ok := g.Acquire(); ok {
		t.Error("Expected Acquire to fail while rendering")
	}

	pass.Release()
	if g.State() != Idle {
		t.Errorf("Expected Idle after Release, got %s", g.State())
	}
	if fake.HasWaiters() {
		t.Error("Expected Release to cancel the safety timer")
	}
	if _, ok := g.Acquire(); !ok {
		t.Error("Expected Acquire to succeed after Release")
	}
}

func TestGuardSafetyTimeout(t *testing.T) {
	fake := clocktesting.NewFakeClock(time.Now())
	g := NewGuard(fake, 10*time.Second)

	stale, ok := g.Acquire()
	if !ok {
		t.Fatal("Expected Acquire to succeed")
	}

	fake.Step(9 * time.Second)
	if g.State() != Rendering {
		t.Fatal("Expected the guard to hold before the timeout")
	}
	fake.Step(time.Second)
	if g.State() != Idle {
		t.Fatal("Expected the timeout to force Idle")
	}

	fresh, ok := g.Acquire()
	if !ok {
		t.Fatal("Expected Acquire to succeed after the timeout")
	}
	stale.Release()
	if g.State() != Rendering {
		t.Error("Expected a stale Release to leave the newer pass rendering")
	}
	fresh.Release()
	if g.State() != Idle {
		t.Error("Expected the newer pass to release the guard")
	}
}

func TestGuardDefaultTimeout(t *testing.T) {
	g := NewGuard(nil, 0)
	if g.timeout != DefaultRenderTimeout {
		t.Errorf("Expected default timeout %s, got %s", DefaultRenderTimeout, g.timeout)
	}
	var zero Pass
	zero.Release()
}

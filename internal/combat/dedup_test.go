package combat_test

import (
	"testing"

	"github.com/jacl-coder/PixelStorm-Combat/internal/combat"
)

func TestBounceDedup_Window(t *testing.T) {
	d := combat.NewBounceDedup(0.25)
	h := combat.Handle{Index: 0, Generation: 1}

	if !d.TryTrigger(h, 1.0) {
		t.Fatal("first trigger should succeed")
	}
	if d.TryTrigger(h, 1.0) {
		t.Error("same-instant trigger should be suppressed")
	}
	if d.TryTrigger(h, 1.125) {
		t.Error("trigger inside the window should be suppressed")
	}
	if !d.TryTrigger(h, 1.25) {
		t.Error("trigger at the window boundary should succeed")
	}
}

func TestBounceDedup_IndependentTargets(t *testing.T) {
	d := combat.NewBounceDedup(0.15)
	a := combat.Handle{Index: 0, Generation: 1}
	b := combat.Handle{Index: 1, Generation: 1}

	if !d.TryTrigger(a, 0) || !d.TryTrigger(b, 0) {
		t.Fatal("distinct targets should not share a window")
	}

	// 重生后的目标句柄不同，不受旧记录影响
	respawned := combat.Handle{Index: 0, Generation: 2}
	if !d.TryTrigger(respawned, 0.05) {
		t.Error("respawned target was suppressed by its predecessor")
	}
}

func TestBounceDedup_PurgesStaleEntries(t *testing.T) {
	d := combat.NewBounceDedup(0.25)
	old := combat.Handle{Index: 0, Generation: 1}
	recent := combat.Handle{Index: 1, Generation: 1}

	d.TryTrigger(old, 0)
	d.TryTrigger(recent, 0.375)
	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (old entry is within 2x window)", d.Len())
	}

	fresh := combat.Handle{Index: 2, Generation: 1}
	d.TryTrigger(fresh, 1.0)
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1 after purge", d.Len())
	}
	if d.Window() != 0.25 {
		t.Errorf("Window = %v, want 0.25", d.Window())
	}
}

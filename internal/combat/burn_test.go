package combat_test

import (
	"testing"

	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"github.com/jacl-coder/PixelStorm-Combat/internal/combat"
	"github.com/jacl-coder/PixelStorm-Combat/internal/combat/mocks"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

var standardBurn = skill.BurnParams{
	DamagePerTick: 5,
	Duration:      3,
	TickInterval:  0.5,
	MaxStacks:     3,
}

// 间隔0.5、持续3秒，以dt=0.5推进，恰好结算6次
func TestBurnEffect_TicksOncePerInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := mocks.NewMockTarget(ctrl)
	target.EXPECT().IsActive().Return(true).AnyTimes()
	target.EXPECT().IsAlive().Return(true).AnyTimes()
	target.EXPECT().TakeDamage(5.0).Times(6)

	var e combat.BurnEffect
	if !e.AddStack(standardBurn, 0) {
		t.Fatal("AddStack rejected valid params")
	}

	now := 0.0
	for i := 0; i < 10; i++ {
		now += 0.5
		e.Tick(target, now)
	}

	if !e.Empty() {
		t.Errorf("StackCount = %d after expiry, want 0", e.StackCount())
	}
}

func TestBurnEffect_SmallStepsSameTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := mocks.NewMockTarget(ctrl)
	target.EXPECT().IsActive().Return(true).AnyTimes()
	target.EXPECT().IsAlive().Return(true).AnyTimes()
	target.EXPECT().TakeDamage(5.0).Times(6)

	var e combat.BurnEffect
	e.AddStack(standardBurn, 0)

	now := 0.0
	for i := 0; i < 40; i++ {
		now += 0.125
		e.Tick(target, now)
	}
}

// 时钟逐帧累加带来的误差不能吞掉最后一跳，也不能多出一跳
func TestBurnEffect_TickCountIndependentOfFrameLength(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"60Hz", 1.0 / 60},
		{"30Hz", 1.0 / 30},
		{"0.1s", 0.1},
		{"0.3s", 0.3},
		{"0.5s", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			target := mocks.NewMockTarget(ctrl)
			target.EXPECT().IsActive().Return(true).AnyTimes()
			target.EXPECT().IsAlive().Return(true).AnyTimes()
			target.EXPECT().TakeDamage(5.0).Times(6)

			var e combat.BurnEffect
			e.AddStack(standardBurn, 0)

			now := 0.0
			for now < 3.5 {
				now += tt.dt
				e.Tick(target, now)
			}

			if !e.Empty() {
				t.Errorf("StackCount = %d after expiry, want 0", e.StackCount())
			}
		})
	}
}

func TestBurnEffect_RefreshesOldestAtCap(t *testing.T) {
	var e combat.BurnEffect
	e.AddStack(standardBurn, 0)
	e.AddStack(standardBurn, 1)
	e.AddStack(standardBurn, 2)

	stronger := skill.BurnParams{DamagePerTick: 10, Duration: 9, TickInterval: 1, MaxStacks: 3}
	if !e.AddStack(stronger, 2.5) {
		t.Fatal("AddStack at cap should refresh, not fail")
	}

	if e.StackCount() != 3 {
		t.Fatalf("StackCount = %d, want 3", e.StackCount())
	}

	stacks := e.Stacks()
	oldest := stacks[0]
	if oldest.DamagePerTick != 10 || oldest.RemainingDuration != 9 || oldest.TickInterval != 1 {
		t.Errorf("oldest = %+v, want refreshed values", oldest)
	}
	if oldest.ExpiresAt != 11.5 {
		t.Errorf("oldest.ExpiresAt = %v, want 11.5", oldest.ExpiresAt)
	}
	if oldest.NextTickTime != 0.5 {
		t.Errorf("oldest.NextTickTime = %v, want unchanged 0.5", oldest.NextTickTime)
	}
	if stacks[1].DamagePerTick != 5 || stacks[2].DamagePerTick != 5 {
		t.Errorf("newer stacks changed: %+v", stacks[1:])
	}
}

func TestBurnEffect_RejectsInvalidParams(t *testing.T) {
	var e combat.BurnEffect

	zeroInterval := standardBurn
	zeroInterval.TickInterval = 0
	if e.AddStack(zeroInterval, 0) {
		t.Error("AddStack accepted zero tick interval")
	}

	noStacks := standardBurn
	noStacks.MaxStacks = 0
	if e.AddStack(noStacks, 0) {
		t.Error("AddStack accepted max stacks 0")
	}

	if !e.Empty() {
		t.Error("rejected stacks were stored")
	}
}

func TestBurnEffect_ClearsOnDeadTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := mocks.NewMockTarget(ctrl)
	target.EXPECT().IsActive().Return(true).AnyTimes()
	target.EXPECT().IsAlive().Return(false).AnyTimes()
	target.EXPECT().TakeDamage(gomock.Any()).Times(0)

	var e combat.BurnEffect
	e.AddStack(standardBurn, 0)
	e.Tick(target, 0.5)

	if !e.Empty() {
		t.Error("stacks survived a dead target")
	}
}

func TestBurnEffect_StopsWhenTargetDies(t *testing.T) {
	enemy := models.NewEnemyEntity("e1", models.EnemyStatic, models.Vector2D{}, 5)

	var e combat.BurnEffect
	e.AddStack(standardBurn, 0)
	e.AddStack(standardBurn, 0)
	e.Tick(enemy, 0.5)

	if enemy.IsAlive() {
		t.Fatal("enemy should have died from the first tick")
	}
	if enemy.Health != 0 {
		t.Errorf("Health = %v, want 0", enemy.Health)
	}
	if !e.Empty() {
		t.Error("stacks survived the target's death")
	}
}

func TestBurnEffect_NeverExceedsMaxStacks_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxStacks := rapid.IntRange(1, 5).Draw(t, "maxStacks")
		calls := rapid.IntRange(0, 40).Draw(t, "calls")

		var e combat.BurnEffect
		for i := 0; i < calls; i++ {
			p := skill.BurnParams{
				DamagePerTick: rapid.Float64Range(0.1, 20).Draw(t, "damage"),
				Duration:      rapid.Float64Range(0.1, 10).Draw(t, "duration"),
				TickInterval:  rapid.Float64Range(0.1, 2).Draw(t, "interval"),
				MaxStacks:     maxStacks,
			}
			before := e.StackCount()
			e.AddStack(p, float64(i))

			if e.StackCount() > maxStacks {
				t.Fatalf("StackCount = %d exceeds %d", e.StackCount(), maxStacks)
			}
			if before == maxStacks {
				oldest := e.Stacks()[0]
				if oldest.DamagePerTick != p.DamagePerTick || oldest.RemainingDuration != p.Duration {
					t.Fatalf("overflow did not refresh oldest stack: %+v vs %+v", oldest, p)
				}
			}
		}
	})
}

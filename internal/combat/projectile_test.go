package combat_test

import (
	"testing"

	"github.com/jacl-coder/PixelStorm-Combat/internal/combat"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

type fixedSnapshot skill.CombatModifierSnapshot

func (f fixedSnapshot) BuildSnapshot() skill.CombatModifierSnapshot {
	return skill.CombatModifierSnapshot(f)
}

func testTemplate() *combat.ProjectileTemplate {
	return &combat.ProjectileTemplate{
		Damage:           10,
		Speed:            20,
		Lifetime:         4,
		HitDistance:      0.2,
		OrphanLifetime:   0.5,
		RotateToVelocity: true,
	}
}

func newTestWorld() *combat.World {
	return combat.NewWorld(combat.Settings{
		AttackDamage:      10,
		BounceDedupWindow: 0.15,
		Template:          testTemplate(),
	})
}

func stepN(w *combat.World, n int, dt float64) {
	for i := 0; i < n; i++ {
		w.Step(dt)
	}
}

func TestProjectile_HitsTarget(t *testing.T) {
	w := newTestWorld()
	enemy := enemyAt("e1", 10, 0)
	h := w.Registry().Insert(enemy)

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	if len(ids) != 1 {
		t.Fatalf("FireAttack returned %d projectiles, want 1", len(ids))
	}

	p, _ := w.Projectile(ids[0])
	stepN(w, 3, 0.125)
	if p.State() != combat.ProjectileSeeking {
		t.Fatalf("state = %v, want seeking", p.State())
	}
	if p.Position.X != 7.5 {
		t.Errorf("Position.X = %v, want 7.5", p.Position.X)
	}

	w.Step(0.125)
	if p.State() != combat.ProjectileHit {
		t.Fatalf("state = %v, want hit", p.State())
	}
	if enemy.Health != 90 {
		t.Errorf("Health = %v, want 90", enemy.Health)
	}
	if _, ok := w.Projectile(ids[0]); ok {
		t.Error("finished projectile was not removed")
	}
}

func TestProjectile_OrphanExpiresAfterGrace(t *testing.T) {
	w := newTestWorld()
	enemy := enemyAt("e1", 100, 0)
	h := w.Registry().Insert(enemy)

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	p, _ := w.Projectile(ids[0])
	enemy.Active = false

	stepN(w, 3, 0.125)
	if p.State() != combat.ProjectileOrphaned {
		t.Fatalf("state = %v, want orphaned", p.State())
	}
	if p.Position.X != 7.5 {
		t.Errorf("orphan should keep flying: Position.X = %v, want 7.5", p.Position.X)
	}

	w.Step(0.125)
	if w.Now() != 0.5 {
		t.Fatalf("Now = %v, want 0.5", w.Now())
	}
	if p.State() != combat.ProjectileExpired {
		t.Fatalf("state at t=0.5 = %v, want expired", p.State())
	}
	if enemy.Health != 100 {
		t.Errorf("orphan applied damage: Health = %v", enemy.Health)
	}
}

// 60Hz下时钟累加到0.5时可能略小于0.5，仍应在第30帧过期
func TestProjectile_OrphanExpiresOnTimeAt60Hz(t *testing.T) {
	w := newTestWorld()
	enemy := enemyAt("e1", 100, 0)
	h := w.Registry().Insert(enemy)

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	p, _ := w.Projectile(ids[0])
	enemy.Active = false

	steps := 0
	for !p.Done() && steps < 100 {
		w.Step(1.0 / 60)
		steps++
	}

	if steps != 30 {
		t.Errorf("orphan expired after %d steps, want 30", steps)
	}
	if p.State() != combat.ProjectileExpired {
		t.Errorf("state = %v, want expired", p.State())
	}
	if enemy.Health != 100 {
		t.Errorf("orphan applied damage: Health = %v", enemy.Health)
	}
}

func TestProjectile_ResumesWhenTargetReturns(t *testing.T) {
	w := newTestWorld()
	enemy := enemyAt("e1", 5, 0)
	h := w.Registry().Insert(enemy)

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	p, _ := w.Projectile(ids[0])

	enemy.Active = false
	w.Step(0.125)
	if p.State() != combat.ProjectileOrphaned {
		t.Fatalf("state = %v, want orphaned", p.State())
	}

	enemy.Active = true
	stepN(w, 2, 0.125)
	if p.State() != combat.ProjectileHit {
		t.Fatalf("state = %v, want hit after target returned", p.State())
	}
	if enemy.Health != 90 {
		t.Errorf("Health = %v, want 90", enemy.Health)
	}
}

func TestProjectile_IgnoresRespawnedTarget(t *testing.T) {
	w := newTestWorld()
	enemy := enemyAt("e1", 5, 0)
	h := w.Registry().Insert(enemy)

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	p, _ := w.Projectile(ids[0])

	enemy.TakeDamage(1000)
	enemy.Respawn(models.Vector2D{X: 1})
	if _, ok := w.Registry().Replace(h, enemy); !ok {
		t.Fatal("Replace failed")
	}

	stepN(w, 4, 0.125)
	if p.State() != combat.ProjectileExpired {
		t.Fatalf("state = %v, want expired", p.State())
	}
	if enemy.Health != 100 {
		t.Errorf("respawned target took damage: %v", enemy.Health)
	}
}

func TestProjectile_LifetimeExpires(t *testing.T) {
	tpl := testTemplate()
	tpl.Lifetime = 0.25
	w := combat.NewWorld(combat.Settings{Template: tpl})
	h := w.Registry().Insert(enemyAt("e1", 100, 0))

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	p, _ := w.Projectile(ids[0])

	w.Step(0.125)
	if p.Done() {
		t.Fatal("projectile expired early")
	}
	w.Step(0.125)
	if p.State() != combat.ProjectileExpired {
		t.Errorf("state = %v, want expired", p.State())
	}
}

func TestProjectile_LifetimeExpiresOnTimeAt60Hz(t *testing.T) {
	tpl := testTemplate()
	tpl.Lifetime = 0.25
	w := combat.NewWorld(combat.Settings{Template: tpl})
	h := w.Registry().Insert(enemyAt("e1", 100, 0))

	ids := w.FireAttack(nil, models.Vector2D{}, h)
	p, _ := w.Projectile(ids[0])

	steps := 0
	for !p.Done() && steps < 100 {
		w.Step(1.0 / 60)
		steps++
	}

	if steps != 15 {
		t.Errorf("projectile expired after %d steps, want 15", steps)
	}
	if p.State() != combat.ProjectileExpired {
		t.Errorf("state = %v, want expired", p.State())
	}
}

func bounceSnapshot(count int) fixedSnapshot {
	snap := skill.NeutralSnapshot()
	snap.Bounce = &skill.BounceParams{Count: count, Radius: 6}
	snap.EnemyMask = models.LayerEnemy
	return fixedSnapshot(snap)
}

// 命中后向5个候选中最近的2个弹射，子弹的弹射次数为0
func TestProjectile_ChainBounce(t *testing.T) {
	w := newTestWorld()
	r := w.Registry()
	primary := r.Insert(enemyAt("primary", 0, 0))

	var near []combat.Handle
	for i, x := range []float64{1, 2, 3, 4, 5} {
		near = append(near, r.Insert(enemyAt(string(rune('a'+i)), x, 0)))
	}

	w.SpawnProjectile(combat.ProjectileSpec{
		Target:   primary,
		Origin:   models.Vector2D{},
		Snapshot: bounceSnapshot(2).BuildSnapshot(),
	})
	w.Step(0.125)

	children := w.Projectiles()
	if len(children) != 2 {
		t.Fatalf("spawned %d children, want 2", len(children))
	}
	for i, c := range children {
		if c.Target != near[i] {
			t.Errorf("child %d targets %v, want %v", i, c.Target, near[i])
		}
		if c.Snapshot().CanBounce() || c.Snapshot().Bounce.Count != 0 {
			t.Errorf("child %d can still bounce", i)
		}
		if c.Position != (models.Vector2D{}) {
			t.Errorf("child %d spawned at %v, want hit point", i, c.Position)
		}
		if c.Damage != 10 {
			t.Errorf("child %d damage = %v, want 10", i, c.Damage)
		}
	}

	// 子弹命中后不会继续弹射
	stepN(w, 10, 0.125)
	if n := len(w.Projectiles()); n != 0 {
		t.Errorf("%d projectiles left, want 0", n)
	}
}

// 瞄准点偏移时，弹射范围仍以被命中敌人为圆心
func TestProjectile_ChainBounceCentersOnHitEnemy(t *testing.T) {
	tpl := testTemplate()
	tpl.TargetOffset = models.Vector2D{Y: 1}
	w := combat.NewWorld(combat.Settings{
		AttackDamage:      10,
		BounceDedupWindow: 0.15,
		Template:          tpl,
	})
	r := w.Registry()
	primary := r.Insert(enemyAt("primary", 0, 0))
	// 距敌人5.5、距瞄准点6.5
	inside := r.Insert(enemyAt("inside", 0, -5.5))
	// 距敌人6.5、距瞄准点5.5
	r.Insert(enemyAt("outside", 0, 6.5))

	w.SpawnProjectile(combat.ProjectileSpec{
		Target:   primary,
		Origin:   models.Vector2D{},
		Snapshot: bounceSnapshot(2).BuildSnapshot(),
	})
	w.Step(0.125)

	children := w.Projectiles()
	if len(children) != 1 {
		t.Fatalf("spawned %d children, want 1", len(children))
	}
	if children[0].Target != inside {
		t.Errorf("child targets %v, want %v", children[0].Target, inside)
	}
}

func TestProjectile_ChainBounceDedup(t *testing.T) {
	w := newTestWorld()
	r := w.Registry()
	primary := r.Insert(enemyAt("primary", 0, 0))
	for i := 1; i <= 5; i++ {
		r.Insert(enemyAt("n", float64(i), 0))
	}

	snap := bounceSnapshot(2).BuildSnapshot()
	for i := 0; i < 2; i++ {
		w.SpawnProjectile(combat.ProjectileSpec{Target: primary, Snapshot: snap})
	}
	w.Step(0.125)

	if n := len(w.Projectiles()); n != 2 {
		t.Fatalf("simultaneous hits produced %d children, want 2", n)
	}

	target, _ := r.Lookup(primary)
	if got := target.(*models.EnemyEntity).Health; got != 80 {
		t.Errorf("primary Health = %v, want 80 (both hits land)", got)
	}
}

func TestProjectile_ChainBounceZeroMask(t *testing.T) {
	w := newTestWorld()
	r := w.Registry()
	primary := r.Insert(enemyAt("primary", 0, 0))
	r.Insert(enemyAt("n", 1, 0))

	snap := bounceSnapshot(2).BuildSnapshot()
	snap.EnemyMask = 0
	w.SpawnProjectile(combat.ProjectileSpec{Target: primary, Snapshot: snap})
	w.Step(0.125)

	if n := len(w.Projectiles()); n != 0 {
		t.Errorf("zero mask spawned %d children", n)
	}
}

func TestProjectile_DeadTargetAbsorbsNothing(t *testing.T) {
	w := newTestWorld()
	enemy := enemyAt("e1", 0, 0)
	h := w.Registry().Insert(enemy)
	w.Registry().Insert(enemyAt("n", 1, 0))

	snap := bounceSnapshot(2).BuildSnapshot()
	snap.Burn = &standardBurn
	w.SpawnProjectile(combat.ProjectileSpec{Target: h, Snapshot: snap})

	enemy.Alive = false
	w.Step(0.125)

	if enemy.Health != 100 {
		t.Errorf("dead target took damage: %v", enemy.Health)
	}
	if w.Registry().BurnEffect(h) != nil {
		t.Error("dead target received burn")
	}
	if n := len(w.Projectiles()); n != 0 {
		t.Errorf("dead target triggered %d bounces", n)
	}
}

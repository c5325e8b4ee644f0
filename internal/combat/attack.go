package combat

import (
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

// ModifierSource 攻击发射时提供修正值，通常是玩家的技能编排器
type ModifierSource interface {
	BuildSnapshot() skill.CombatModifierSnapshot
}

// FireAttack 攻击出手：冻结一次修正值后交给 FireSnapshot
func (w *World) FireAttack(src ModifierSource, origin models.Vector2D, target Handle) []ProjectileID {
	snap := skill.NeutralSnapshot()
	if src != nil {
		snap = src.BuildSnapshot()
	}
	return w.FireSnapshot(snap, origin, target)
}

// FireSnapshot 以已冻结的修正值出手，按箭矢数量横向散开生成投射物。
// 没有投射物模板时直接对目标造成伤害并返回nil。
func (w *World) FireSnapshot(snap skill.CombatModifierSnapshot, origin models.Vector2D, target Handle) []ProjectileID {
	t, ok := w.registry.Resolve(target)
	if !ok || !t.IsAlive() {
		return nil
	}

	tpl := w.settings.Template
	if tpl == nil {
		t.TakeDamage(w.settings.AttackDamage)
		return nil
	}

	start := origin.Add(w.settings.SpawnOffset)
	aim := t.GetPosition().Add(tpl.TargetOffset)
	dir := aim.Sub(start).Normalize()
	if dir.LengthSquared() == 0 {
		dir = models.Vector2D{X: 1}
	}
	right := dir.Perpendicular()

	n := snap.ArrowCount
	if n < 1 {
		n = 1
	}

	ids := make([]ProjectileID, 0, n)
	for i := 0; i < n; i++ {
		spawn := start
		if n > 1 {
			lateral := (float64(i) - float64(n-1)/2) * snap.SpreadOffset
			spawn = spawn.Add(right.Scale(lateral))
		}

		heading := aim.Sub(spawn)
		if heading.LengthSquared() == 0 {
			heading = dir
		}

		ids = append(ids, w.SpawnProjectile(ProjectileSpec{
			Target:   target,
			Origin:   spawn,
			Heading:  heading,
			Snapshot: snap,
			Template: tpl,
		}))
	}
	return ids
}

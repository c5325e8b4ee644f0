package skill

import "github.com/jacl-coder/PixelStorm-Combat/internal/models"

// BurnParams 灼烧参数
type BurnParams struct {
	DamagePerTick float64
	Duration      float64
	TickInterval  float64
	MaxStacks     int
}

// BounceParams 弹射参数
type BounceParams struct {
	Count  int
	Radius float64
}

// CombatModifierSnapshot 攻击发射时冻结的战斗修正值。
// 由一次攻击及其派生的所有投射物共享，构建后不再修改。
type CombatModifierSnapshot struct {
	ArrowCount            int
	SpreadOffset          float64
	Burn                  *BurnParams
	Bounce                *BounceParams
	AttackSpeedMultiplier float64
	Amplified             bool
	EnemyMask             models.Layer
}

// NeutralSnapshot 没有任何技能生效时的修正值
func NeutralSnapshot() CombatModifierSnapshot {
	return CombatModifierSnapshot{
		ArrowCount:            1,
		AttackSpeedMultiplier: 1,
	}
}

// HasBurn 是否附带灼烧
func (s CombatModifierSnapshot) HasBurn() bool {
	return s.Burn != nil
}

// CanBounce 是否还能触发弹射
func (s CombatModifierSnapshot) CanBounce() bool {
	return s.Bounce != nil && s.Bounce.Count > 0
}

// WithoutBounceFanOut 弹射子弹使用的副本，弹射次数清零以保证只弹一跳
func (s CombatModifierSnapshot) WithoutBounceFanOut() CombatModifierSnapshot {
	out := s
	if s.Bounce != nil {
		b := *s.Bounce
		b.Count = 0
		out.Bounce = &b
	}
	return out
}

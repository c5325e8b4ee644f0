package combat

import (
	"math"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

// timeEpsilon 模拟时钟由帧长逐帧累加，比较时刻时容忍的误差
const timeEpsilon = 1e-9

// Settings 战斗世界参数
type Settings struct {
	AttackDamage      float64
	SpawnOffset       models.Vector2D
	BounceDedupWindow float64
	Template          *ProjectileTemplate // nil 表示不使用投射物
}

// SettingsFromConfig 由战斗配置构建参数
func SettingsFromConfig(cfg config.CombatConfig) Settings {
	s := Settings{
		AttackDamage:      cfg.AttackDamage,
		SpawnOffset:       vec(cfg.SpawnOffset),
		BounceDedupWindow: cfg.BounceDedupWindow,
	}
	if cfg.UseProjectiles {
		s.Template = &ProjectileTemplate{
			Damage:           cfg.AttackDamage,
			Speed:            cfg.ProjectileSpeed,
			Lifetime:         cfg.ProjectileLifetime,
			HitDistance:      cfg.HitDistance,
			OrphanLifetime:   cfg.OrphanLifetime,
			TargetOffset:     vec(cfg.TargetOffset),
			RotateToVelocity: cfg.RotateToVelocity,
		}
	}
	return s
}

func vec(v []float64) models.Vector2D {
	if len(v) < 2 {
		return models.Vector2D{}
	}
	return models.Vector2D{X: v[0], Y: v[1]}
}

// World 战斗模拟：目标表、投射物、灼烧与弹射去重，全部在单线程的 Step 中推进
type World struct {
	settings    Settings
	now         float64
	registry    *Registry
	dedup       *BounceDedup
	projectiles []*Projectile
	byID        map[ProjectileID]*Projectile
}

// NewWorld 创建战斗世界
func NewWorld(s Settings) *World {
	return &World{
		settings: s,
		registry: NewRegistry(),
		dedup:    NewBounceDedup(s.BounceDedupWindow),
		byID:     make(map[ProjectileID]*Projectile),
	}
}

// Now 模拟时钟(秒)
func (w *World) Now() float64 {
	return w.now
}

// Settings 当前参数
func (w *World) Settings() Settings {
	return w.settings
}

// Registry 目标表
func (w *World) Registry() *Registry {
	return w.registry
}

// Dedup 弹射去重表
func (w *World) Dedup() *BounceDedup {
	return w.dedup
}

// Step 推进一帧：时钟 -> 灼烧衰减 -> 投射物 -> 清理。
// 本帧命中施加的灼烧从下一帧开始衰减，本帧弹射出的子弹从下一帧开始移动。
func (w *World) Step(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	w.now += dt
	w.registry.tickBurns(w.now)

	n := len(w.projectiles)
	for i := 0; i < n; i++ {
		w.projectiles[i].Tick(w, dt)
	}

	w.compact()
}

func (w *World) compact() {
	kept := w.projectiles[:0]
	for _, p := range w.projectiles {
		if p.Done() {
			delete(w.byID, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(w.projectiles); i++ {
		w.projectiles[i] = nil
	}
	w.projectiles = kept
}

// SpawnProjectile 生成投射物，没有模板时使用世界默认模板；两者都没有时不生成
func (w *World) SpawnProjectile(spec ProjectileSpec) ProjectileID {
	if spec.Template == nil {
		spec.Template = w.settings.Template
	}
	if spec.Template == nil {
		return ""
	}

	if spec.Heading.LengthSquared() == 0 {
		if t, ok := w.registry.Lookup(spec.Target); ok {
			spec.Heading = t.GetPosition().Add(spec.Template.TargetOffset).Sub(spec.Origin)
		}
		if spec.Heading.LengthSquared() == 0 {
			spec.Heading = models.Vector2D{X: 1}
		}
	}

	p := newProjectile(spec, w.now)
	w.projectiles = append(w.projectiles, p)
	w.byID[p.ID] = p
	return p.ID
}

// Projectile 按ID查找未结束的投射物
func (w *World) Projectile(id ProjectileID) (*Projectile, bool) {
	p, ok := w.byID[id]
	return p, ok
}

// Projectiles 当前投射物(包括本帧刚结束、尚未清理的)
func (w *World) Projectiles() []*Projectile {
	out := make([]*Projectile, len(w.projectiles))
	copy(out, w.projectiles)
	return out
}

// ApplyBurn 给目标叠加一层灼烧，目标无效或已死亡时返回false
func (w *World) ApplyBurn(h Handle, params skill.BurnParams) bool {
	if !(params.TickInterval > 0) || params.MaxStacks < 1 {
		return false
	}
	t, ok := w.registry.Resolve(h)
	if !ok || !t.IsAlive() {
		return false
	}
	return w.registry.ensureBurnEffect(h).AddStack(params, w.now)
}

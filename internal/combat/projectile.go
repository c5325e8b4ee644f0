package combat

import (
	"github.com/google/uuid"

	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

// ProjectileID 投射物ID
type ProjectileID string

// ProjectileState 投射物状态
type ProjectileState int

const (
	// ProjectileSeeking 追踪目标中
	ProjectileSeeking ProjectileState = iota
	// ProjectileOrphaned 目标丢失，沿原方向飞行等待宽限期结束
	ProjectileOrphaned
	// ProjectileHit 已命中
	ProjectileHit
	// ProjectileExpired 超时销毁
	ProjectileExpired
)

// String 状态名称
func (s ProjectileState) String() string {
	switch s {
	case ProjectileSeeking:
		return "seeking"
	case ProjectileOrphaned:
		return "orphaned"
	case ProjectileHit:
		return "hit"
	case ProjectileExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ProjectileTemplate 投射物模板，为 nil 时攻击退化为直接伤害且不会弹射
type ProjectileTemplate struct {
	Damage           float64
	Speed            float64
	Lifetime         float64
	HitDistance      float64
	OrphanLifetime   float64
	TargetOffset     models.Vector2D
	RotateToVelocity bool
}

// ProjectileSpec 生成投射物所需参数
type ProjectileSpec struct {
	Target   Handle
	Origin   models.Vector2D
	Heading  models.Vector2D // 为零时朝向目标
	Snapshot skill.CombatModifierSnapshot
	Template *ProjectileTemplate
}

// Projectile 追踪投射物
type Projectile struct {
	ID               ProjectileID
	Target           Handle
	TargetOffset     models.Vector2D
	Damage           float64
	Speed            float64
	MaxLifetime      float64
	OrphanLifetime   float64
	HitDistance      float64
	RotateToVelocity bool
	SpawnTime        float64

	Position models.Vector2D
	Heading  models.Vector2D
	Rotation float64

	state     ProjectileState
	lostSince float64 // 最后一次看到目标有效的时刻
	resolved  bool
	snapshot  skill.CombatModifierSnapshot
	template  *ProjectileTemplate
}

func newProjectile(spec ProjectileSpec, now float64) *Projectile {
	tpl := spec.Template
	p := &Projectile{
		ID:               ProjectileID(uuid.New().String()),
		Target:           spec.Target,
		TargetOffset:     tpl.TargetOffset,
		Damage:           tpl.Damage,
		Speed:            tpl.Speed,
		MaxLifetime:      tpl.Lifetime,
		OrphanLifetime:   tpl.OrphanLifetime,
		HitDistance:      tpl.HitDistance,
		RotateToVelocity: tpl.RotateToVelocity,
		SpawnTime:        now,
		Position:         spec.Origin,
		Heading:          spec.Heading.Normalize(),
		state:            ProjectileSeeking,
		lostSince:        now,
		snapshot:         spec.Snapshot,
		template:         tpl,
	}
	p.Rotation = p.Heading.Angle()
	return p
}

// State 当前状态
func (p *Projectile) State() ProjectileState {
	return p.state
}

// Done 已命中或已销毁
func (p *Projectile) Done() bool {
	return p.state == ProjectileHit || p.state == ProjectileExpired
}

// Snapshot 发射时冻结的修正值
func (p *Projectile) Snapshot() skill.CombatModifierSnapshot {
	return p.snapshot
}

// Tick 推进一帧
func (p *Projectile) Tick(w *World, dt float64) {
	if p.Done() || dt <= 0 {
		return
	}

	now := w.Now()
	if now-p.SpawnTime >= p.MaxLifetime-timeEpsilon {
		p.state = ProjectileExpired
		return
	}

	target, ok := w.registry.Resolve(p.Target)
	if !ok {
		p.state = ProjectileOrphaned
		if now-p.lostSince >= p.OrphanLifetime-timeEpsilon {
			p.state = ProjectileExpired
			return
		}
		p.advance(p.Speed * dt)
		return
	}

	// 同一句柄重新有效则继续追踪，重生的目标句柄不同，不会被误追
	p.state = ProjectileSeeking
	p.lostSince = now

	aim := target.GetPosition().Add(p.TargetOffset)
	toAim := aim.Sub(p.Position)
	dist := toAim.Length()
	step := p.Speed * dt

	if dist <= p.HitDistance || dist <= step {
		p.Position = aim
		p.resolveHit(w)
		return
	}

	p.Heading = toAim.Scale(1 / dist)
	p.advance(step)
}

func (p *Projectile) advance(step float64) {
	p.Position = p.Position.Add(p.Heading.Scale(step))
	if p.RotateToVelocity {
		p.Rotation = p.Heading.Angle()
	}
}

// resolveHit 命中结算，每个投射物只执行一次
func (p *Projectile) resolveHit(w *World) {
	if p.resolved {
		return
	}
	p.resolved = true
	p.state = ProjectileHit

	target, ok := w.registry.Lookup(p.Target)
	if !ok || !target.IsActive() || !target.IsAlive() {
		return
	}

	target.TakeDamage(p.Damage)

	if p.snapshot.Burn != nil {
		w.ApplyBurn(p.Target, *p.snapshot.Burn)
	}

	if p.snapshot.CanBounce() && p.template != nil {
		p.chain(w, target.GetPosition())
	}
}

// chain 以被命中敌人的位置为圆心向附近目标弹射，子弹不再弹射
func (p *Projectile) chain(w *World, center models.Vector2D) {
	if !w.dedup.TryTrigger(p.Target, w.Now()) {
		return
	}

	mask := p.snapshot.EnemyMask
	if mask == 0 {
		return
	}

	candidates := w.registry.Nearby(center, p.snapshot.Bounce.Radius, mask, p.Target)
	if n := p.snapshot.Bounce.Count; len(candidates) > n {
		candidates = candidates[:n]
	}
	if len(candidates) == 0 {
		return
	}

	child := p.snapshot.WithoutBounceFanOut()
	tpl := *p.template
	tpl.Damage = p.Damage
	tpl.Speed = p.Speed
	tpl.TargetOffset = p.TargetOffset

	for _, h := range candidates {
		w.SpawnProjectile(ProjectileSpec{
			Target:   h,
			Origin:   p.Position,
			Snapshot: child,
			Template: &tpl,
		})
	}
}

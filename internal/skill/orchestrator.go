package skill

import (
	"log"

	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

// Orchestrator 持有每种技能的状态机，逐帧推进并合成战斗修正值。
// 技能状态只由 Orchestrator 修改。
type Orchestrator struct {
	owner     string
	states    [models.SkillTypeCount]*State
	enemyMask models.Layer
}

// NewOrchestrator 为目录中每个已配置技能创建状态机
func NewOrchestrator(owner string, catalog *Catalog, enemyMask models.Layer) *Orchestrator {
	o := &Orchestrator{owner: owner, enemyMask: enemyMask}
	for _, t := range catalog.Types() {
		def, _ := catalog.Definition(t)
		o.states[t] = NewState(def)
	}
	return o
}

func (o *Orchestrator) state(t models.SkillType) *State {
	if !t.Valid() {
		return nil
	}
	return o.states[t]
}

// Tick 用同一个dt推进所有技能
func (o *Orchestrator) Tick(dt float64) {
	for _, s := range o.states {
		if s != nil {
			s.Tick(dt)
		}
	}
}

// Activate 激活技能，未配置或未就绪时返回false
func (o *Orchestrator) Activate(t models.SkillType) bool {
	s := o.state(t)
	if s == nil {
		return false
	}
	if !s.TryActivate() {
		return false
	}

	log.Printf("%s 激活技能 %s", o.owner, t)
	return true
}

// IsActive 技能是否激活中，未配置的技能永远不激活
func (o *Orchestrator) IsActive(t models.SkillType) bool {
	s := o.state(t)
	return s != nil && s.IsActive()
}

// IsReady 技能是否就绪
func (o *Orchestrator) IsReady(t models.SkillType) bool {
	s := o.state(t)
	return s != nil && s.IsReady()
}

// CooldownFill 冷却填充比例，未配置的技能返回1
func (o *Orchestrator) CooldownFill(t models.SkillType) float64 {
	s := o.state(t)
	if s == nil {
		return 1
	}
	return s.CooldownFill()
}

// IsConfigured 技能是否已配置
func (o *Orchestrator) IsConfigured(t models.SkillType) bool {
	return o.state(t) != nil
}

// Definition 已配置技能的定义
func (o *Orchestrator) Definition(t models.SkillType) (models.SkillDefinition, bool) {
	s := o.state(t)
	if s == nil {
		return models.SkillDefinition{}, false
	}
	return s.Definition(), true
}

// IsAmplified 狂暴是否生效
func (o *Orchestrator) IsAmplified() bool {
	return o.IsActive(models.RageMode)
}

// ActiveSkills 当前激活的技能，按枚举顺序
func (o *Orchestrator) ActiveSkills() []models.SkillType {
	var active []models.SkillType
	for i, s := range o.states {
		if s != nil && s.IsActive() {
			active = append(active, models.SkillType(i))
		}
	}
	return active
}

// BuildSnapshot 由当前状态合成一次攻击的修正值。
// 狂暴标志只读取一次，决定各技能取基础值还是狂暴值。
func (o *Orchestrator) BuildSnapshot() CombatModifierSnapshot {
	rage := o.IsAmplified()

	snap := NeutralSnapshot()
	snap.Amplified = rage
	snap.EnemyMask = o.enemyMask

	for i, s := range o.states {
		if s == nil || !s.IsActive() {
			continue
		}

		switch e := s.Definition().Effect.(type) {
		case models.MultiArrowEffect:
			snap.ArrowCount = pickInt(rage, e.BaseArrowCount, e.RageArrowCount)
			snap.SpreadOffset = e.SpreadOffset
		case models.BurnDamageEffect:
			snap.Burn = &BurnParams{
				DamagePerTick: e.DamagePerTick,
				Duration:      pickFloat(rage, e.BaseBurnDuration, e.RageBurnDuration),
				TickInterval:  e.TickInterval,
				MaxStacks:     e.MaxStacks,
			}
		case models.AttackSpeedEffect:
			snap.AttackSpeedMultiplier = pickFloat(rage, e.BaseSpeedMultiplier, e.RageSpeedMultiplier)
		case models.ChainBounceEffect:
			snap.Bounce = &BounceParams{
				Count:  pickInt(rage, e.BaseBounceCount, e.RageBounceCount),
				Radius: e.BounceRadius,
			}
		case models.RageModeEffect:
			// 只作为放大标志
		default:
			log.Printf("技能 %s 的数值类型未知: %T", models.SkillType(i), e)
		}
	}

	return snap
}

func pickInt(rage bool, base, amplified int) int {
	if rage {
		return amplified
	}
	return base
}

func pickFloat(rage bool, base, amplified float64) float64 {
	if rage {
		return amplified
	}
	return base
}

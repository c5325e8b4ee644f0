package skill

import (
	"math"

	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

// State 单个技能的 就绪 -> 激活 -> 冷却 -> 就绪 状态机。
// 就绪不单独存储，由 !active && cooldownRemaining <= 0 推导。
type State struct {
	definition        models.SkillDefinition
	active            bool
	durationRemaining float64
	cooldownRemaining float64
}

// NewState 创建就绪状态的技能
func NewState(def models.SkillDefinition) *State {
	return &State{definition: def}
}

// Definition 技能定义
func (s *State) Definition() models.SkillDefinition {
	return s.definition
}

// IsActive 是否激活中
func (s *State) IsActive() bool {
	return s.active
}

// IsReady 是否可以激活
func (s *State) IsReady() bool {
	return !s.active && s.cooldownRemaining <= 0
}

// IsCoolingDown 是否冷却中
func (s *State) IsCoolingDown() bool {
	return !s.active && s.cooldownRemaining > 0
}

// DurationRemaining 剩余持续时间
func (s *State) DurationRemaining() float64 {
	return s.durationRemaining
}

// CooldownRemaining 剩余冷却时间
func (s *State) CooldownRemaining() float64 {
	return s.cooldownRemaining
}

// TryActivate 仅在就绪时激活，否则不改变状态并返回false
func (s *State) TryActivate() bool {
	if !s.IsReady() {
		return false
	}

	s.active = true
	s.durationRemaining = s.definition.Duration
	return true
}

// Tick 推进计时器。激活结束时总是进入完整冷却，多余的dt不会顺延，
// 因此再大的步长也不会跳过冷却阶段。
func (s *State) Tick(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	if s.active {
		s.durationRemaining -= dt
		if s.durationRemaining <= 0 {
			s.active = false
			s.durationRemaining = 0
			s.cooldownRemaining = s.definition.Cooldown
		}
		return
	}

	if s.cooldownRemaining > 0 {
		s.cooldownRemaining -= dt
		if s.cooldownRemaining < 0 {
			s.cooldownRemaining = 0
		}
	}
}

// CooldownFill 整个 激活+冷却 周期内的进度，0 为刚激活，1 为就绪
func (s *State) CooldownFill() float64 {
	total := s.definition.TotalCycle()

	var remaining float64
	switch {
	case s.active:
		remaining = s.durationRemaining + s.definition.Cooldown
	case s.cooldownRemaining > 0:
		remaining = s.cooldownRemaining
	default:
		return 1
	}

	return clamp01(1 - remaining/total)
}

// DurationRemainingRatio 激活剩余比例
func (s *State) DurationRemainingRatio() float64 {
	if !s.active || s.definition.Duration <= 0 {
		return 0
	}
	return clamp01(s.durationRemaining / s.definition.Duration)
}

// CooldownRemainingRatio 冷却剩余比例
func (s *State) CooldownRemainingRatio() float64 {
	if s.active || s.cooldownRemaining <= 0 || s.definition.Cooldown <= 0 {
		return 0
	}
	return clamp01(s.cooldownRemaining / s.definition.Cooldown)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

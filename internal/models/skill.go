// skill.go

package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSkillConfig 技能配置非法
var ErrInvalidSkillConfig = errors.New("invalid skill config")

// minTotalCycle 完整周期的下限，避免除零
const minTotalCycle = 0.001

// SkillType 技能类型
type SkillType int

const (
	// MultiArrow 多重箭
	MultiArrow SkillType = iota
	// BurnDamage 灼烧
	BurnDamage
	// AttackSpeed 攻速提升
	AttackSpeed
	// RageMode 狂暴，放大其他技能
	RageMode
	// ChainBounce 弹射
	ChainBounce

	// SkillTypeCount 技能种类数
	SkillTypeCount
)

var skillTypeNames = [SkillTypeCount]string{
	MultiArrow:  "multi_arrow",
	BurnDamage:  "burn_damage",
	AttackSpeed: "attack_speed",
	RageMode:    "rage_mode",
	ChainBounce: "chain_bounce",
}

// String 技能类型名称
func (t SkillType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("skill(%d)", int(t))
	}
	return skillTypeNames[t]
}

// Valid 是否属于固定技能集合
func (t SkillType) Valid() bool {
	return t >= 0 && t < SkillTypeCount
}

// ParseSkillType 解析技能名称
func ParseSkillType(name string) (SkillType, error) {
	for i, n := range skillTypeNames {
		if n == name {
			return SkillType(i), nil
		}
	}
	return -1, fmt.Errorf("未知的技能类型: %s", name)
}

// AllSkillTypes 按枚举顺序返回全部技能类型
func AllSkillTypes() []SkillType {
	types := make([]SkillType, 0, SkillTypeCount)
	for t := SkillType(0); t < SkillTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// SkillEffect 技能的专属数值，封闭的和类型
type SkillEffect interface {
	SkillType() SkillType
	validate() error
}

// MultiArrowEffect 多重箭数值
type MultiArrowEffect struct {
	BaseArrowCount int
	RageArrowCount int
	SpreadOffset   float64 // 相邻箭矢的横向间距
}

// BurnDamageEffect 灼烧数值
type BurnDamageEffect struct {
	DamagePerTick    float64
	BaseBurnDuration float64
	RageBurnDuration float64
	TickInterval     float64
	MaxStacks        int
}

// AttackSpeedEffect 攻速数值
type AttackSpeedEffect struct {
	BaseSpeedMultiplier float64
	RageSpeedMultiplier float64
}

// RageModeEffect 狂暴没有专属数值
type RageModeEffect struct{}

// ChainBounceEffect 弹射数值
type ChainBounceEffect struct {
	BaseBounceCount int
	RageBounceCount int
	BounceRadius    float64
}

// SkillType 实现 SkillEffect
func (MultiArrowEffect) SkillType() SkillType  { return MultiArrow }
func (BurnDamageEffect) SkillType() SkillType  { return BurnDamage }
func (AttackSpeedEffect) SkillType() SkillType { return AttackSpeed }
func (RageModeEffect) SkillType() SkillType    { return RageMode }
func (ChainBounceEffect) SkillType() SkillType { return ChainBounce }

func (e MultiArrowEffect) validate() error {
	if e.BaseArrowCount < 1 || e.RageArrowCount < 1 {
		return fmt.Errorf("箭矢数量必须至少为1: base=%d rage=%d", e.BaseArrowCount, e.RageArrowCount)
	}
	if e.SpreadOffset < 0 || !finite(e.SpreadOffset) {
		return fmt.Errorf("散射间距不能为负: %v", e.SpreadOffset)
	}
	return nil
}

func (e BurnDamageEffect) validate() error {
	if !(e.DamagePerTick > 0) {
		return fmt.Errorf("每跳伤害必须大于0: %v", e.DamagePerTick)
	}
	if !(e.BaseBurnDuration > 0) || !(e.RageBurnDuration > 0) {
		return fmt.Errorf("灼烧持续时间必须大于0: base=%v rage=%v", e.BaseBurnDuration, e.RageBurnDuration)
	}
	if !(e.TickInterval > 0) {
		return fmt.Errorf("灼烧间隔必须大于0: %v", e.TickInterval)
	}
	if e.MaxStacks < 1 {
		return fmt.Errorf("最大层数必须至少为1: %d", e.MaxStacks)
	}
	return nil
}

func (e AttackSpeedEffect) validate() error {
	if !(e.BaseSpeedMultiplier > 0) || !(e.RageSpeedMultiplier > 0) {
		return fmt.Errorf("攻速倍率必须大于0: base=%v rage=%v", e.BaseSpeedMultiplier, e.RageSpeedMultiplier)
	}
	return nil
}

func (RageModeEffect) validate() error { return nil }

func (e ChainBounceEffect) validate() error {
	if e.BaseBounceCount < 1 || e.RageBounceCount < 1 {
		return fmt.Errorf("弹射次数必须至少为1: base=%d rage=%d", e.BaseBounceCount, e.RageBounceCount)
	}
	if !(e.BounceRadius > 0) {
		return fmt.Errorf("弹射半径必须大于0: %v", e.BounceRadius)
	}
	return nil
}

// SkillDefinition 技能定义，加载后不可变
type SkillDefinition struct {
	Type        SkillType
	Name        string
	Description string
	Duration    float64 // 持续时间(秒)
	Cooldown    float64 // 冷却时间(秒)
	Effect      SkillEffect
}

// TotalCycle 持续+冷却的完整周期
func (d SkillDefinition) TotalCycle() float64 {
	return math.Max(minTotalCycle, d.Duration+d.Cooldown)
}

// Validate 校验技能定义
func (d SkillDefinition) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: 未知的技能类型 %d", ErrInvalidSkillConfig, int(d.Type))
	}
	if !(d.Duration > 0) || !finite(d.Duration) {
		return fmt.Errorf("%w: %s 持续时间必须大于0: %v", ErrInvalidSkillConfig, d.Type, d.Duration)
	}
	if !(d.Cooldown >= 0) || !finite(d.Cooldown) {
		return fmt.Errorf("%w: %s 冷却时间不能为负: %v", ErrInvalidSkillConfig, d.Type, d.Cooldown)
	}
	if d.Effect == nil {
		return fmt.Errorf("%w: %s 缺少技能数值", ErrInvalidSkillConfig, d.Type)
	}
	if d.Effect.SkillType() != d.Type {
		return fmt.Errorf("%w: %s 的数值类型不匹配: %s", ErrInvalidSkillConfig, d.Type, d.Effect.SkillType())
	}
	if err := d.Effect.validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSkillConfig, d.Type, err)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package skill

import (
	"fmt"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

// Catalog 已校验的技能定义集合，构建后只读
type Catalog struct {
	definitions [models.SkillTypeCount]*models.SkillDefinition
}

// NewCatalog 由配置构建技能目录，任何非法数值都会在此被拒绝
func NewCatalog(cfg config.SkillsConfig) (*Catalog, error) {
	return NewCatalogFromDefinitions(DefinitionsFromConfig(cfg))
}

// NewCatalogFromDefinitions 由技能定义构建目录
func NewCatalogFromDefinitions(defs []models.SkillDefinition) (*Catalog, error) {
	c := &Catalog{}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if c.definitions[def.Type] != nil {
			return nil, fmt.Errorf("%w: 重复的技能定义 %s", models.ErrInvalidSkillConfig, def.Type)
		}
		d := def
		c.definitions[def.Type] = &d
	}
	return c, nil
}

// Definition 获取技能定义
func (c *Catalog) Definition(t models.SkillType) (models.SkillDefinition, bool) {
	if c == nil || !t.Valid() || c.definitions[t] == nil {
		return models.SkillDefinition{}, false
	}
	return *c.definitions[t], true
}

// Types 已配置的技能类型，按枚举顺序
func (c *Catalog) Types() []models.SkillType {
	if c == nil {
		return nil
	}
	types := make([]models.SkillType, 0, len(c.definitions))
	for i, d := range c.definitions {
		if d != nil {
			types = append(types, models.SkillType(i))
		}
	}
	return types
}

// Len 已配置技能数量
func (c *Catalog) Len() int {
	return len(c.Types())
}

// DefinitionsFromConfig 将配置块转换为技能定义，nil 块跳过
func DefinitionsFromConfig(cfg config.SkillsConfig) []models.SkillDefinition {
	var defs []models.SkillDefinition

	if c := cfg.MultiArrow; c != nil {
		defs = append(defs, definition(models.MultiArrow, c.SkillTiming, models.MultiArrowEffect{
			BaseArrowCount: c.BaseArrowCount,
			RageArrowCount: c.RageArrowCount,
			SpreadOffset:   c.SpreadOffset,
		}))
	}
	if c := cfg.BurnDamage; c != nil {
		defs = append(defs, definition(models.BurnDamage, c.SkillTiming, models.BurnDamageEffect{
			DamagePerTick:    c.DamagePerTick,
			BaseBurnDuration: c.BaseBurnDuration,
			RageBurnDuration: c.RageBurnDuration,
			TickInterval:     c.TickInterval,
			MaxStacks:        c.MaxStacks,
		}))
	}
	if c := cfg.AttackSpeed; c != nil {
		defs = append(defs, definition(models.AttackSpeed, c.SkillTiming, models.AttackSpeedEffect{
			BaseSpeedMultiplier: c.BaseSpeedMultiplier,
			RageSpeedMultiplier: c.RageSpeedMultiplier,
		}))
	}
	if c := cfg.RageMode; c != nil {
		defs = append(defs, definition(models.RageMode, c.SkillTiming, models.RageModeEffect{}))
	}
	if c := cfg.ChainBounce; c != nil {
		defs = append(defs, definition(models.ChainBounce, c.SkillTiming, models.ChainBounceEffect{
			BaseBounceCount: c.BaseBounceCount,
			RageBounceCount: c.RageBounceCount,
			BounceRadius:    c.BounceRadius,
		}))
	}

	return defs
}

func definition(t models.SkillType, timing config.SkillTiming, effect models.SkillEffect) models.SkillDefinition {
	name := timing.Name
	if name == "" {
		name = t.String()
	}
	return models.SkillDefinition{
		Type:        t,
		Name:        name,
		Description: timing.Description,
		Duration:    timing.Duration,
		Cooldown:    timing.Cooldown,
		Effect:      effect,
	}
}

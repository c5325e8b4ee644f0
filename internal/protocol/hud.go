package protocol

import (
	"github.com/jacl-coder/PixelStorm-Combat/internal/combat"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

// 消息类型
const (
	MsgActivateSkill = "activate_skill"
	MsgSkillResult   = "skill_result"
	MsgHUD           = "hud"
	MsgError         = "error"
)

// SkillStatus 技能栏单个技能的显示状态
type SkillStatus struct {
	Skill        string  `json:"skill"`
	Name         string  `json:"name"`
	Configured   bool    `json:"configured"`
	Active       bool    `json:"active"`
	Ready        bool    `json:"ready"`
	CooldownFill float64 `json:"cooldown_fill"`
}

// EnemyStatus 敌人显示状态
type EnemyStatus struct {
	ID         string          `json:"id"`
	Level      int             `json:"level"`
	Position   models.Vector2D `json:"position"`
	Health     float64         `json:"health"` // 血量比例
	Alive      bool            `json:"alive"`
	BurnStacks int             `json:"burn_stacks"`
}

// ProjectileStatus 投射物显示状态
type ProjectileStatus struct {
	ID       string          `json:"id"`
	Position models.Vector2D `json:"position"`
	Rotation float64         `json:"rotation"`
	State    string          `json:"state"`
}

// HUDFrame 推送给单个玩家的界面帧
type HUDFrame struct {
	FrameID     int64              `json:"frame_id"`
	Time        float64            `json:"time"`
	PlayerID    string             `json:"player_id"`
	Amplified   bool               `json:"amplified"`
	Skills      []SkillStatus      `json:"skills"`
	Enemies     []EnemyStatus      `json:"enemies"`
	Projectiles []ProjectileStatus `json:"projectiles"`
}

// BuildHUDFrame 读取技能与战斗状态生成界面帧，只读不修改任何状态
func BuildHUDFrame(frameID int64, playerID string, o *skill.Orchestrator, w *combat.World) *HUDFrame {
	frame := &HUDFrame{
		FrameID:   frameID,
		Time:      w.Now(),
		PlayerID:  playerID,
		Amplified: o.IsAmplified(),
	}

	for _, t := range models.AllSkillTypes() {
		status := SkillStatus{
			Skill:        t.String(),
			Name:         t.String(),
			Configured:   o.IsConfigured(t),
			Active:       o.IsActive(t),
			Ready:        o.IsReady(t),
			CooldownFill: o.CooldownFill(t),
		}
		if def, ok := o.Definition(t); ok {
			status.Name = def.Name
		}
		frame.Skills = append(frame.Skills, status)
	}

	reg := w.Registry()
	reg.Each(func(h combat.Handle, t combat.Target) bool {
		enemy, ok := t.(*models.EnemyEntity)
		if !ok || !enemy.IsActive() {
			return true
		}
		status := EnemyStatus{
			ID:       enemy.ID,
			Level:    int(enemy.Level),
			Position: enemy.Position,
			Health:   enemy.HealthRatio(),
			Alive:    enemy.IsAlive(),
		}
		if burn := reg.BurnEffect(h); burn != nil {
			status.BurnStacks = burn.StackCount()
		}
		frame.Enemies = append(frame.Enemies, status)
		return true
	})

	for _, p := range w.Projectiles() {
		if p.Done() {
			continue
		}
		frame.Projectiles = append(frame.Projectiles, ProjectileStatus{
			ID:       string(p.ID),
			Position: p.Position,
			Rotation: p.Rotation,
			State:    p.State().String(),
		})
	}

	return frame
}

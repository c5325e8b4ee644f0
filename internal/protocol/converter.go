package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

// ToProto 将界面帧转换为协议消息
func (f *HUDFrame) ToProto() (*structpb.Struct, error) {
	skills := make([]any, 0, len(f.Skills))
	for _, s := range f.Skills {
		skills = append(skills, ConvertSkillStatusToProto(s))
	}

	enemies := make([]any, 0, len(f.Enemies))
	for _, e := range f.Enemies {
		enemies = append(enemies, ConvertEnemyStatusToProto(e))
	}

	projectiles := make([]any, 0, len(f.Projectiles))
	for _, p := range f.Projectiles {
		projectiles = append(projectiles, ConvertProjectileStatusToProto(p))
	}

	return structpb.NewStruct(map[string]any{
		"frame_id":    f.FrameID,
		"time":        f.Time,
		"player_id":   f.PlayerID,
		"amplified":   f.Amplified,
		"skills":      skills,
		"enemies":     enemies,
		"projectiles": projectiles,
	})
}

// ConvertSkillStatusToProto 技能状态转换
func ConvertSkillStatusToProto(s SkillStatus) map[string]any {
	return map[string]any{
		"skill":         s.Skill,
		"name":          s.Name,
		"configured":    s.Configured,
		"active":        s.Active,
		"ready":         s.Ready,
		"cooldown_fill": s.CooldownFill,
	}
}

// ConvertEnemyStatusToProto 敌人状态转换
func ConvertEnemyStatusToProto(e EnemyStatus) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"level":       e.Level,
		"position":    convertVector(e.Position),
		"health":      e.Health,
		"alive":       e.Alive,
		"burn_stacks": e.BurnStacks,
	}
}

// ConvertProjectileStatusToProto 投射物状态转换
func ConvertProjectileStatusToProto(p ProjectileStatus) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"position": convertVector(p.Position),
		"rotation": p.Rotation,
		"state":    p.State,
	}
}

func convertVector(v models.Vector2D) map[string]any {
	return map[string]any{"x": v.X, "y": v.Y}
}

// EncodeFrame 序列化界面帧消息
func EncodeFrame(f *HUDFrame) ([]byte, error) {
	payload, err := f.ToProto()
	if err != nil {
		return nil, fmt.Errorf("转换界面帧失败: %w", err)
	}
	return encode(MsgHUD, structpb.NewStructValue(payload))
}

// EncodeMessage 序列化 {type, payload} 消息，payload 只能包含基础类型、map[string]any 和 []any
func EncodeMessage(msgType string, payload map[string]any) ([]byte, error) {
	st, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, fmt.Errorf("转换消息 %s 失败: %w", msgType, err)
	}
	return encode(msgType, structpb.NewStructValue(st))
}

func encode(msgType string, payload *structpb.Value) ([]byte, error) {
	msg := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type":    structpb.NewStringValue(msgType),
			"payload": payload,
		},
	}
	return protojson.Marshal(msg)
}

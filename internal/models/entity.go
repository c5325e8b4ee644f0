// entity.go

package models

import (
	"math"
	"strings"
	"time"
)

// Vector2D 二维向量
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 向量加法
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量减法
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 数乘
func (v Vector2D) Scale(k float64) Vector2D {
	return Vector2D{X: v.X * k, Y: v.Y * k}
}

// LengthSquared 长度平方
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length 长度
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Distance 两点距离
func (v Vector2D) Distance(o Vector2D) float64 {
	return o.Sub(v).Length()
}

// Normalize 单位化，零向量保持不变
func (v Vector2D) Normalize() Vector2D {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector2D{X: v.X / l, Y: v.Y / l}
}

// Perpendicular 右手法向量
func (v Vector2D) Perpendicular() Vector2D {
	return Vector2D{X: v.Y, Y: -v.X}
}

// Angle 朝向角度(0-360)
func (v Vector2D) Angle() float64 {
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// EntityType 实体类型
type EntityType string

const (
	// EntityPlayer 玩家实体
	EntityPlayer EntityType = "player"
	// EntityEnemy 敌人实体
	EntityEnemy EntityType = "enemy"
	// EntityProjectile 投射物实体
	EntityProjectile EntityType = "projectile"
)

// Layer 实体层级掩码
type Layer uint32

const (
	// LayerPlayer 玩家层
	LayerPlayer Layer = 1 << iota
	// LayerEnemy 敌人层
	LayerEnemy
	// LayerObstacle 障碍物层
	LayerObstacle
)

var layerNames = map[string]Layer{
	"player":   LayerPlayer,
	"enemy":    LayerEnemy,
	"obstacle": LayerObstacle,
}

// ParseLayerMask 由层名称组合掩码，未知名称忽略
func ParseLayerMask(names []string) Layer {
	var mask Layer
	for _, name := range names {
		if l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			mask |= l
		}
	}
	return mask
}

// Entity 游戏实体基础接口
type Entity interface {
	GetID() string
	GetType() EntityType
	GetPosition() Vector2D
	GetRotation() float64
	GetCreatedAt() time.Time
}

// BaseEntity 基础实体结构
type BaseEntity struct {
	ID        string     `json:"id"`
	Type      EntityType `json:"type"`
	Position  Vector2D   `json:"position"`
	Rotation  float64    `json:"rotation"` // 角度(0-360)
	CreatedAt time.Time  `json:"created_at"`
}

// GetID 获取实体ID
func (e *BaseEntity) GetID() string {
	return e.ID
}

// GetType 获取实体类型
func (e *BaseEntity) GetType() EntityType {
	return e.Type
}

// GetPosition 获取实体位置
func (e *BaseEntity) GetPosition() Vector2D {
	return e.Position
}

// GetRotation 获取实体旋转
func (e *BaseEntity) GetRotation() float64 {
	return e.Rotation
}

// GetCreatedAt 获取实体创建时间
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// EnemyLevel 敌人等级
type EnemyLevel int

const (
	// EnemyStatic 静止
	EnemyStatic EnemyLevel = 1
	// EnemyWanderer 游荡
	EnemyWanderer EnemyLevel = 2
	// EnemyChaser 追击
	EnemyChaser EnemyLevel = 3
)

// EnemyEntity 敌人实体
type EnemyEntity struct {
	BaseEntity
	Level     EnemyLevel `json:"level"`
	Layer     Layer      `json:"layer"`
	Health    float64    `json:"health"`
	MaxHealth float64    `json:"max_health"`
	Alive     bool       `json:"alive"`
	Active    bool       `json:"active"`  // 死亡后失活，等待重生
	DiedAt    float64    `json:"died_at"` // 模拟时钟(秒)
}

// NewEnemyEntity 创建满血敌人
func NewEnemyEntity(id string, level EnemyLevel, pos Vector2D, maxHealth float64) *EnemyEntity {
	return &EnemyEntity{
		BaseEntity: BaseEntity{
			ID:        id,
			Type:      EntityEnemy,
			Position:  pos,
			CreatedAt: time.Now(),
		},
		Level:     level,
		Layer:     LayerEnemy,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Alive:     true,
		Active:    true,
	}
}

// TakeDamage 受到伤害，死亡后不再响应
func (e *EnemyEntity) TakeDamage(amount float64) {
	if !e.Alive {
		return
	}

	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.Alive = false
		e.Active = false
	}
}

// IsAlive 是否存活
func (e *EnemyEntity) IsAlive() bool {
	return e.Alive
}

// IsActive 是否处于场景中
func (e *EnemyEntity) IsActive() bool {
	return e.Active
}

// GetLayer 获取层级
func (e *EnemyEntity) GetLayer() Layer {
	return e.Layer
}

// Respawn 在新位置满血重生
func (e *EnemyEntity) Respawn(pos Vector2D) {
	e.Position = pos
	e.Health = e.MaxHealth
	e.Alive = true
	e.Active = true
	e.DiedAt = 0
}

// HealthRatio 血量比例
func (e *EnemyEntity) HealthRatio() float64 {
	if e.MaxHealth <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, e.Health/e.MaxHealth))
}

package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/combat"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/protocol"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

// ErrPlayerNotFound 玩家不在竞技场中
var ErrPlayerNotFound = errors.New("player not in arena")

// Arena 单个战斗场景：玩家技能、自动攻击、投射物与敌人刷新都在同一个循环里推进
type Arena struct {
	ID        string
	CreatedAt time.Time

	combatCfg config.CombatConfig
	catalog   *skill.Catalog
	enemyMask models.Layer
	world     *combat.World
	spawner   *EnemySpawner

	// 玩家管理
	players map[string]*PlayerState
	mutex   sync.Mutex

	frameID      int64
	tickInterval time.Duration
	hudEvery     int

	// 控制通道
	shutdown  chan struct{}
	isRunning bool
}

// PlayerState 玩家在竞技场中的状态
type PlayerState struct {
	Connection *PlayerConnection
	Skills     *skill.Orchestrator
	Position   models.Vector2D
	JoinedAt   time.Time

	attackCooldown float64
}

// NewArena 创建竞技场并刷出第一波敌人
func NewArena(cfg *config.Config, catalog *skill.Catalog) *Arena {
	world := combat.NewWorld(combat.SettingsFromConfig(cfg.Combat))
	a := &Arena{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		combatCfg:    cfg.Combat,
		catalog:      catalog,
		enemyMask:    models.ParseLayerMask(cfg.Combat.EnemyLayers),
		world:        world,
		spawner:      NewEnemySpawner(cfg.Spawner, world.Registry()),
		players:      make(map[string]*PlayerState),
		tickInterval: cfg.Server.TickInterval(),
		hudEvery:     cfg.Server.HUDEvery,
		shutdown:     make(chan struct{}),
	}
	if a.enemyMask == 0 {
		log.Printf("竞技场 %s: 敌人层级掩码为空，自动攻击与弹射将不会选中任何目标", a.ID)
	}

	a.spawner.Fill()
	return a
}

// Start 启动竞技场循环
func (a *Arena) Start() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.isRunning {
		return fmt.Errorf("竞技场已经在运行")
	}
	a.isRunning = true

	log.Printf("竞技场 %s 启动，帧间隔 %v", a.ID, a.tickInterval)
	go a.gameLoop()
	return nil
}

// Stop 停止竞技场循环
func (a *Arena) Stop() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if !a.isRunning {
		return
	}
	close(a.shutdown)
	a.isRunning = false

	log.Printf("竞技场 %s 已停止", a.ID)
}

// gameLoop 固定步长的主循环
func (a *Arena) gameLoop() {
	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()

	dt := a.tickInterval.Seconds()
	for {
		select {
		case <-ticker.C:
			a.Update(dt)
		case <-a.shutdown:
			return
		}
	}
}

// AddPlayer 玩家加入，在地图中心出生并获得一套全新的技能状态
func (a *Arena) AddPlayer(conn *PlayerConnection) *PlayerState {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	ps := &PlayerState{
		Connection: conn,
		Skills:     skill.NewOrchestrator(conn.PlayerID, a.catalog, a.enemyMask),
		JoinedAt:   time.Now(),
	}
	a.players[conn.ID] = ps

	log.Printf("玩家 %s 加入竞技场 %s", conn.PlayerID, a.ID)
	return ps
}

// RemovePlayer 玩家离开
func (a *Arena) RemovePlayer(connID string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	ps, ok := a.players[connID]
	if !ok {
		return
	}
	delete(a.players, connID)
	log.Printf("玩家 %s 离开竞技场 %s", ps.Connection.PlayerID, a.ID)
}

// PlayerCount 玩家数量
func (a *Arena) PlayerCount() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.players)
}

// ActivateSkill 激活玩家技能，返回值只用于界面反馈
func (a *Arena) ActivateSkill(connID string, t models.SkillType) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	ps, ok := a.players[connID]
	if !ok {
		return false, ErrPlayerNotFound
	}
	return ps.Skills.Activate(t), nil
}

// HUD 生成玩家当前的界面帧
func (a *Arena) HUD(connID string) (*protocol.HUDFrame, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	ps, ok := a.players[connID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return protocol.BuildHUDFrame(a.frameID, ps.Connection.PlayerID, ps.Skills, a.world), nil
}

// Update 推进一帧：技能计时 -> 自动攻击 -> 战斗世界 -> 敌人刷新 -> 推送界面
func (a *Arena) Update(dt float64) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.frameID++

	for _, ps := range a.players {
		ps.Skills.Tick(dt)
	}

	a.autoAttack(dt)
	a.world.Step(dt)
	a.spawner.Update(a.world.Now(), dt, a.playerPositions())

	if a.hudEvery > 0 && a.frameID%int64(a.hudEvery) == 0 {
		a.broadcastHUD()
	}
}

// autoAttack 每个玩家攻击射程内最近的敌人，攻击间隔受攻速倍率影响
func (a *Arena) autoAttack(dt float64) {
	for _, ps := range a.players {
		ps.attackCooldown -= dt
		if ps.attackCooldown > 0 {
			continue
		}

		nearby := a.world.Registry().Nearby(ps.Position, a.combatCfg.AttackRange, a.enemyMask, combat.Handle{})
		if len(nearby) == 0 {
			continue
		}

		snap := ps.Skills.BuildSnapshot()
		multiplier := snap.AttackSpeedMultiplier
		if multiplier <= 0 {
			multiplier = 1
		}
		a.world.FireSnapshot(snap, ps.Position, nearby[0])
		ps.attackCooldown = a.combatCfg.AttackInterval / multiplier
	}
}

func (a *Arena) playerPositions() []models.Vector2D {
	positions := make([]models.Vector2D, 0, len(a.players))
	for _, ps := range a.players {
		positions = append(positions, ps.Position)
	}
	return positions
}

// broadcastHUD 推送界面帧，发送通道已满的玩家跳过本帧
func (a *Arena) broadcastHUD() {
	for _, ps := range a.players {
		if ps.Connection == nil || ps.Connection.Send == nil {
			continue
		}

		frame := protocol.BuildHUDFrame(a.frameID, ps.Connection.PlayerID, ps.Skills, a.world)
		data, err := protocol.EncodeFrame(frame)
		if err != nil {
			log.Printf("序列化界面帧失败: %v", err)
			continue
		}

		select {
		case ps.Connection.Send <- data:
		default:
		}
	}
}

// World 战斗世界，只应在 Update 之外的测试或调试中读取
func (a *Arena) World() *combat.World {
	return a.world
}

// Spawner 敌人刷新器
func (a *Arena) Spawner() *EnemySpawner {
	return a.spawner
}

// FrameID 当前帧号
func (a *Arena) FrameID() int64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.frameID
}

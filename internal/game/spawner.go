package game

import (
	"log"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/combat"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

// 敌人行为参数
const (
	wanderSpeed     = 2.0
	wanderRadius    = 5.0
	wanderPauseTime = 2.0
	wanderArrive    = 0.3
	chaseSpeed      = 3.5
	chaseStopRange  = 1.5
)

// levelPattern 每5个敌人中 2个静止、2个游荡、1个追击
var levelPattern = []models.EnemyLevel{
	models.EnemyStatic,
	models.EnemyStatic,
	models.EnemyWanderer,
	models.EnemyWanderer,
	models.EnemyChaser,
}

// spawnedEnemy 刷新器管理的敌人
type spawnedEnemy struct {
	entity    *models.EnemyEntity
	handle    combat.Handle
	home      models.Vector2D
	wanderTo  models.Vector2D
	wandering bool
	pause     float64
	dead      bool
	respawnIn float64
}

// EnemySpawner 保持场上敌人数量，死亡的敌人延迟后在随机位置重生
type EnemySpawner struct {
	cfg      config.SpawnerConfig
	registry *combat.Registry
	rng      *rand.Rand
	enemies  []*spawnedEnemy
}

// NewEnemySpawner 创建刷新器，随机数种子来自配置
func NewEnemySpawner(cfg config.SpawnerConfig, registry *combat.Registry) *EnemySpawner {
	return &EnemySpawner{
		cfg:      cfg,
		registry: registry,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Fill 补足最少敌人数量
func (s *EnemySpawner) Fill() {
	for len(s.enemies) < s.cfg.MinEnemyCount {
		s.spawn(levelPattern[len(s.enemies)%len(levelPattern)])
	}
}

func (s *EnemySpawner) spawn(level models.EnemyLevel) *spawnedEnemy {
	pos := s.randomPosition()
	entity := models.NewEnemyEntity(uuid.New().String(), level, pos, s.cfg.EnemyMaxHealth)
	e := &spawnedEnemy{
		entity: entity,
		handle: s.registry.Insert(entity),
		home:   pos,
		pause:  wanderPauseTime,
	}
	s.enemies = append(s.enemies, e)
	return e
}

func (s *EnemySpawner) randomPosition() models.Vector2D {
	return models.Vector2D{
		X: (s.rng.Float64() - 0.5) * s.cfg.MapWidth,
		Y: (s.rng.Float64() - 0.5) * s.cfg.MapHeight,
	}
}

// Update 处理死亡与重生，并移动存活的敌人
func (s *EnemySpawner) Update(now, dt float64, players []models.Vector2D) {
	for _, e := range s.enemies {
		if !e.entity.IsAlive() {
			if !e.dead {
				e.dead = true
				e.entity.DiedAt = now
				e.respawnIn = s.cfg.RespawnDelay
				log.Printf("敌人 %s 死亡，%.1f秒后重生", e.entity.ID, s.cfg.RespawnDelay)
			}
			e.respawnIn -= dt
			if e.respawnIn <= 0 {
				s.respawn(e)
			}
			continue
		}

		switch e.entity.Level {
		case models.EnemyWanderer:
			s.wander(e, dt)
		case models.EnemyChaser:
			chase(e, dt, players)
		}
	}

	s.Fill()
}

// respawn 重生使用新的句柄，飞行中的投射物不会追向重生后的敌人
func (s *EnemySpawner) respawn(e *spawnedEnemy) {
	pos := s.randomPosition()
	e.entity.Respawn(pos)

	h, ok := s.registry.Replace(e.handle, e.entity)
	if !ok {
		h = s.registry.Insert(e.entity)
	}
	e.handle = h
	e.home = pos
	e.dead = false
	e.wandering = false
	e.pause = wanderPauseTime

	log.Printf("敌人 %s 在 (%.1f, %.1f) 重生", e.entity.ID, pos.X, pos.Y)
}

func (s *EnemySpawner) wander(e *spawnedEnemy, dt float64) {
	if !e.wandering {
		e.pause -= dt
		if e.pause <= 0 {
			angle := s.rng.Float64() * 2 * math.Pi
			r := math.Sqrt(s.rng.Float64()) * wanderRadius
			e.wanderTo = e.home.Add(models.Vector2D{X: math.Cos(angle) * r, Y: math.Sin(angle) * r})
			e.wandering = true
		}
		return
	}

	dir := e.wanderTo.Sub(e.entity.Position)
	if dir.Length() < wanderArrive {
		e.wandering = false
		e.pause = wanderPauseTime
		return
	}
	moveToward(e.entity, dir, wanderSpeed*dt)
}

func chase(e *spawnedEnemy, dt float64, players []models.Vector2D) {
	if len(players) == 0 {
		return
	}

	nearest := players[0]
	for _, p := range players[1:] {
		if e.entity.Position.Distance(p) < e.entity.Position.Distance(nearest) {
			nearest = p
		}
	}

	dir := nearest.Sub(e.entity.Position)
	if dir.Length() <= chaseStopRange {
		return
	}
	moveToward(e.entity, dir, chaseSpeed*dt)
}

func moveToward(entity *models.EnemyEntity, dir models.Vector2D, step float64) {
	n := dir.Normalize()
	entity.Position = entity.Position.Add(n.Scale(step))
	entity.Rotation = n.Angle()
}

// Enemies 所有敌人(包括等待重生的)
func (s *EnemySpawner) Enemies() []*models.EnemyEntity {
	out := make([]*models.EnemyEntity, len(s.enemies))
	for i, e := range s.enemies {
		out[i] = e.entity
	}
	return out
}

// Handle 敌人当前的句柄
func (s *EnemySpawner) Handle(id string) (combat.Handle, bool) {
	for _, e := range s.enemies {
		if e.entity.ID == id {
			return e.handle, true
		}
	}
	return combat.Handle{}, false
}

// AliveCount 存活敌人数量
func (s *EnemySpawner) AliveCount() int {
	n := 0
	for _, e := range s.enemies {
		if e.entity.IsAlive() {
			n++
		}
	}
	return n
}

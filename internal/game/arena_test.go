package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			GamePort: 0,
			TickRate: 60,
			HUDEvery: 2,
		},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
		Combat: config.CombatConfig{
			AttackDamage:       25,
			ProjectileSpeed:    20,
			ProjectileLifetime: 4,
			HitDistance:        0.2,
			OrphanLifetime:     0.5,
			BounceDedupWindow:  0.15,
			TargetOffset:       []float64{0, 0},
			SpawnOffset:        []float64{0, 0},
			EnemyLayers:        []string{"enemy"},
			AttackInterval:     1,
			AttackRange:        100,
			UseProjectiles:     true,
		},
		Spawner: config.SpawnerConfig{
			MinEnemyCount:  5,
			RespawnDelay:   2,
			MapWidth:       30,
			MapHeight:      30,
			EnemyMaxHealth: 100,
			Seed:           1,
		},
	}
}

func testCatalog(t *testing.T) *skill.Catalog {
	t.Helper()
	timing := config.SkillTiming{Duration: 5, Cooldown: 10}
	c, err := skill.NewCatalog(config.SkillsConfig{
		AttackSpeed: &config.AttackSpeedSkillConfig{
			SkillTiming:         timing,
			BaseSpeedMultiplier: 2,
			RageSpeedMultiplier: 4,
		},
		RageMode: &config.RageModeSkillConfig{SkillTiming: timing},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func newTestConnection(id string) *PlayerConnection {
	return &PlayerConnection{
		ID:       id,
		PlayerID: "player-" + id,
		Send:     make(chan []byte, 16),
	}
}

func totalEnemyHealth(a *Arena) float64 {
	total := 0.0
	for _, e := range a.Spawner().Enemies() {
		total += e.Health
	}
	return total
}

func TestArena_InitialWave(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	if got := len(a.Spawner().Enemies()); got != 5 {
		t.Fatalf("enemies = %d, want 5", got)
	}
	if a.World().Registry().Len() != 5 {
		t.Errorf("registry Len = %d, want 5", a.World().Registry().Len())
	}
}

func TestArena_AutoAttackDamagesEnemies(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	a.AddPlayer(newTestConnection("c1"))

	for i := 0; i < 120; i++ {
		a.Update(1.0 / 60)
	}

	if got := totalEnemyHealth(a); got >= 500 {
		t.Errorf("total enemy health = %v, want damage after 2s of auto attacks", got)
	}
}

func TestArena_DirectDamageWithoutProjectiles(t *testing.T) {
	cfg := testConfig()
	cfg.Combat.UseProjectiles = false
	a := NewArena(cfg, testCatalog(t))
	a.AddPlayer(newTestConnection("c1"))

	a.Update(0.1)

	if got := totalEnemyHealth(a); got != 475 {
		t.Errorf("total enemy health = %v, want 475 after one direct hit", got)
	}
	if n := len(a.World().Projectiles()); n != 0 {
		t.Errorf("direct attack spawned %d projectiles", n)
	}
}

func TestArena_AttackSpeedShortensInterval(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	ps := a.AddPlayer(newTestConnection("c1"))

	a.Update(0.1)
	if ps.attackCooldown != 1 {
		t.Fatalf("attackCooldown = %v, want 1", ps.attackCooldown)
	}

	b := NewArena(testConfig(), testCatalog(t))
	fast := b.AddPlayer(newTestConnection("c1"))
	if ok, err := b.ActivateSkill("c1", models.AttackSpeed); !ok || err != nil {
		t.Fatalf("ActivateSkill = %v, %v", ok, err)
	}
	b.Update(0.1)
	if fast.attackCooldown != 0.5 {
		t.Errorf("attackCooldown with attack speed = %v, want 0.5", fast.attackCooldown)
	}
}

func TestArena_ActivateSkill(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	a.AddPlayer(newTestConnection("c1"))

	if _, err := a.ActivateSkill("missing", models.RageMode); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}

	if ok, _ := a.ActivateSkill("c1", models.RageMode); !ok {
		t.Fatal("first activation failed")
	}
	if ok, _ := a.ActivateSkill("c1", models.RageMode); ok {
		t.Error("activation while active succeeded")
	}
	if ok, _ := a.ActivateSkill("c1", models.ChainBounce); ok {
		t.Error("unconfigured skill activated")
	}
}

func TestArena_HUDBroadcast(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	conn := newTestConnection("c1")
	a.AddPlayer(conn)

	a.Update(0.1)
	if len(conn.Send) != 0 {
		t.Fatalf("HUD pushed on frame 1 with hud_every=2")
	}

	a.Update(0.1)
	if len(conn.Send) != 1 {
		t.Fatalf("queued messages = %d, want 1", len(conn.Send))
	}

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			FrameID  float64 `json:"frame_id"`
			PlayerID string  `json:"player_id"`
			Enemies  []any   `json:"enemies"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(<-conn.Send, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "hud" || msg.Payload.FrameID != 2 || msg.Payload.PlayerID != "player-c1" {
		t.Errorf("msg = %+v", msg)
	}
	if len(msg.Payload.Enemies) != 5 {
		t.Errorf("enemies in HUD = %d, want 5", len(msg.Payload.Enemies))
	}
}

func TestArena_RemovePlayer(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	a.AddPlayer(newTestConnection("c1"))
	a.RemovePlayer("c1")
	a.RemovePlayer("c1")

	if a.PlayerCount() != 0 {
		t.Errorf("PlayerCount = %d, want 0", a.PlayerCount())
	}
	if _, err := a.HUD("c1"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("HUD err = %v", err)
	}
}

func TestArena_StartStop(t *testing.T) {
	a := NewArena(testConfig(), testCatalog(t))
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Start(); err == nil {
		t.Error("second Start succeeded")
	}
	a.Stop()
	a.Stop()
}

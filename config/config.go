// config.go

package config

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"
)

// Config 服务器配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Spawner  SpawnerConfig  `mapstructure:"spawner"`
	Skills   SkillsConfig   `mapstructure:"skills"`
}

// ServerConfig 服务器基本配置
type ServerConfig struct {
	GamePort int    `mapstructure:"game_port"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	TickRate int    `mapstructure:"tick_rate"` // 每秒模拟帧数
	HUDEvery int    `mapstructure:"hud_every"` // 每隔多少帧推送一次HUD
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret"`
	TokenTTL             time.Duration `mapstructure:"token_ttl"`
	ConnectionsPerMinute int           `mapstructure:"connections_per_minute"`
}

// CombatConfig 战斗参数
type CombatConfig struct {
	AttackDamage       float64   `mapstructure:"attack_damage"`
	ProjectileSpeed    float64   `mapstructure:"projectile_speed"`
	ProjectileLifetime float64   `mapstructure:"projectile_lifetime"` // 秒
	HitDistance        float64   `mapstructure:"hit_distance"`
	OrphanLifetime     float64   `mapstructure:"orphan_lifetime"` // 目标丢失后的宽限时间(秒)
	RotateToVelocity   bool      `mapstructure:"rotate_to_velocity"`
	BounceDedupWindow  float64   `mapstructure:"bounce_dedup_window"`
	TargetOffset       []float64 `mapstructure:"target_offset"`
	SpawnOffset        []float64 `mapstructure:"spawn_offset"`
	EnemyLayers        []string  `mapstructure:"enemy_layers"`
	AttackInterval     float64   `mapstructure:"attack_interval"` // 基础攻击间隔(秒)
	AttackRange        float64   `mapstructure:"attack_range"`
	UseProjectiles     bool      `mapstructure:"use_projectiles"`
}

// SpawnerConfig 敌人刷新配置
type SpawnerConfig struct {
	MinEnemyCount  int     `mapstructure:"min_enemy_count"`
	RespawnDelay   float64 `mapstructure:"respawn_delay"`
	MapWidth       float64 `mapstructure:"map_width"`
	MapHeight      float64 `mapstructure:"map_height"`
	EnemyMaxHealth float64 `mapstructure:"enemy_max_health"`
	Seed           int64   `mapstructure:"seed"`
}

// SkillsConfig 技能目录配置，未配置的技能块为nil
type SkillsConfig struct {
	Source      string                  `mapstructure:"source" json:"-"` // file 或 db
	CacheTTL    time.Duration           `mapstructure:"cache_ttl" json:"-"`
	MultiArrow  *MultiArrowSkillConfig  `mapstructure:"multi_arrow" json:"multi_arrow,omitempty"`
	BurnDamage  *BurnDamageSkillConfig  `mapstructure:"burn_damage" json:"burn_damage,omitempty"`
	AttackSpeed *AttackSpeedSkillConfig `mapstructure:"attack_speed" json:"attack_speed,omitempty"`
	RageMode    *RageModeSkillConfig    `mapstructure:"rage_mode" json:"rage_mode,omitempty"`
	ChainBounce *ChainBounceSkillConfig `mapstructure:"chain_bounce" json:"chain_bounce,omitempty"`
}

// SkillTiming 技能通用字段
type SkillTiming struct {
	Name        string  `mapstructure:"name" json:"name"`
	Description string  `mapstructure:"description" json:"description"`
	Duration    float64 `mapstructure:"duration" json:"duration"`
	Cooldown    float64 `mapstructure:"cooldown" json:"cooldown"`
}

// MultiArrowSkillConfig 多重箭配置
type MultiArrowSkillConfig struct {
	SkillTiming    `mapstructure:",squash"`
	BaseArrowCount int     `mapstructure:"base_arrow_count" json:"base_arrow_count"`
	RageArrowCount int     `mapstructure:"rage_arrow_count" json:"rage_arrow_count"`
	SpreadOffset   float64 `mapstructure:"spread_offset" json:"spread_offset"`
}

// BurnDamageSkillConfig 灼烧配置
type BurnDamageSkillConfig struct {
	SkillTiming      `mapstructure:",squash"`
	DamagePerTick    float64 `mapstructure:"damage_per_tick" json:"damage_per_tick"`
	BaseBurnDuration float64 `mapstructure:"base_burn_duration" json:"base_burn_duration"`
	RageBurnDuration float64 `mapstructure:"rage_burn_duration" json:"rage_burn_duration"`
	TickInterval     float64 `mapstructure:"tick_interval" json:"tick_interval"`
	MaxStacks        int     `mapstructure:"max_stacks" json:"max_stacks"`
}

// AttackSpeedSkillConfig 攻速配置
type AttackSpeedSkillConfig struct {
	SkillTiming         `mapstructure:",squash"`
	BaseSpeedMultiplier float64 `mapstructure:"base_speed_multiplier" json:"base_speed_multiplier"`
	RageSpeedMultiplier float64 `mapstructure:"rage_speed_multiplier" json:"rage_speed_multiplier"`
}

// RageModeSkillConfig 狂暴配置，只有通用字段
type RageModeSkillConfig struct {
	SkillTiming `mapstructure:",squash"`
}

// ChainBounceSkillConfig 弹射配置
type ChainBounceSkillConfig struct {
	SkillTiming     `mapstructure:",squash"`
	BaseBounceCount int     `mapstructure:"base_bounce_count" json:"base_bounce_count"`
	RageBounceCount int     `mapstructure:"rage_bounce_count" json:"rage_bounce_count"`
	BounceRadius    float64 `mapstructure:"bounce_radius" json:"bounce_radius"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig Config
)

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) error {
	v := newViper()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("无法读取配置文件: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return err
	}

	GlobalConfig = *cfg
	return nil
}

// LoadConfigFromReader 从内存数据加载配置，format 为 yaml/json/toml
func LoadConfigFromReader(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("无法读取配置数据: %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// newViper 创建带默认值的viper实例
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.game_port", 8081)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.tick_rate", 60)
	v.SetDefault("server.hud_every", 6)

	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.connections_per_minute", 30)

	v.SetDefault("combat.attack_damage", 25.0)
	v.SetDefault("combat.projectile_speed", 20.0)
	v.SetDefault("combat.projectile_lifetime", 4.0)
	v.SetDefault("combat.hit_distance", 0.2)
	v.SetDefault("combat.orphan_lifetime", 0.5)
	v.SetDefault("combat.rotate_to_velocity", true)
	v.SetDefault("combat.bounce_dedup_window", 0.15)
	v.SetDefault("combat.target_offset", []float64{0, 0})
	v.SetDefault("combat.spawn_offset", []float64{0, 0})
	v.SetDefault("combat.enemy_layers", []string{"enemy"})
	v.SetDefault("combat.attack_interval", 1.0)
	v.SetDefault("combat.attack_range", 12.0)
	v.SetDefault("combat.use_projectiles", true)

	v.SetDefault("spawner.min_enemy_count", 5)
	v.SetDefault("spawner.respawn_delay", 2.0)
	v.SetDefault("spawner.map_width", 30.0)
	v.SetDefault("spawner.map_height", 30.0)
	v.SetDefault("spawner.enemy_max_health", 100.0)
	v.SetDefault("spawner.seed", 1)

	v.SetDefault("skills.source", "file")
	v.SetDefault("skills.cache_ttl", 10*time.Minute)

	return v
}

// Validate 校验运行时公式依赖的数值
func (c *Config) Validate() error {
	cc := c.Combat
	if cc.ProjectileSpeed <= 0 {
		return fmt.Errorf("combat.projectile_speed 必须大于0: %v", cc.ProjectileSpeed)
	}
	if cc.ProjectileLifetime <= 0 {
		return fmt.Errorf("combat.projectile_lifetime 必须大于0: %v", cc.ProjectileLifetime)
	}
	if cc.HitDistance < 0 {
		return fmt.Errorf("combat.hit_distance 不能为负: %v", cc.HitDistance)
	}
	if cc.OrphanLifetime < 0 {
		return fmt.Errorf("combat.orphan_lifetime 不能为负: %v", cc.OrphanLifetime)
	}
	if cc.BounceDedupWindow <= 0 {
		return fmt.Errorf("combat.bounce_dedup_window 必须大于0: %v", cc.BounceDedupWindow)
	}
	if cc.AttackInterval <= 0 {
		return fmt.Errorf("combat.attack_interval 必须大于0: %v", cc.AttackInterval)
	}
	if len(cc.TargetOffset) != 0 && len(cc.TargetOffset) != 2 {
		return fmt.Errorf("combat.target_offset 需要两个分量")
	}
	if len(cc.SpawnOffset) != 0 && len(cc.SpawnOffset) != 2 {
		return fmt.Errorf("combat.spawn_offset 需要两个分量")
	}
	if c.Server.TickRate <= 0 {
		return fmt.Errorf("server.tick_rate 必须大于0: %d", c.Server.TickRate)
	}
	switch c.Skills.Source {
	case "", "file", "db":
	default:
		return fmt.Errorf("未知的技能数据来源: %s", c.Skills.Source)
	}
	return nil
}

// GetDSN 获取PostgreSQL连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetRedisAddr 获取Redis连接地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TickInterval 每帧时长
func (c *ServerConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return 16 * time.Millisecond
	}
	return time.Second / time.Duration(c.TickRate)
}

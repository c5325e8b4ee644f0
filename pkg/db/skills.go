package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/lib/pq"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

// SkillsCacheKey Redis中技能目录的缓存键
const SkillsCacheKey = "pixelstorm:combat:skills"

// skillRow skill_definitions 表的一行
type skillRow struct {
	SkillType   string
	Name        string
	Description string
	Duration    float64
	Cooldown    float64
	Params      []byte
}

// LoadSkillsConfig 从数据库读取技能目录
func LoadSkillsConfig(ctx context.Context) (config.SkillsConfig, error) {
	rows, err := DB.QueryContext(ctx, `
		SELECT skill_type, name, COALESCE(description, ''), duration, cooldown, params
		FROM skill_definitions
		ORDER BY skill_type`)
	if err != nil {
		return config.SkillsConfig{}, fmt.Errorf("查询技能定义失败: %w", err)
	}
	defer rows.Close()

	var loaded []skillRow
	for rows.Next() {
		var r skillRow
		if err := rows.Scan(&r.SkillType, &r.Name, &r.Description, &r.Duration, &r.Cooldown, &r.Params); err != nil {
			return config.SkillsConfig{}, fmt.Errorf("读取技能定义失败: %w", err)
		}
		loaded = append(loaded, r)
	}
	if err := rows.Err(); err != nil {
		return config.SkillsConfig{}, fmt.Errorf("遍历技能定义失败: %w", err)
	}

	return decodeSkillRows(loaded)
}

// SaveSkillsConfig 在一个事务中用配置替换整个技能目录，配置中不再出现的技能会被删除
func SaveSkillsConfig(ctx context.Context, cfg config.SkillsConfig) error {
	rows, err := encodeSkillRows(cfg)
	if err != nil {
		return err
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skill_definitions (skill_type, name, description, duration, cooldown, params, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (skill_type) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			duration = EXCLUDED.duration,
			cooldown = EXCLUDED.cooldown,
			params = EXCLUDED.params,
			updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("准备语句失败: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.SkillType, r.Name, r.Description, r.Duration, r.Cooldown, string(r.Params)); err != nil {
			return fmt.Errorf("写入技能 %s 失败: %w", r.SkillType, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM skill_definitions WHERE skill_type <> ALL($1)`,
		pq.Array(skillTypeNames(rows))); err != nil {
		return fmt.Errorf("删除过期技能失败: %w", err)
	}

	return tx.Commit()
}

// CacheSkillsConfig 将技能目录写入Redis，ttl<=0 表示不过期
func CacheSkillsConfig(ctx context.Context, cfg config.SkillsConfig, ttl time.Duration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化技能目录失败: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return RedisClient.Set(ctx, SkillsCacheKey, data, ttl).Err()
}

// CachedSkillsConfig 读取Redis中的技能目录，未命中时 found 为 false
func CachedSkillsConfig(ctx context.Context) (config.SkillsConfig, bool, error) {
	data, err := RedisClient.Get(ctx, SkillsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return config.SkillsConfig{}, false, nil
	}
	if err != nil {
		return config.SkillsConfig{}, false, fmt.Errorf("读取技能缓存失败: %w", err)
	}

	var cfg config.SkillsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.SkillsConfig{}, false, fmt.Errorf("解析技能缓存失败: %w", err)
	}
	return cfg, true, nil
}

// encodeSkillRows 每个已配置的技能块对应一行，专属数值整体存入 params
func encodeSkillRows(cfg config.SkillsConfig) ([]skillRow, error) {
	var rows []skillRow
	add := func(t models.SkillType, timing config.SkillTiming, block any) error {
		params, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("序列化技能 %s 失败: %w", t, err)
		}
		name := timing.Name
		if name == "" {
			name = t.String()
		}
		rows = append(rows, skillRow{
			SkillType:   t.String(),
			Name:        name,
			Description: timing.Description,
			Duration:    timing.Duration,
			Cooldown:    timing.Cooldown,
			Params:      params,
		})
		return nil
	}

	var err error
	if c := cfg.MultiArrow; c != nil {
		err = errors.Join(err, add(models.MultiArrow, c.SkillTiming, c))
	}
	if c := cfg.BurnDamage; c != nil {
		err = errors.Join(err, add(models.BurnDamage, c.SkillTiming, c))
	}
	if c := cfg.AttackSpeed; c != nil {
		err = errors.Join(err, add(models.AttackSpeed, c.SkillTiming, c))
	}
	if c := cfg.RageMode; c != nil {
		err = errors.Join(err, add(models.RageMode, c.SkillTiming, c))
	}
	if c := cfg.ChainBounce; c != nil {
		err = errors.Join(err, add(models.ChainBounce, c.SkillTiming, c))
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// skillTypeNames 行集合中的技能类型，空配置返回空切片而不是 nil
func skillTypeNames(rows []skillRow) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.SkillType)
	}
	return names
}

// decodeSkillRows 还原技能配置，表列中的时间数值覆盖 params 中的同名字段
func decodeSkillRows(rows []skillRow) (config.SkillsConfig, error) {
	var cfg config.SkillsConfig
	for _, r := range rows {
		t, err := models.ParseSkillType(r.SkillType)
		if err != nil {
			return config.SkillsConfig{}, fmt.Errorf("%w: %v", models.ErrInvalidSkillConfig, err)
		}

		timing := config.SkillTiming{
			Name:        r.Name,
			Description: r.Description,
			Duration:    r.Duration,
			Cooldown:    r.Cooldown,
		}
		params := r.Params
		if len(params) == 0 {
			params = []byte("{}")
		}

		switch t {
		case models.MultiArrow:
			c := &config.MultiArrowSkillConfig{}
			err = json.Unmarshal(params, c)
			c.SkillTiming = timing
			cfg.MultiArrow = c
		case models.BurnDamage:
			c := &config.BurnDamageSkillConfig{}
			err = json.Unmarshal(params, c)
			c.SkillTiming = timing
			cfg.BurnDamage = c
		case models.AttackSpeed:
			c := &config.AttackSpeedSkillConfig{}
			err = json.Unmarshal(params, c)
			c.SkillTiming = timing
			cfg.AttackSpeed = c
		case models.RageMode:
			c := &config.RageModeSkillConfig{}
			err = json.Unmarshal(params, c)
			c.SkillTiming = timing
			cfg.RageMode = c
		case models.ChainBounce:
			c := &config.ChainBounceSkillConfig{}
			err = json.Unmarshal(params, c)
			c.SkillTiming = timing
			cfg.ChainBounce = c
		}
		if err != nil {
			return config.SkillsConfig{}, fmt.Errorf("%w: 技能 %s 的数值无法解析: %v", models.ErrInvalidSkillConfig, r.SkillType, err)
		}
	}
	return cfg, nil
}

// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/game"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
	"github.com/jacl-coder/PixelStorm-Combat/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	cfg := &config.GlobalConfig

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("加载技能目录失败: %v", err)
	}
	log.Printf("技能目录已加载，来源: %s，共 %d 个技能", sourceName(cfg.Skills.Source), catalog.Len())

	server := game.NewGameServer(cfg, catalog)
	if err := server.Start(); err != nil {
		log.Fatalf("启动游戏服务器失败: %v", err)
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("接收到关闭信号，正在关闭服务器...")
	if err := server.Stop(); err != nil {
		log.Printf("关闭游戏服务器失败: %v", err)
	}
	log.Println("服务器已安全关闭")
}

// loadCatalog 按配置的来源加载技能目录。db 来源先查Redis缓存，未命中再读PostgreSQL并回写缓存
func loadCatalog(cfg *config.Config) (*skill.Catalog, error) {
	if cfg.Skills.Source != "db" {
		return skill.NewCatalog(cfg.Skills)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.InitPostgres(ctx, cfg.Database); err != nil {
		return nil, err
	}
	defer db.Close()

	cacheReady := true
	if err := db.InitRedis(ctx, cfg.Redis); err != nil {
		log.Printf("Redis不可用，跳过技能缓存: %v", err)
		cacheReady = false
	} else {
		defer db.CloseRedis()
	}

	if cacheReady {
		cached, found, err := db.CachedSkillsConfig(ctx)
		if err != nil {
			log.Printf("读取技能缓存失败: %v", err)
		} else if found {
			log.Println("使用Redis中缓存的技能目录")
			return skill.NewCatalog(cached)
		}
	}

	skills, err := db.LoadSkillsConfig(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := skill.NewCatalog(skills)
	if err != nil {
		return nil, fmt.Errorf("数据库中的技能定义无效: %w", err)
	}

	if cacheReady {
		if err := db.CacheSkillsConfig(ctx, skills, cfg.Skills.CacheTTL); err != nil {
			log.Printf("写入技能缓存失败: %v", err)
		}
	}
	return catalog, nil
}

func sourceName(source string) string {
	if source == "" {
		return "file"
	}
	return source
}

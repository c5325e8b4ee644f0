// main.go

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
	"github.com/jacl-coder/PixelStorm-Combat/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	action := flag.String("action", "help", "操作类型: reset, init, seed, setup, help")
	flag.Parse()

	// 显示帮助信息
	if *action == "help" {
		showHelp()
		return
	}

	// 加载配置
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 初始化数据库连接
	if err := db.InitPostgres(ctx, config.GlobalConfig.Database); err != nil {
		log.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	defer db.Close()

	// 执行操作
	switch *action {
	case "reset":
		resetDatabase(ctx)
	case "init":
		initDatabase(ctx)
	case "seed":
		seedSkills(ctx)
	case "setup":
		resetDatabase(ctx)
		initDatabase(ctx)
		seedSkills(ctx)
	default:
		log.Fatalf("未知操作: %s", *action)
	}
}

// showHelp 显示帮助信息
func showHelp() {
	log.Println("PixelStorm Combat 数据库管理工具")
	log.Println("")
	log.Println("用法:")
	log.Println("  go run ./cmd/dbtool -action=<操作> [-config=<配置文件>]")
	log.Println("")
	log.Println("操作:")
	log.Println("  reset  - 重置数据库（删除所有表和数据）")
	log.Println("  init   - 初始化数据库（创建表结构）")
	log.Println("  seed   - 将配置文件中的技能目录写入数据库并刷新Redis缓存")
	log.Println("  setup  - 依次执行 reset、init、seed")
	log.Println("  help   - 显示此帮助信息")
}

// resetDatabase 重置数据库
func resetDatabase(ctx context.Context) {
	log.Println("正在重置数据库，这将删除所有表和数据")
	if err := db.ResetSchema(ctx); err != nil {
		log.Fatalf("重置数据库失败: %v", err)
	}
	log.Println("数据库已重置")
}

// initDatabase 初始化数据库
func initDatabase(ctx context.Context) {
	log.Println("正在创建表结构...")
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("创建表结构失败: %v", err)
	}
	log.Println("表结构已创建")
}

// seedSkills 写入技能目录，写入前先按服务器的规则校验
func seedSkills(ctx context.Context) {
	skills := config.GlobalConfig.Skills

	catalog, err := skill.NewCatalog(skills)
	if err != nil {
		log.Fatalf("配置文件中的技能目录无效: %v", err)
	}
	if err := db.SaveSkillsConfig(ctx, skills); err != nil {
		log.Fatalf("写入技能目录失败: %v", err)
	}
	log.Printf("已写入 %d 个技能定义", catalog.Len())

	if err := db.InitRedis(ctx, config.GlobalConfig.Redis); err != nil {
		log.Printf("Redis不可用，跳过缓存刷新: %v", err)
		return
	}
	defer db.CloseRedis()

	if err := db.CacheSkillsConfig(ctx, skills, config.GlobalConfig.Skills.CacheTTL); err != nil {
		log.Printf("刷新技能缓存失败: %v", err)
		return
	}
	log.Println("Redis技能缓存已刷新")
}

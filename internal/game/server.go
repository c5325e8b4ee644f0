package game

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jacl-coder/PixelStorm-Combat/config"
	"github.com/jacl-coder/PixelStorm-Combat/internal/skill"
)

// GameServer 游戏服务器
type GameServer struct {
	config      *config.Config
	arena       *Arena
	tokens      *TokenIssuer
	limiter     *RateLimiter
	httpServer  *http.Server
	connections map[string]*PlayerConnection
	connMutex   sync.RWMutex

	// 关闭信号
	shutdown  chan struct{}
	isRunning bool
}

// PlayerConnection 玩家连接
type PlayerConnection struct {
	ID       string
	PlayerID string

	// 通信通道
	Send chan []byte
}

// NewGameServer 创建新的游戏服务器
func NewGameServer(cfg *config.Config, catalog *skill.Catalog) *GameServer {
	return &GameServer{
		config:      cfg,
		arena:       NewArena(cfg, catalog),
		tokens:      NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		limiter:     NewRateLimiter(cfg.Auth.ConnectionsPerMinute),
		connections: make(map[string]*PlayerConnection),
		shutdown:    make(chan struct{}),
	}
}

// Arena 服务器的竞技场
func (s *GameServer) Arena() *Arena {
	return s.arena
}

// Tokens 令牌签发器
func (s *GameServer) Tokens() *TokenIssuer {
	return s.tokens
}

// Start 启动游戏服务器
func (s *GameServer) Start() error {
	if s.isRunning {
		return fmt.Errorf("服务器已经在运行")
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Server.GamePort),
		Handler: s.Handler(),
	}

	go func() {
		log.Printf("游戏服务器启动，监听端口: %d", s.config.Server.GamePort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	if err := s.arena.Start(); err != nil {
		return err
	}
	go s.maintenance()

	s.isRunning = true
	return nil
}

// Stop 停止游戏服务器
func (s *GameServer) Stop() error {
	if !s.isRunning {
		return nil
	}

	close(s.shutdown)
	s.arena.Stop()

	s.connMutex.Lock()
	for id, conn := range s.connections {
		s.arena.RemovePlayer(id)
		close(conn.Send)
		delete(s.connections, id)
	}
	s.connMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	s.isRunning = false
	log.Println("游戏服务器已停止")
	return nil
}

// Handler 创建HTTP处理器
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket 连接端点
	mux.Handle("/ws", s.limiter.Middleware(http.HandlerFunc(s.handleWSConnection)))

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if s.config.Server.Debug {
		mux.HandleFunc("/auth/token", s.tokens.handleIssueToken)
	}

	return mux
}

// maintenance 定期清理频率限制记录
func (s *GameServer) maintenance() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.limiter.Cleanup(10 * time.Minute); n > 0 {
				log.Printf("清理了 %d 个空闲客户端记录", n)
			}
		case <-s.shutdown:
			return
		}
	}
}

// ConnectionCount 当前连接数
func (s *GameServer) ConnectionCount() int {
	s.connMutex.RLock()
	defer s.connMutex.RUnlock()
	return len(s.connections)
}

// websocket.go

package game

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
	"github.com/jacl-coder/PixelStorm-Combat/internal/protocol"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 允许所有跨域请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message 消息结构
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ActivateSkillRequest 技能激活请求
type ActivateSkillRequest struct {
	Skill string `json:"skill"`
}

// handleWSConnection 处理WebSocket连接
func (s *GameServer) handleWSConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}

	playerID, err := s.tokens.Parse(token)
	if err != nil {
		log.Printf("令牌校验失败: %v", err)
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		return
	}

	playerConn := &PlayerConnection{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		Send:     make(chan []byte, 256),
	}

	s.connMutex.Lock()
	s.connections[playerConn.ID] = playerConn
	s.connMutex.Unlock()

	s.arena.AddPlayer(playerConn)
	log.Printf("玩家 %s 已连接", playerID)

	s.sendMessage(playerConn, "joined", map[string]any{
		"player_id": playerID,
		"arena_id":  s.arena.ID,
	})

	go s.readPump(conn, playerConn)
	go s.writePump(conn, playerConn)
}

// readPump 从WebSocket读取数据
func (s *GameServer) readPump(conn *websocket.Conn, player *PlayerConnection) {
	defer func() {
		s.closeConnection(player)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket错误: %v", err)
			}
			break
		}

		s.handleMessage(player, message)
	}
}

// writePump 向WebSocket写入数据
func (s *GameServer) writePump(conn *websocket.Conn, player *PlayerConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-player.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection 关闭玩家连接。先移出竞技场，竞技场不会再向已关闭的通道推送。
func (s *GameServer) closeConnection(player *PlayerConnection) {
	s.connMutex.Lock()
	defer s.connMutex.Unlock()

	if _, ok := s.connections[player.ID]; !ok {
		return
	}

	s.arena.RemovePlayer(player.ID)
	close(player.Send)
	delete(s.connections, player.ID)

	log.Printf("玩家 %s 已断开连接", player.PlayerID)
}

// handleMessage 处理接收到的消息
func (s *GameServer) handleMessage(player *PlayerConnection, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("解析消息失败: %v", err)
		s.sendError(player, "invalid message")
		return
	}

	switch msg.Type {
	case protocol.MsgActivateSkill:
		s.handleActivateSkill(player, msg.Payload)
	case protocol.MsgHUD:
		s.handleHUDRequest(player)
	default:
		log.Printf("未知消息类型: %s", msg.Type)
		s.sendError(player, "unknown message type: "+msg.Type)
	}
}

// handleActivateSkill 处理技能激活请求
func (s *GameServer) handleActivateSkill(player *PlayerConnection, payload json.RawMessage) {
	var req ActivateSkillRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(player, "invalid activate_skill payload")
		return
	}

	t, err := models.ParseSkillType(req.Skill)
	if err != nil {
		s.sendError(player, err.Error())
		return
	}

	ok, err := s.arena.ActivateSkill(player.ID, t)
	if err != nil {
		s.sendError(player, err.Error())
		return
	}

	s.sendMessage(player, protocol.MsgSkillResult, map[string]any{
		"skill": t.String(),
		"ok":    ok,
	})
}

// handleHUDRequest 立即返回一帧界面
func (s *GameServer) handleHUDRequest(player *PlayerConnection) {
	frame, err := s.arena.HUD(player.ID)
	if err != nil {
		s.sendError(player, err.Error())
		return
	}

	data, err := protocol.EncodeFrame(frame)
	if err != nil {
		log.Printf("序列化界面帧失败: %v", err)
		return
	}
	s.send(player, data)
}

func (s *GameServer) sendError(player *PlayerConnection, message string) {
	s.sendMessage(player, protocol.MsgError, map[string]any{"message": message})
}

// sendMessage 向玩家发送消息
func (s *GameServer) sendMessage(player *PlayerConnection, msgType string, payload map[string]any) {
	data, err := protocol.EncodeMessage(msgType, payload)
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}
	s.send(player, data)
}

func (s *GameServer) send(player *PlayerConnection, data []byte) {
	s.connMutex.RLock()
	_, open := s.connections[player.ID]
	if open {
		select {
		case player.Send <- data:
			s.connMutex.RUnlock()
			return
		default:
		}
	}
	s.connMutex.RUnlock()

	if open {
		// 通道已满，关闭连接
		s.closeConnection(player)
	}
}

package combat

import "github.com/jacl-coder/PixelStorm-Combat/internal/skill"

// BurnStack 一层灼烧
type BurnStack struct {
	RemainingDuration float64
	DamagePerTick     float64
	TickInterval      float64
	NextTickTime      float64 // 模拟时钟(秒)
	ExpiresAt         float64 // 模拟时钟(秒)
}

// BurnEffect 目标身上的多层灼烧，按添加顺序保存
type BurnEffect struct {
	stacks []BurnStack
}

// AddStack 添加一层灼烧。层数已满时刷新最早的一层，不追加新层。
func (e *BurnEffect) AddStack(p skill.BurnParams, now float64) bool {
	if !(p.TickInterval > 0) || p.MaxStacks < 1 {
		return false
	}

	if len(e.stacks) > 0 && len(e.stacks) >= p.MaxStacks {
		oldest := &e.stacks[0]
		oldest.RemainingDuration = p.Duration
		oldest.ExpiresAt = now + p.Duration
		oldest.DamagePerTick = p.DamagePerTick
		oldest.TickInterval = p.TickInterval
		return true
	}

	e.stacks = append(e.stacks, BurnStack{
		RemainingDuration: p.Duration,
		DamagePerTick:     p.DamagePerTick,
		TickInterval:      p.TickInterval,
		NextTickTime:      now + p.TickInterval,
		ExpiresAt:         now + p.Duration,
	})
	return true
}

// Tick 推进所有层。每个到期的跳伤时刻只结算一次，且不晚于该层的结束时刻，
// 因此每层总跳数为 floor(持续时间/间隔)，与帧长无关。目标失效或死亡时清空所有层。
func (e *BurnEffect) Tick(target Target, now float64) {
	if len(e.stacks) == 0 {
		return
	}
	if target == nil || !target.IsActive() || !target.IsAlive() {
		e.Clear()
		return
	}

	kept := e.stacks[:0]
	for _, s := range e.stacks {
		for s.NextTickTime <= now+timeEpsilon && s.NextTickTime <= s.ExpiresAt+timeEpsilon {
			target.TakeDamage(s.DamagePerTick)
			s.NextTickTime += s.TickInterval
			if !target.IsAlive() {
				e.Clear()
				return
			}
		}

		s.RemainingDuration = s.ExpiresAt - now
		if s.RemainingDuration > timeEpsilon {
			kept = append(kept, s)
		}
	}
	e.stacks = kept
}

// Clear 移除所有层
func (e *BurnEffect) Clear() {
	e.stacks = nil
}

// Empty 没有剩余层时可以释放
func (e *BurnEffect) Empty() bool {
	return len(e.stacks) == 0
}

// StackCount 当前层数
func (e *BurnEffect) StackCount() int {
	return len(e.stacks)
}

// Stacks 各层的副本
func (e *BurnEffect) Stacks() []BurnStack {
	out := make([]BurnStack, len(e.stacks))
	copy(out, e.stacks)
	return out
}

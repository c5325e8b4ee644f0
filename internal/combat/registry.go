package combat

import (
	"sort"

	"github.com/jacl-coder/PixelStorm-Combat/internal/models"
)

//go:generate go tool mockgen -destination=./mocks/target_mock.go -package=mocks . Target

// Target 可被攻击的实体，战斗系统只通过该接口与实体交互
type Target interface {
	TakeDamage(amount float64)
	IsAlive() bool
	IsActive() bool
	GetPosition() models.Vector2D
	GetLayer() models.Layer
}

// Handle 目标句柄：槽位下标 + 代数。
// 槽位被移除或重生后代数递增，旧句柄不再解析。零值句柄永远无效。
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero 是否为零值句柄
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

type slot struct {
	target     Target
	generation uint32
	burn       *BurnEffect
}

// Registry 目标表，投射物只持有句柄而不持有目标本身
type Registry struct {
	slots []slot
	free  []uint32
}

// NewRegistry 创建空目标表
func NewRegistry() *Registry {
	return &Registry{}
}

// Insert 登记目标并返回句柄
func (r *Registry) Insert(t Target) Handle {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[idx].target = t
		return Handle{Index: idx, Generation: r.slots[idx].generation}
	}

	r.slots = append(r.slots, slot{target: t, generation: 1})
	return Handle{Index: uint32(len(r.slots) - 1), Generation: 1}
}

func (r *Registry) slot(h Handle) *slot {
	if h.IsZero() || int(h.Index) >= len(r.slots) {
		return nil
	}
	s := &r.slots[h.Index]
	if s.generation != h.Generation || s.target == nil {
		return nil
	}
	return s
}

// Remove 移除目标，槽位代数递增后回收
func (r *Registry) Remove(h Handle) bool {
	s := r.slot(h)
	if s == nil {
		return false
	}

	s.target = nil
	s.burn = nil
	s.generation++
	r.free = append(r.free, h.Index)
	return true
}

// Replace 同一槽位换入新目标(重生)，返回新句柄，旧句柄随即失效
func (r *Registry) Replace(h Handle, t Target) (Handle, bool) {
	s := r.slot(h)
	if s == nil {
		return Handle{}, false
	}

	s.generation++
	s.target = t
	s.burn = nil
	return Handle{Index: h.Index, Generation: s.generation}, true
}

// Lookup 只校验代数，不关心目标是否仍在场景中
func (r *Registry) Lookup(h Handle) (Target, bool) {
	s := r.slot(h)
	if s == nil {
		return nil, false
	}
	return s.target, true
}

// Resolve 句柄有效且目标处于激活状态
func (r *Registry) Resolve(h Handle) (Target, bool) {
	t, ok := r.Lookup(h)
	if !ok || !t.IsActive() {
		return nil, false
	}
	return t, true
}

// Len 当前登记的目标数
func (r *Registry) Len() int {
	return len(r.slots) - len(r.free)
}

// Each 按槽位顺序遍历所有目标，fn 返回 false 时停止
func (r *Registry) Each(fn func(Handle, Target) bool) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.target == nil {
			continue
		}
		if !fn(Handle{Index: uint32(i), Generation: s.generation}, s.target) {
			return
		}
	}
}

// Nearby 半径内处于激活且存活、层级匹配的目标，按距离由近到远，距离相同按槽位顺序。
// 掩码为0时不返回任何目标。
func (r *Registry) Nearby(center models.Vector2D, radius float64, mask models.Layer, exclude Handle) []Handle {
	if mask == 0 || radius <= 0 {
		return nil
	}

	type candidate struct {
		handle Handle
		distSq float64
	}

	radiusSq := radius * radius
	var found []candidate
	r.Each(func(h Handle, t Target) bool {
		if h == exclude || !t.IsActive() || !t.IsAlive() || t.GetLayer()&mask == 0 {
			return true
		}
		d := t.GetPosition().Sub(center).LengthSquared()
		if d <= radiusSq {
			found = append(found, candidate{handle: h, distSq: d})
		}
		return true
	})

	sort.Slice(found, func(i, j int) bool {
		if found[i].distSq != found[j].distSq {
			return found[i].distSq < found[j].distSq
		}
		return found[i].handle.Index < found[j].handle.Index
	})

	handles := make([]Handle, len(found))
	for i, c := range found {
		handles[i] = c.handle
	}
	return handles
}

// BurnEffect 目标身上的灼烧效果，没有时返回 nil
func (r *Registry) BurnEffect(h Handle) *BurnEffect {
	s := r.slot(h)
	if s == nil {
		return nil
	}
	return s.burn
}

// ensureBurnEffect 获取或创建目标的灼烧效果，每个目标至多一个
func (r *Registry) ensureBurnEffect(h Handle) *BurnEffect {
	s := r.slot(h)
	if s == nil {
		return nil
	}
	if s.burn == nil {
		s.burn = &BurnEffect{}
	}
	return s.burn
}

// tickBurns 推进所有灼烧效果，清空的效果随即释放
func (r *Registry) tickBurns(now float64) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.burn == nil {
			continue
		}
		s.burn.Tick(s.target, now)
		if s.burn.Empty() {
			s.burn = nil
		}
	}
}

package combat

// BounceDedup 记录每个目标最近一次触发弹射的时间，窗口内同一目标只弹射一次。
// 由 World 持有，在命中结算时传入。
type BounceDedup struct {
	window float64
	last   map[Handle]float64
}

// NewBounceDedup 创建去重表
func NewBounceDedup(window float64) *BounceDedup {
	if window < 0 {
		window = 0
	}
	return &BounceDedup{
		window: window,
		last:   make(map[Handle]float64),
	}
}

// TryTrigger 目标在窗口内已触发过则返回false；否则记录本次时间，
// 顺带清理超过两倍窗口的旧记录，返回true
func (d *BounceDedup) TryTrigger(h Handle, now float64) bool {
	if t, ok := d.last[h]; ok && now-t < d.window {
		return false
	}

	d.last[h] = now
	d.purge(now, h)
	return true
}

func (d *BounceDedup) purge(now float64, keep Handle) {
	stale := 2 * d.window
	for h, t := range d.last {
		if h != keep && now-t > stale {
			delete(d.last, h)
		}
	}
}

// Len 当前记录数
func (d *BounceDedup) Len() int {
	return len(d.last)
}

// Window 去重窗口(秒)
func (d *BounceDedup) Window() float64 {
	return d.window
}

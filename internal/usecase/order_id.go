package usecase

import (
	"strconv"
	"sync"
	"time"
)

// 注文IDを作る約束
type OrderIDGenerator interface {
	NewOrderID() string
}

// "ORD-" + Unixミリ秒の注文ID。
// 同一ミリ秒に複数発行されたら前回値+1にして、プロセス内で必ず一意にする。
type TimestampOrderIDGenerator struct {
	mu   sync.Mutex
	last int64
}

func NewTimestampOrderIDGenerator() *TimestampOrderIDGenerator {
	return &TimestampOrderIDGenerator{}
}

func (g *TimestampOrderIDGenerator) NewOrderID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now

	return "ORD-" + strconv.FormatInt(now, 10)
}

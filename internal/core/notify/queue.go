package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"onlypans/internal/pkg/common"

	"go.uber.org/zap"
)

// Message 待發送的通知郵件
type Message struct {
	Kind      string
	Recipient string
	Subject   string
	Body      string
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Sender 郵件發送介面
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Queue 通知隊列管理器，由固定數量的 worker 消化
type Queue struct {
	sender    Sender
	queue     chan *Message
	workers   int
	maxSize   int
	processed int64
	wg        sync.WaitGroup
	closeOnce sync.Once

	// mu 保護 closed 與 queue 的關閉，Enqueue 與 Close 並發時不得寫入已關閉的 channel
	mu     sync.RWMutex
	closed bool
}

// NewQueue 創建新的通知隊列
func NewQueue(sender Sender, workers, maxSize int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if maxSize < 1 {
		maxSize = 100
	}
	return &Queue{
		sender:  sender,
		queue:   make(chan *Message, maxSize),
		workers: workers,
		maxSize: maxSize,
	}
}

// Start 啟動 worker
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	common.LogInfo("通知隊列已啟動",
		zap.Int("workers", q.workers),
		zap.Int("max_queue_size", q.maxSize))
}

// Enqueue 將通知加入隊列；隊列滿時回傳錯誤，不阻塞呼叫端
func (q *Queue) Enqueue(msg *Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("notify queue is closed")
	}

	select {
	case q.queue <- msg:
		return nil
	default:
		return fmt.Errorf("notify queue is full")
	}
}

// GetStatus 取得隊列狀態
func (q *Queue) GetStatus() *Status {
	return &Status{
		QueueLength:    len(q.queue),
		ProcessedCount: int(atomic.LoadInt64(&q.processed)),
		MaxQueueSize:   q.maxSize,
		Workers:        q.workers,
	}
}

// Close 關閉隊列並等待 worker 結束
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.queue)
		q.mu.Unlock()
	})
	q.wg.Wait()
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for msg := range q.queue {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := q.sender.Send(ctx, msg)
		cancel()

		atomic.AddInt64(&q.processed, 1)
		common.LogMailDispatch(msg.Kind, time.Since(start), err)
		if err != nil {
			common.LogWarn("通知發送失敗",
				zap.Int("worker", id),
				zap.String("kind", msg.Kind),
				zap.Error(err))
		}
	}
}

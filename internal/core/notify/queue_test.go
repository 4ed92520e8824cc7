package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Message
}

func (f *fakeSender) Send(ctx context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *msg)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestQueueDeliversMessages(t *testing.T) {
	sender := &fakeSender{}
	q := NewQueue(sender, 2, 10)
	q.Start()

	require.NoError(t, q.Enqueue(&Message{Kind: "comment", Recipient: "a@example.com"}))
	require.NoError(t, q.Enqueue(&Message{Kind: "rating", Recipient: "b@example.com"}))

	q.Close()
	assert.Equal(t, 2, sender.count())
	assert.Equal(t, 2, q.GetStatus().ProcessedCount)
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	blocker := make(chan struct{})
	q := NewQueue(senderFunc(func(ctx context.Context, msg *Message) error {
		<-blocker
		return nil
	}), 1, 1)
	q.Start()
	defer func() {
		close(blocker)
		q.Close()
	}()

	// 第一筆被 worker 取走後卡住，之後填滿緩衝，再下一筆必須立即失敗
	require.NoError(t, q.Enqueue(&Message{Kind: "a"}))
	deadline := time.After(time.Second)
	for {
		if err := q.Enqueue(&Message{Kind: "b"}); err != nil {
			assert.Contains(t, err.Error(), "full")
			return
		}
		select {
		case <-deadline:
			t.Fatal("queue never reported full")
		default:
		}
	}
}

func TestQueueEnqueueDuringClose(t *testing.T) {
	q := NewQueue(&fakeSender{}, 2, 4)
	q.Start()

	// Enqueue 與 Close 並發時不得寫入已關閉的 channel
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = q.Enqueue(&Message{Kind: "comment"})
			}
		}()
	}
	q.Close()
	wg.Wait()

	assert.Error(t, q.Enqueue(&Message{Kind: "comment"}))
}

func TestQueueEnqueueAfterClose(t *testing.T) {
	q := NewQueue(&fakeSender{}, 1, 5)
	q.Start()
	q.Close()

	err := q.Enqueue(&Message{Kind: "comment"})
	assert.Error(t, err)
}

type senderFunc func(ctx context.Context, msg *Message) error

func (f senderFunc) Send(ctx context.Context, msg *Message) error { return f(ctx, msg) }

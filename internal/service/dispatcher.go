package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/internal/broker"
	"github.com/d60-Lab/gin-social/internal/realtime"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

type FollowEventType string

const (
	EventFollowCreated FollowEventType = "follow.created"
	EventFollowRemoved FollowEventType = "follow.removed"
)

// FollowEvent 关系变更事件，提交成功后才会投递
type FollowEvent struct {
	Type           FollowEventType `json:"type"`
	ActorID        string          `json:"actor_id"`
	TargetID       string          `json:"target_id"`
	NotificationID string          `json:"notification_id,omitempty"`
	At             time.Time       `json:"at"`
}

// Notifier 在线推送
type Notifier interface {
	SendToUser(userID string, msg realtime.Message) int
}

const drainTimeout = 2 * time.Second

// EventDispatcher 本地有界队列 + 固定 worker，异步把事件发往 Kafka 和 websocket。
// 队列满时直接丢弃，不阻塞请求路径
type EventDispatcher struct {
	publisher broker.Publisher
	notifier  Notifier
	ch        chan FollowEvent
	metricsCh chan time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEventDispatcher publisher、notifier 均可为 nil
func NewEventDispatcher(publisher broker.Publisher, notifier Notifier, queueSize int) *EventDispatcher {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &EventDispatcher{
		publisher: publisher,
		notifier:  notifier,
		ch:        make(chan FollowEvent, queueSize),
		metricsCh: make(chan time.Duration, 65536),
		stopCh:    make(chan struct{}),
	}
}

// Start 启动 worker，返回的函数停止接收并在 2s 内尽量排空队列
func (d *EventDispatcher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d.stop
}

func (d *EventDispatcher) work() {
	defer d.wg.Done()
	for {
		select {
		case ev := <-d.ch:
			d.handle(ev)
		case <-d.stopCh:
			deadline := time.Now().Add(drainTimeout)
			for time.Now().Before(deadline) {
				select {
				case ev := <-d.ch:
					d.handle(ev)
				default:
					return
				}
			}
			return
		}
	}
}

func (d *EventDispatcher) stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.stopCh) })
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *EventDispatcher) handle(ev FollowEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, ev.TargetID, ev); err != nil {
			logger.Warn("publish follow event failed",
				zap.String("type", string(ev.Type)),
				zap.String("actor", ev.ActorID),
				zap.String("target", ev.TargetID),
				zap.Error(err),
			)
		}
	}
	if d.notifier != nil && ev.Type == EventFollowCreated {
		d.notifier.SendToUser(ev.TargetID, realtime.Message{Type: "notification", Data: ev})
	}

	if !ev.At.IsZero() {
		select {
		case d.metricsCh <- time.Since(ev.At):
		default:
		}
	}
}

// Enqueue 非阻塞入队，返回是否成功
func (d *EventDispatcher) Enqueue(ev FollowEvent) bool {
	select {
	case <-d.stopCh:
		logger.Warn("dispatcher stopped, drop event", zap.String("type", string(ev.Type)), zap.String("target", ev.TargetID))
		return false
	default:
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case d.ch <- ev:
		return true
	default:
		logger.Warn("dispatcher queue full, drop event",
			zap.String("type", string(ev.Type)),
			zap.String("actor", ev.ActorID),
			zap.String("target", ev.TargetID),
		)
		return false
	}
}

// Metrics 事件从入队到投递完成的耗时，每处理一条发送一次
func (d *EventDispatcher) Metrics() <-chan time.Duration { return d.metricsCh }

// QueueLen 当前队列长度（采样值）
func (d *EventDispatcher) QueueLen() int { return len(d.ch) }

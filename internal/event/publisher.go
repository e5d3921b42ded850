package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/config"
)

const (
	publishTimeout = 5 * time.Second
	confirmTimeout = 5 * time.Second
	maxAttempts    = 3
	retryInterval  = time.Second
)

// Publisher 目录事件发布接口
type Publisher interface {
	PublishDraftSubmitted(ctx context.Context, evt DraftSubmitted) error
	PublishCategoryChanged(ctx context.Context, evt CategoryChanged) error
	Close() error
}

// AMQPPublisher 基于RabbitMQ的发布器，开启发布确认模式
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *zap.Logger

	conn   *amqp.Connection
	mutex  sync.Mutex
	closed bool
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher 连接RabbitMQ并声明topic交换机
func NewAMQPPublisher(cfg config.EventConfig, logger *zap.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// 声明交换机后立即归还临时通道
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	ch.Close()

	logger.Info("事件发布器就绪", zap.String("exchange", cfg.Exchange))

	return &AMQPPublisher{
		url:      cfg.URL,
		exchange: cfg.Exchange,
		logger:   logger,
		conn:     conn,
	}, nil
}

// PublishDraftSubmitted 发布草稿提交事件
func (p *AMQPPublisher) PublishDraftSubmitted(ctx context.Context, evt DraftSubmitted) error {
	return p.publishJSON(ctx, RoutingDraftSubmitted, evt)
}

// PublishCategoryChanged 发布分类变更事件
func (p *AMQPPublisher) PublishCategoryChanged(ctx context.Context, evt CategoryChanged) error {
	return p.publishJSON(ctx, RoutingCategoryChanged, evt)
}

// publishJSON 序列化并发布消息，失败时按固定间隔重试
func (p *AMQPPublisher) publishJSON(ctx context.Context, routingKey string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := p.publishOnce(ctx, routingKey, body)
		if err == nil {
			return nil
		}

		lastErr = err
		p.logger.Warn("事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(retryInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("failed to publish event after %d attempts: %w", maxAttempts, lastErr)
}

// publishOnce 单次发布并等待broker确认
func (p *AMQPPublisher) publishOnce(ctx context.Context, routingKey string, body []byte) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to set confirm mode: %w", err)
	}
	confirmCh := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(publishCtx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirmation := <-confirmCh:
		if confirmation.Ack {
			return nil
		}
		return fmt.Errorf("message was nacked by broker")
	case <-time.After(confirmTimeout):
		return fmt.Errorf("publish confirmation timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// connection 获取可用连接，断开时重新拨号
func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil, fmt.Errorf("publisher is closed")
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}

	p.logger.Warn("RabbitMQ连接断开，重新拨号")
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// Close 关闭发布器及底层连接
func (p *AMQPPublisher) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// NullPublisher 事件发布关闭时的空实现
type NullPublisher struct{}

var _ Publisher = (*NullPublisher)(nil)

func (NullPublisher) PublishDraftSubmitted(context.Context, DraftSubmitted) error   { return nil }
func (NullPublisher) PublishCategoryChanged(context.Context, CategoryChanged) error { return nil }
func (NullPublisher) Close() error                                                  { return nil }

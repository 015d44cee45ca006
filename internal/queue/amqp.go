package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/streadway/amqp"

	"github.com/unclebandit/crm-backend/internal/logging"
)

// AMQPQueue publishes to and consumes from durable RabbitMQ queues, one
// queue per topic. Handlers receive the raw message body as []byte.
type AMQPQueue struct {
	conn *amqp.Connection

	mu sync.Mutex // guards ch; amqp channels are not safe for concurrent publishing
	ch *amqp.Channel

	declared map[string]bool

	closing  atomic.Bool
	lost     chan error
	lostOnce sync.Once
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q := newAMQPQueue(conn, ch)
	go q.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))
	return q, nil
}

func newAMQPQueue(conn *amqp.Connection, ch *amqp.Channel) *AMQPQueue {
	return &AMQPQueue{
		conn:     conn,
		ch:       ch,
		declared: map[string]bool{},
		lost:     make(chan error, 1),
	}
}

// Lost yields one error when the broker connection drops or a consumer stops
// without Close being called.
func (q *AMQPQueue) Lost() <-chan error {
	return q.lost
}

func (q *AMQPQueue) fail(err error) {
	if q.closing.Load() {
		return
	}
	q.lostOnce.Do(func() {
		q.lost <- err
	})
}

// watch reports a broker-side close. A clean Close closes notify without a value.
func (q *AMQPQueue) watch(notify <-chan *amqp.Error) {
	if amqpErr, ok := <-notify; ok && amqpErr != nil {
		q.fail(fmt.Errorf("RabbitMQ connection closed: %w", amqpErr))
	}
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Subscribe consumes topic on a dedicated channel. A handler error nacks the
// delivery back onto the queue unless it was already redelivered once.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	err := q.declare(topic)
	q.mu.Unlock()
	if err != nil {
		return err
	}

	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go q.consume(topic, msgs, handler)
	return nil
}

func (q *AMQPQueue) consume(topic string, msgs <-chan amqp.Delivery, handler func(payload any) error) {
	for d := range msgs {
		if err := handler(d.Body); err != nil {
			logging.Warnf("handler for %s failed (redelivered=%t): %v", topic, d.Redelivered, err)
			_ = d.Nack(false, !d.Redelivered)
			continue
		}
		_ = d.Ack(false)
	}
	logging.Infof("consumer for %s stopped", topic)
	q.fail(fmt.Errorf("consumer for %s stopped", topic))
}

func (q *AMQPQueue) Close() error {
	q.closing.Store(true)
	q.mu.Lock()
	defer q.mu.Unlock()
	_ = q.ch.Close()
	return q.conn.Close()
}

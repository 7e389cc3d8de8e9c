package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/wastewise/wastewise/config"
	"github.com/wastewise/wastewise/utils"
)

// ClassificationJob is the queue message for one waste photo.
type ClassificationJob struct {
	PhotoID uint `json:"photo_id"`
}

// QueueConfig holds RabbitMQ wiring for the classification queue.
type QueueConfig struct {
	URL        string
	Exchange   string
	QueueName  string
	RoutingKey string
}

// QueueConfigFromApp derives queue wiring from application config.
func QueueConfigFromApp(cfg config.AppConfig) QueueConfig {
	return QueueConfig{
		URL:        cfg.AmqpURL,
		Exchange:   cfg.AmqpExchange,
		QueueName:  cfg.AmqpQueue,
		RoutingKey: cfg.AmqpRoutingKey,
	}
}

// Queue wraps a RabbitMQ connection for publishing and consuming
// classification jobs. Declarations are idempotent; publisher and consumer
// sides both go through here.
type Queue struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	config     QueueConfig
}

// NewQueue connects and declares the durable exchange and queue.
func NewQueue(cfg QueueConfig) (*Queue, error) {
	q := &Queue{config: cfg}

	connection, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	q.connection = connection

	q.channel, err = connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := q.channel.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := q.channel.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := q.channel.QueueBind(queue.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return q, nil
}

// Close shuts down the connection.
func (q *Queue) Close() {
	if q.connection != nil {
		q.connection.Close()
	}
}

// PublishJob enqueues a classification job for the photo.
func (q *Queue) PublishJob(photoID uint) error {
	body, err := json.Marshal(ClassificationJob{PhotoID: photoID})
	if err != nil {
		return err
	}

	err = q.channel.Publish(
		q.config.Exchange,
		q.config.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}
	return nil
}

// Consume runs handler for each job, one message at a time. Successful jobs
// are acked and removed; handler errors nack without requeue so the broker's
// dead-letter policy keeps them for inspection. Malformed payloads are
// dropped outright.
func (q *Queue) Consume(handler func(job ClassificationJob) error) error {
	if err := q.channel.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := q.channel.Consume(
		q.config.QueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			var job ClassificationJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				utils.Sugar.Warnf("dropping malformed classification job: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if err := handler(job); err != nil {
				utils.Sugar.Errorf("classification job failed photo=%d: %v", job.PhotoID, err)
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	return nil
}

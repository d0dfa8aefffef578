// Package cleanup reclaims orphaned recordings over a RabbitMQ queue.
// An orphan is an uploaded object whose metadata record was never
// written; it is unreachable through the portal and safe to delete.
package cleanup

import (
	"encoding/json"

	"github.com/streadway/amqp"
)

const queueName = "artifact_cleanup"

type orphanMessage struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type Publisher struct {
	conn *amqp.Connection
}

func NewPublisher(conn *amqp.Connection) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PublishOrphan(bucket, key string) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queueName, // queue name
		true,      // durable (survives broker restarts)
		false,     // auto-delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(orphanMessage{Bucket: bucket, Key: key})
	return ch.Publish(
		"",        // default exchange
		queueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

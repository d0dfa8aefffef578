package cleanup

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// BlobDeleter deletes one object by bucket and key.
type BlobDeleter interface {
	Delete(ctx context.Context, bucket, key string) error
}

type WorkerConfig struct {
	RabbitURL string
	Blobs     BlobDeleter
}

func worker(id int, config *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	conn, err := amqp.Dial(config.RabbitURL)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
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
		log.Fatalf("Failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(
		queueName, // queue name
		"",        // consumer tag
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		orphan := orphanMessage{}
		if err := json.Unmarshal(msg.Body, &orphan); err != nil {
			log.Printf("error unmarshalling cleanup message body. err: %v", err)
			continue
		}
		if orphan.Bucket == "" || orphan.Key == "" {
			log.Printf("cleanup worker %d skipping malformed message: %s", id+1, msg.Body)
			continue
		}
		log.Printf("cleanup worker %d deleting orphaned object %s/%s", id+1, orphan.Bucket, orphan.Key)
		if err := config.Blobs.Delete(context.Background(), orphan.Bucket, orphan.Key); err != nil {
			// Left for the next sweep; reclamation stays best effort.
			log.Printf("error deleting orphaned object %s/%s. err: %v", orphan.Bucket, orphan.Key, err)
		}
	}
}

// StartWorkerPool runs numWorkers consumers until their connections
// close. Blocks.
func (config *WorkerConfig) StartWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("cleanup worker id ", i+1, "started")
		go worker(i, config, &wg)
	}
	wg.Wait()
}

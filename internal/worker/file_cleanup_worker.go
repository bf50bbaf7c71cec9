package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"excel-analytics/internal/platform/rabbitmq"
)

var errEmptyFilename = errors.New("cleanup event has no stored filename")

type FileRemover interface {
	Remove(storedName string) error
}

// FileCleanupWorker removes stored upload files announced on the cleanup queue.
type FileCleanupWorker struct {
	conn      *amqp.Connection
	files     FileRemover
	queueName string
	log       zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFileCleanupWorker(conn *amqp.Connection, files FileRemover, queueName string, log zerolog.Logger) *FileCleanupWorker {
	return &FileCleanupWorker{
		conn:      conn,
		files:     files,
		queueName: queueName,
		log:       log,
	}
}

func (w *FileCleanupWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(d.Body); err != nil {
					w.log.Error().Err(err).Msg("file cleanup failed")
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// handle removes the file named by one delivery. Files that are already gone
// count as cleaned up.
func (w *FileCleanupWorker) handle(body []byte) error {
	event, err := rabbitmq.DecodeCleanupEvent(body)
	if err != nil {
		return err
	}
	if strings.TrimSpace(event.StoredFilename) == "" {
		return errEmptyFilename
	}
	if err := w.files.Remove(event.StoredFilename); err != nil {
		return err
	}
	w.log.Debug().
		Uint("upload_id", event.UploadID).
		Str("file", event.StoredFilename).
		Msg("stored file removed")
	return nil
}

func (w *FileCleanupWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

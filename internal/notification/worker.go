package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"reservas-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job is one notification request: booking activity in an environment.
type Job struct {
	EnvironmentID int64
	Message       string
}

// WorkerPool manages a pool of workers for sending notifications to
// subscriptions watching an environment.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			log.Printf("Worker %d processing environment %d", id, job.EnvironmentID)
			wp.sendNotificationsForEnvironment(ctx, job)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Notify queues a job for the worker pool. Safe to call from request
// handlers; it never blocks longer than the channel buffer allows.
func (wp *WorkerPool) Notify(environmentID int64, message string) {
	wp.jobs <- Job{EnvironmentID: environmentID, Message: message}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// sendNotificationsForEnvironment fetches subscriptions watching the
// environment and pushes the message to each.
func (wp *WorkerPool) sendNotificationsForEnvironment(ctx context.Context, job Job) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_environment_mapping sem ON sem.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sem.environment_id = ?", job.EnvironmentID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for environment %d: %v", job.EnvironmentID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for environment %d", len(subscriptions), job.EnvironmentID)

	var environment model.Environment
	label := fmt.Sprintf("%d", job.EnvironmentID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&environment, job.EnvironmentID).Error; err != nil {
		log.Printf("Error fetching environment %d: %v", job.EnvironmentID, err)
	} else if environment.Name != "" {
		label = environment.Name
	}

	payload := fmt.Sprintf("%s: %s", label, job.Message)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(payload))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"telvia/config"
	notificationRepo "telvia/database/repository/notification"
	"telvia/models"

	"github.com/hibiken/asynq"
)

const TypeExpiryReminder = "reminder:expiry"

// reminderLeadDays is how long before a package expires its reminder fires.
const reminderLeadDays = 3

// ExpiryReminderPayload is the queued task body.
type ExpiryReminderPayload struct {
	PartnerID   int                `json:"partnerId"`
	Service     models.ServiceType `json:"service"`
	PackageName string             `json:"packageName"`
	ExpiresAt   time.Time          `json:"expiresAt"`
}

// Scheduler enqueues delayed expiry reminders.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler returns a Scheduler on the reminder queue database.
func NewScheduler() *Scheduler {
	return &Scheduler{client: asynq.NewClient(redisOpts())}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}
}

// ScheduleExpiryReminder queues the reminder to fire shortly before the
// package lapses. An expiry already inside the lead window fires immediately.
func (s *Scheduler) ScheduleExpiryReminder(partnerID int, service models.ServiceType, packageName string, expiresAt time.Time) error {
	payload, err := json.Marshal(ExpiryReminderPayload{
		PartnerID:   partnerID,
		Service:     service,
		PackageName: packageName,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	fireAt := expiresAt.AddDate(0, 0, -reminderLeadDays)
	if fireAt.Before(time.Now()) {
		fireAt = time.Now()
	}
	task := asynq.NewTask(TypeExpiryReminder, payload)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue expiry reminder: %w", err)
	}
	return nil
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifications notificationRepo.Repository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpiryReminder, handleExpiryReminder(notifications))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleExpiryReminder(notifications notificationRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExpiryReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		message := fmt.Sprintf("Your %s %s package expires on %s. Renew to avoid interruption.",
			p.Service, p.PackageName, p.ExpiresAt.Format("02 Jan 2006"))

		if _, err := notifications.Save(ctx, models.Notification{
			PartnerID: p.PartnerID,
			Type:      "expiry-reminder",
			Message:   message,
		}); err != nil {
			log.Printf("[ReminderHandler] ❌ Failed to write reminder notification: %v", err)
			return err
		}
		return nil
	}
}

package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"medibook/config"
	"medibook/models"
	"medibook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentReminder = "appointment:reminder"

// reminderLeadTime is how long before the visit the reminder fires.
const reminderLeadTime = time.Hour

// ReminderPayload is the task body queued for each confirmed appointment.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	ProviderID    string    `json:"providerId"`
	Start         time.Time `json:"start"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

// ReminderQueue enqueues appointment reminders. Implements the booking
// flow's ReminderScheduler.
type ReminderQueue struct {
	client *asynq.Client
}

// NewReminderQueue builds the queue client from the application config.
func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{client: asynq.NewClient(redisOpts())}
}

// ScheduleReminder queues a reminder to fire one hour before the visit.
// Appointments starting sooner than the lead time get no reminder.
func (q *ReminderQueue) ScheduleReminder(record models.BookingRecord) error {
	fireAt := record.Start.Add(-reminderLeadTime)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{
		AppointmentID: record.ID,
		PatientID:     record.PatientID,
		ProviderID:    record.ProviderID,
		Start:         record.Start,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeAppointmentReminder, payload)
	_, err = q.client.Enqueue(task, asynq.ProcessAt(fireAt), asynq.MaxRetry(3))
	return err
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker() {
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
	mux.HandleFunc(TypeAppointmentReminder, handleReminderTask)

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(ctx context.Context, task *asynq.Task) error {
	var p ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[ReminderHandler] invalid payload: %v", err)
		return err
	}

	// Delivery channel (push, SMS) is owned by the upstream platform; this
	// worker records that the reminder came due.
	utils.GetLogger().Info("appointment reminder due",
		zap.String("appointmentID", p.AppointmentID),
		zap.String("patientID", p.PatientID),
		zap.String("providerID", p.ProviderID),
		zap.Time("start", p.Start))
	return nil
}

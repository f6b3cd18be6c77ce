package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"go.uber.org/zap"
)

// FollowUpJobName is the name of the follow-up reminder job
const FollowUpJobName = "follow_up_reminders"

// DueLeadSource lists leads whose follow-up date has passed.
// This interface allows the job to call the service without importing the service package directly.
type DueLeadSource interface {
	ListDueFollowUps(ctx context.Context, now time.Time) ([]domain.Lead, error)
}

// ReminderCreator creates a follow-up reminder for an agent. Duplicate
// suppression is the creator's responsibility.
type ReminderCreator interface {
	CreateFollowUpReminder(ctx context.Context, agentID uuid.UUID, lead *domain.Lead) error
}

// FollowUpJob scans for leads with an overdue follow-up date and
// notifies the assigned agent.
type FollowUpJob struct {
	leads     DueLeadSource
	reminders ReminderCreator
	logger    *zap.Logger
	timeout   time.Duration
}

// NewFollowUpJob creates a new follow-up reminder job.
// The timeout controls how long a single scan is allowed to run.
func NewFollowUpJob(leads DueLeadSource, reminders ReminderCreator, logger *zap.Logger, timeout time.Duration) *FollowUpJob {
	return &FollowUpJob{
		leads:     leads,
		reminders: reminders,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes the follow-up scan.
// This is called by the scheduler according to the cron expression.
// A failed reminder does not stop the scan; remaining leads are still processed.
func (j *FollowUpJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	due, err := j.leads.ListDueFollowUps(ctx, start.UTC())
	if err != nil {
		j.logger.Error("follow-up scan failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	var created, failed int
	for i := range due {
		lead := &due[i]
		if err := j.reminders.CreateFollowUpReminder(ctx, lead.AssignedTo, lead); err != nil {
			j.logger.Error("failed to create follow-up reminder",
				zap.String("lead_number", lead.LeadNumber),
				zap.String("agent_id", lead.AssignedTo.String()),
				zap.Error(err))
			failed++
			continue
		}
		created++
	}

	j.logger.Info("follow-up scan completed",
		zap.Int("due_leads", len(due)),
		zap.Int("reminders_created", created),
		zap.Int("reminders_failed", failed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterFollowUpJob registers the follow-up reminder job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 0 8 * * *" for 08:00 daily).
func RegisterFollowUpJob(scheduler *Scheduler, leads DueLeadSource, reminders ReminderCreator, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewFollowUpJob(leads, reminders, logger, timeout)
	return scheduler.AddJob(FollowUpJobName, cronExpr, job.Run)
}

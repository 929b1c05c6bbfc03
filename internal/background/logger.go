package background

import (
	"time"

	"hirescore/internal/logging"
)

// TaskCompletionLogger writes one structured line per task lifecycle step
type TaskCompletionLogger struct {
	logger logging.Logger
}

func NewTaskCompletionLogger(logger logging.Logger) *TaskCompletionLogger {
	return &TaskCompletionLogger{logger: logger.WithField("component", "background")}
}

func (l *TaskCompletionLogger) LogTaskAccepted(task *Task) {
	l.logger.Debug("Task accepted", l.fields(task, nil))
}

func (l *TaskCompletionLogger) LogTaskStart(task *Task, workerID int) {
	l.logger.Debug("Task started", l.fields(task, map[string]interface{}{
		"worker_id": workerID,
	}))
}

func (l *TaskCompletionLogger) LogTaskSuccess(task *Task, processingTime time.Duration) {
	l.logger.Info("Task completed", l.fields(task, map[string]interface{}{
		"status":          TaskStatusSuccess,
		"processing_time": processingTime.String(),
	}))
}

// LogTaskError records a failed task. Failures stop here and are never returned to the submitter.
func (l *TaskCompletionLogger) LogTaskError(task *Task, processingTime time.Duration, err error) {
	l.logger.Error("Task failed", l.fields(task, map[string]interface{}{
		"status":          TaskStatusFailure,
		"processing_time": processingTime.String(),
		"error":           err.Error(),
	}))
}

func (l *TaskCompletionLogger) LogTaskRejected(task *Task, reason string) {
	l.logger.Error("Task rejected", l.fields(task, map[string]interface{}{
		"reason": reason,
	}))
}

func (l *TaskCompletionLogger) fields(task *Task, extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{
		"process_id": task.ID,
		"task_type":  string(task.Type),
	}
	for k, v := range task.Metadata {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/pkg/utils"
)

const (
	DefaultMaxWorkers   = 4
	DefaultMaxQueueSize = 100
	DefaultTaskTimeout  = 30 * time.Second

	MaxWorkers   = 1000
	MaxQueueSize = 10000

	resultRetention = 24 * time.Hour
)

var (
	ErrNotRunning = errors.New("task manager is not running")
	ErrQueueFull  = errors.New("task queue is full")
)

// TaskManager runs detached tasks on a bounded worker pool
type TaskManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Submit enqueues a task without waiting for it. The error only reports
	// whether the task was accepted.
	Submit(task Task) error

	// SchedulePeriodic runs fn every interval until the manager stops
	SchedulePeriodic(taskType TaskType, interval time.Duration, fn func(ctx context.Context) error)

	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)
	IsHealthy() bool
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	store          TaskStore
	logger         *TaskCompletionLogger
	appLogger      logging.Logger
	defaultTimeout time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	periodicWG     sync.WaitGroup
	mu             sync.RWMutex
	running        bool
	taskChan       chan *Task
	maxWorkers     int
	maxQueueSize   int
}

// validateTaskManagerConfig validates and returns safe configuration values
func validateTaskManagerConfig(cfg *config.Config) (maxWorkers, maxQueueSize int, err error) {
	maxWorkers = cfg.Notifications.Workers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) exceeds maximum (%d)", maxWorkers, MaxWorkers)
	}

	maxQueueSize = cfg.Notifications.QueueSize
	if maxQueueSize <= 0 {
		maxQueueSize = DefaultMaxQueueSize
	} else if maxQueueSize > MaxQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) exceeds maximum (%d)", maxQueueSize, MaxQueueSize)
	}

	return maxWorkers, maxQueueSize, nil
}

// NewTaskManager creates a new task manager
func NewTaskManager(cfg *config.Config, logger logging.Logger) *TaskManagerImpl {
	maxWorkers, maxQueueSize, err := validateTaskManagerConfig(cfg)
	if err != nil {
		logger.Warn("Task manager configuration validation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		maxWorkers = DefaultMaxWorkers
		maxQueueSize = DefaultMaxQueueSize
	}

	timeout := cfg.Notifications.SendTimeout
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}

	logger.Info("Task manager configuration initialized", map[string]interface{}{
		"max_workers":    maxWorkers,
		"max_queue_size": maxQueueSize,
		"using_defaults": err != nil,
	})

	return &TaskManagerImpl{
		store:          NewInMemoryTaskStore(),
		logger:         NewTaskCompletionLogger(logger),
		appLogger:      logger,
		defaultTimeout: timeout,
		maxWorkers:     maxWorkers,
		maxQueueSize:   maxQueueSize,
	}
}

// Start starts the worker pool and the result cleanup routine
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.taskChan = make(chan *Task, tm.maxQueueSize)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.SchedulePeriodicLocked(TaskType("task_result_cleanup"), time.Hour, func(ctx context.Context) error {
		return tm.store.Cleanup(ctx, resultRetention)
	})

	tm.appLogger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop stops accepting tasks, lets workers drain the queue and waits for them
// until ctx expires. Tasks still running after that are cancelled.
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	if !tm.running {
		tm.mu.Unlock()
		return nil
	}
	tm.running = false
	close(tm.taskChan)
	tm.mu.Unlock()

	tm.appLogger.Info("Stopping task manager...")

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		tm.appLogger.Info("Task manager stopped gracefully")
	case <-ctx.Done():
		tm.appLogger.Warn("Task manager shutdown timed out, cancelling running tasks")
		err = ctx.Err()
	}

	tm.cancel()
	tm.periodicWG.Wait()
	return err
}

// Submit enqueues a task. It never blocks: a full queue rejects the task.
func (tm *TaskManagerImpl) Submit(task Task) error {
	if task.Run == nil {
		return errors.New("task has no run function")
	}
	if task.ID == "" {
		task.ID = utils.GenerateID()
	}
	if task.Timeout <= 0 {
		task.Timeout = tm.defaultTimeout
	}

	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if !tm.running {
		tm.logger.LogTaskRejected(&task, ErrNotRunning.Error())
		return ErrNotRunning
	}

	// Recorded before enqueueing so a fast worker always finds the result.
	_ = tm.store.Store(context.Background(), &TaskResult{
		ProcessID: task.ID,
		Type:      task.Type,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  task.Metadata,
	})

	select {
	case tm.taskChan <- &task:
	default:
		tm.updateTaskStatus(task.ID, TaskStatusFailure, ErrQueueFull.Error())
		tm.logger.LogTaskRejected(&task, ErrQueueFull.Error())
		return ErrQueueFull
	}

	tm.logger.LogTaskAccepted(&task)
	return nil
}

// SchedulePeriodic runs fn every interval until the manager stops
func (tm *TaskManagerImpl) SchedulePeriodic(taskType TaskType, interval time.Duration, fn func(ctx context.Context) error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.SchedulePeriodicLocked(taskType, interval, fn)
}

// SchedulePeriodicLocked is SchedulePeriodic for callers already holding tm.mu
func (tm *TaskManagerImpl) SchedulePeriodicLocked(taskType TaskType, interval time.Duration, fn func(ctx context.Context) error) {
	if !tm.running || interval <= 0 {
		return
	}

	ctx := tm.ctx
	tm.periodicWG.Add(1)
	go func() {
		defer tm.periodicWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(ctx, tm.defaultTimeout)
				if err := fn(runCtx); err != nil {
					tm.appLogger.Error("Periodic task failed", map[string]interface{}{
						"task_type": string(taskType),
						"error":     err.Error(),
					})
				}
				cancel()
			}
		}
	}()
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

// QueueDepth returns how many tasks are waiting for a worker
func (tm *TaskManagerImpl) QueueDepth() int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if tm.taskChan == nil {
		return 0
	}
	return len(tm.taskChan)
}

// CheckHealth fails when the pool is stopped or its queue is saturated
func (tm *TaskManagerImpl) CheckHealth(ctx context.Context) error {
	if !tm.IsHealthy() {
		return ErrNotRunning
	}
	if depth := tm.QueueDepth(); depth >= tm.maxQueueSize {
		return fmt.Errorf("%w: %d tasks waiting", ErrQueueFull, depth)
	}
	return nil
}

func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for task := range tm.taskChan {
		tm.processTask(workerID, task)
	}
}

func (tm *TaskManagerImpl) processTask(workerID int, task *Task) {
	startTime := time.Now()
	tm.updateTaskStatus(task.ID, TaskStatusProcessing, "")
	tm.logger.LogTaskStart(task, workerID)

	ctx, cancel := context.WithTimeout(tm.ctx, task.Timeout)
	defer cancel()

	err := tm.runSafely(ctx, task)
	processingTime := time.Since(startTime)

	if err != nil {
		tm.logger.LogTaskError(task, processingTime, err)
		tm.finish(task.ID, TaskStatusFailure, err.Error(), processingTime)
		return
	}

	tm.logger.LogTaskSuccess(task, processingTime)
	tm.finish(task.ID, TaskStatusSuccess, "", processingTime)
}

// runSafely turns a panic inside a task into an error
func (tm *TaskManagerImpl) runSafely(ctx context.Context, task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(ctx)
}

func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus, errMsg string) {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return
	}
	result.Status = status
	result.Error = errMsg
	_ = tm.store.Update(context.Background(), result)
}

func (tm *TaskManagerImpl) finish(processID string, status TaskStatus, errMsg string, processingTime time.Duration) {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return
	}
	completedAt := time.Now()
	result.Status = status
	result.Error = errMsg
	result.CompletedAt = &completedAt
	result.ProcessingTime = &processingTime
	_ = tm.store.Update(context.Background(), result)
}

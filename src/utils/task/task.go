package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warp-contracts/arns/src/utils/common"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

const defaultStopTimeout = 30 * time.Second

// Long lived component made of goroutines that share one stop signal.
// Used by the ledger poller, the pending store sweeper, the monitor and the REST server.
type Task struct {
	Config *config.Config
	Log    *logrus.Entry
	Name   string

	// Closed when Stop() is called
	StopChannel chan bool
	IsStopping  *atomic.Bool

	// Cancelled when Stop() is called. Used inside the task.
	Ctx    context.Context
	cancel context.CancelFunc

	// Done after every subtask returned. Used outside the task.
	CtxRunning    context.Context
	cancelRunning context.CancelFunc

	isStarted *atomic.Bool
	stopOnce  sync.Once
	running   sync.WaitGroup

	onBeforeStart []func() error
	onStop        []func()
	onAfterStop   []func()
	subtasks      []func() error
}

func NewTask(config *config.Config, name string) (self *Task) {
	self = new(Task)
	self.Log = logger.NewSublogger(name)
	self.Config = config
	self.Name = name

	self.Ctx, self.cancel = context.WithCancel(context.Background())
	self.CtxRunning, self.cancelRunning = context.WithCancel(context.Background())
	if config != nil {
		self.Ctx = common.SetConfig(self.Ctx, config)
		self.CtxRunning = common.SetConfig(self.CtxRunning, config)
	}

	self.IsStopping = atomic.NewBool(false)
	self.isStarted = atomic.NewBool(false)
	self.StopChannel = make(chan bool)
	return
}

func (self *Task) WithOnBeforeStart(f func() error) *Task {
	self.onBeforeStart = append(self.onBeforeStart, f)
	return self
}

// Called right after the stop signal, while subtasks may still be running
func (self *Task) WithOnStop(f func()) *Task {
	self.onStop = append(self.onStop, f)
	return self
}

// Called after every subtask returned
func (self *Task) WithOnAfterStop(f func()) *Task {
	self.onAfterStop = append(self.onAfterStop, f)
	return self
}

// Function running in its own goroutine. It should return once StopChannel is closed.
func (self *Task) WithSubtaskFunc(f func() error) *Task {
	self.subtasks = append(self.subtasks, f)
	return self
}

// Runs f right after start and then every period, till the task is stopped.
// The period is counted from the end of the previous run.
func (self *Task) WithPeriodicSubtaskFunc(period time.Duration, f func() error) *Task {
	return self.WithSubtaskFunc(func() error {
		for {
			err := f()
			if err != nil {
				return err
			}

			timer := time.NewTimer(period)
			select {
			case <-self.StopChannel:
				timer.Stop()
				self.Log.Debug("Periodic subtask stopped")
				return nil
			case <-timer.C:
			}
		}
	})
}

func (self *Task) run(subtask func() error) {
	self.running.Add(1)
	go func() {
		defer func() {
			self.running.Done()

			if p := recover(); p != nil {
				var err error
				switch p := p.(type) {
				case error:
					err = p
				default:
					err = fmt.Errorf("%v", p)
				}
				self.Log.WithError(err).Error("Panic in subtask")
				panic(p)
			}
		}()

		err := subtask()
		if err != nil {
			self.Log.WithError(err).Error("Subtask failed")
		}
	}()
}

func (self *Task) Start() (err error) {
	if !self.isStarted.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	for _, cb := range self.onBeforeStart {
		err = cb()
		if err != nil {
			return
		}
	}

	for _, subtask := range self.subtasks {
		self.run(subtask)
	}

	go func() {
		self.running.Wait()

		for _, cb := range self.onAfterStop {
			cb()
		}

		self.cancelRunning()
	}()

	return nil
}

func (self *Task) Stop() {
	self.stopOnce.Do(func() {
		self.Log.Info("Stopping...")
		self.IsStopping.Store(true)
		close(self.StopChannel)
		self.cancel()

		for _, cb := range self.onStop {
			cb()
		}

		// Nothing will ever finish a task that never started
		if !self.isStarted.Load() {
			for _, cb := range self.onAfterStop {
				cb()
			}
			self.cancelRunning()
		}
	})
}

// Stops the task and waits at most StopTimeout for the subtasks to return
func (self *Task) StopWait() {
	timeout := defaultStopTimeout
	if self.Config != nil && self.Config.StopTimeout > 0 {
		timeout = self.Config.StopTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	self.Stop()

	select {
	case <-ctx.Done():
		self.Log.Error("Timeout reached, failed to stop")
	case <-self.CtxRunning.Done():
		self.Log.Info("Task finished")
	}
}

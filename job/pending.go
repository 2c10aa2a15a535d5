package job

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shrinkray/logger"
)

// State is the lifecycle of a job: pending -> running -> completed|failed.
// Cancelled is reachable only from pending; a running encode cannot be aborted.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

// String returns the wire name used by the status endpoint.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	// pendingJobs holds job directories in arrival order; jobStates maps the
	// job hash to its current lifecycle state.
	pendingJobs []string
	jobStates   = make(map[string]State)
	mu          sync.RWMutex

	// slots is the global admission semaphore. Sized once at startup from
	// SHRINKRAY_MAX_JOBS; every job acquires exactly one slot around its
	// child process and releases it on every exit path.
	slots     chan struct{}
	slotsOnce sync.Once
)

// InitSlots sizes the concurrency semaphore. Called once from main; values
// below 1 collapse to 1.
func InitSlots(n int) {
	if n < 1 {
		n = 1
	}
	slots = make(chan struct{}, n)
}

func acquireSlot() {
	slotsOnce.Do(func() {
		if slots == nil {
			slots = make(chan struct{}, 1)
		}
	})
	slots <- struct{}{}
}

func releaseSlot() {
	<-slots
}

// AddPendingJob queues a job directory for processing.
func AddPendingJob(dir string) {
	hash := filepath.Base(dir)
	mu.Lock()
	defer mu.Unlock()
	pendingJobs = append(pendingJobs, dir)
	jobStates[hash] = StatePending
}

// claimPendingJobs empties the pending list and returns it in arrival order.
func claimPendingJobs() []string {
	mu.Lock()
	defer mu.Unlock()
	jobs := pendingJobs
	pendingJobs = nil
	return jobs
}

// GetJobState returns the current state of a job.
func GetJobState(hash string) (State, bool) {
	mu.RLock()
	defer mu.RUnlock()
	state, exists := jobStates[hash]
	return state, exists
}

func setJobState(hash string, state State) {
	mu.Lock()
	defer mu.Unlock()
	jobStates[hash] = state
}

// CancelPending cancels a job that has not started yet. Running jobs cannot
// be aborted mid-encode; terminal jobs cannot change state.
func CancelPending(hash string) error {
	mu.Lock()
	defer mu.Unlock()

	state, exists := jobStates[hash]
	if !exists {
		return fmt.Errorf("job %s not found", hash)
	}
	switch state {
	case StatePending:
	case StateRunning:
		return fmt.Errorf("job %s is running and cannot be cancelled", hash)
	default:
		return fmt.Errorf("job %s is already %s", hash, state)
	}

	for i, dir := range pendingJobs {
		if filepath.Base(dir) == hash {
			pendingJobs = append(pendingJobs[:i], pendingJobs[i+1:]...)
			jobStates[hash] = StateCancelled
			if err := os.RemoveAll(dir); err != nil {
				logger.Errorf("Failed to remove cancelled job directory %s: %v", dir, err)
			}
			return nil
		}
	}
	return fmt.Errorf("job %s is pending but not queued", hash)
}

// SweepOrphans removes leftover job directories from earlier runs. Jobs do not
// survive a restart; the sweep only enforces the cleanup guarantee, it never
// resumes work.
func SweepOrphans() error {
	tempDir := os.TempDir()
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(tempDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dirPath, instructionsFile)); err != nil {
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			logger.Errorf("Failed to remove orphaned job directory %s: %v", dirPath, err)
			continue
		}
		logger.Infof("Removed orphaned job directory %s", dirPath)
	}
	return nil
}

// ProcessPendingJobs drains the queue forever. Each job runs in its own
// goroutine but the semaphore keeps at most the configured number of encodes
// running; the rest block in admission, preserving arrival order per claim.
func ProcessPendingJobs() {
	for {
		jobs := claimPendingJobs()
		if len(jobs) == 0 {
			time.Sleep(1 * time.Second)
			continue
		}
		logger.Infof("Dispatching %d pending jobs", len(jobs))

		for _, jobDir := range jobs {
			go func(dir string) {
				if err := processJob(dir); err != nil {
					logger.Errorf("Job in %s failed: %v", dir, err)
				}
			}(jobDir)
		}
	}
}

// processJob runs one job end to end: admission, encode, terminal state.
func processJob(dir string) error {
	hash := filepath.Base(dir)

	if state, _ := GetJobState(hash); state == StateCancelled {
		return nil
	}

	acquireSlot()
	defer releaseSlot()

	setJobState(hash, StateRunning)
	err := Process(dir)
	if err != nil {
		setJobState(hash, StateFailed)
		return err
	}
	setJobState(hash, StateCompleted)
	return nil
}

package builder

import (
	"sync"

	"github.com/google/uuid"
)

// Job is the handle for one launched build. It resolves exactly once, after
// the build process has fully exited: with the executable path when the
// artifact exists at the expected location, or with no path otherwise.
type Job struct {
	// ID uniquely identifies the job.
	ID string

	done chan struct{}
	once sync.Once

	execPath string
	ok       bool
}

func newJob() *Job {
	return &Job{ID: uuid.NewString(), done: make(chan struct{})}
}

// Done returns a channel closed when the job has resolved and its
// completion callback has returned.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result returns the built executable path and whether the build produced
// it. Only valid after Done is closed.
func (j *Job) Result() (string, bool) {
	return j.execPath, j.ok
}

// Wait blocks until the job resolves and returns its result.
func (j *Job) Wait() (string, bool) {
	<-j.done
	return j.execPath, j.ok
}

// resolve records the terminal state, runs onComplete, and closes done.
// Subsequent calls are no-ops.
func (j *Job) resolve(execPath string, ok bool, onComplete func(string, bool)) {
	j.once.Do(func() {
		j.execPath = execPath
		j.ok = ok
		if onComplete != nil {
			onComplete(execPath, ok)
		}
		close(j.done)
	})
}

package checkpoint

import (
	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

// RunLock is a run-scoped advisory lock guarding a checkpoint path.
// Two concurrent runs against the same checkpoint would interleave snapshot
// writes, so the second run must refuse to start.
type RunLock struct {
	lock *flock.Flock
}

// NewRunLock returns a lock on the checkpoint's companion .lock file.
func NewRunLock(checkpointPath string) *RunLock {
	return &RunLock{lock: flock.New(checkpointPath + ".lock")}
}

// Acquire takes the lock without blocking. It fails when another run
// already holds it.
func (l *RunLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return eris.Wrap(err, "checkpoint: acquire run lock")
	}
	if !ok {
		return eris.Errorf("checkpoint: another run holds %s", l.lock.Path())
	}
	return nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	return eris.Wrap(l.lock.Unlock(), "checkpoint: release run lock")
}

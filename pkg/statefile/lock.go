package statefile

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/treantools/treant/tapi"
)

// Lock is an exclusive advisory lock over one treant directory's state record.
// It serializes read-modify-write cycles across threads and processes.
// Lockless readers are unaffected; the atomic replace in SaveState is what
// keeps them safe.
type Lock struct {
	f *os.File
}

// LockDir acquires the exclusive advisory lock for the treant directory
// at dirPath, blocking until the lock is available.  There is no timeout;
// the wait is bounded externally, if at all, by the OS.
//
// The caller must release the lock with Unlock on every exit path.
//
// Errors:
//
//    - treant-error-io -- when the lock file cannot be opened or created.
//    - treant-error-syscall -- when the flock syscall fails.
func LockDir(dirPath string) (*Lock, error) {
	lockPath := filepath.Join(dirPath, MagicFilename_TreantLock)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, tapi.ErrorIo("could not open lock file", lockPath, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, tapi.ErrorSyscall("flock of %q failed: %w", lockPath, err)
	}
	return &Lock{f: f}, nil
}

// Unlock releases the lock.  The Lock is unusable afterwards.
//
// Errors:
//
//    - treant-error-syscall -- when the unlock syscall fails.
func (l *Lock) Unlock() error {
	defer l.f.Close()
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		return tapi.ErrorSyscall("unlock of %q failed: %w", l.f.Name(), err)
	}
	return nil
}

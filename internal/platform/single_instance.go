package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os/user"
)

// ErrAlreadyRunning indicates another tray process of the same user holds
// the lock.
var ErrAlreadyRunning = errors.New("tray already running")

// TrayLock is held by the tray process for its lifetime. The tray owns the
// in-memory practice history and the daily reminder timers, so a second
// tray would split the streak and fire every reminder twice. Terminal
// sessions do not take the lock.
type TrayLock struct {
	listener net.Listener
	owner    string
}

// AcquireTrayLock binds a loopback port derived from appName and the
// current user, so each desktop user gets one tray.
func AcquireTrayLock(appName string) (*TrayLock, error) {
	owner := lockOwner(appName, currentUser())
	return acquireOnPort(owner, portFromName(owner))
}

func acquireOnPort(owner string, port int) (*TrayLock, error) {
	if owner == "" {
		return nil, errors.New("acquire tray lock: owner is empty")
	}
	address := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrAlreadyRunning, owner, address)
	}
	return &TrayLock{listener: listener, owner: owner}, nil
}

// Release lets another tray start. Safe to call more than once.
func (lock *TrayLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Owner returns the app and user the lock was taken for.
func (lock *TrayLock) Owner() string {
	if lock == nil {
		return ""
	}
	return lock.owner
}

// Address returns the bound loopback address, or "" once released.
func (lock *TrayLock) Address() string {
	if lock == nil || lock.listener == nil {
		return ""
	}
	return lock.listener.Addr().String()
}

func lockOwner(appName, username string) string {
	if appName == "" {
		return ""
	}
	if username == "" {
		return appName
	}
	return appName + "@" + username
}

func currentUser() string {
	current, err := user.Current()
	if err != nil {
		return ""
	}
	return current.Username
}

func portFromName(name string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(name))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

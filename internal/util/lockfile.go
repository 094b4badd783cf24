package util

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nakachan-ing/taskboard/internal/model"
	"gopkg.in/yaml.v3"
)

var ErrLocked = errors.New("lock file already exists")

// CreateLockFile claims lockFileName for this process. If the file exists the
// current holder is returned together with ErrLocked.
func CreateLockFile(lockFileName, dbPath string) (model.LockFile, error) {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		user = "unknown"
	}

	lockFile := model.LockFile{
		ID:        uuid.NewString(),
		User:      user,
		Pid:       os.Getpid(),
		DBPath:    dbPath,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	}

	info, err := yaml.Marshal(&lockFile)
	if err != nil {
		return model.LockFile{}, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	f, err := os.OpenFile(lockFileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			holder, readErr := ReadLockFile(lockFileName)
			if readErr != nil {
				return model.LockFile{}, fmt.Errorf("%w: %s", ErrLocked, lockFileName)
			}
			return holder, fmt.Errorf("%w: held by %s (pid %d) since %s", ErrLocked, holder.User, holder.Pid, holder.TimeStamp)
		}
		return model.LockFile{}, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(info); err != nil {
		return model.LockFile{}, fmt.Errorf("failed to write lock file: %w", err)
	}

	return lockFile, nil
}

func ReadLockFile(lockFileName string) (model.LockFile, error) {
	data, err := os.ReadFile(lockFileName)
	if err != nil {
		return model.LockFile{}, fmt.Errorf("failed to read lock file: %w", err)
	}

	var lockFile model.LockFile
	if err := yaml.Unmarshal(data, &lockFile); err != nil {
		return model.LockFile{}, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return lockFile, nil
}

// RemoveLockFile deletes the lock if it still belongs to id.
func RemoveLockFile(lockFileName, id string) error {
	holder, err := ReadLockFile(lockFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if holder.ID != id {
		return fmt.Errorf("lock file %s belongs to another session", lockFileName)
	}
	if err := os.Remove(lockFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

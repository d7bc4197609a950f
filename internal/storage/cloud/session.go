package cloud

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/polyglottos/dataport/internal/entities"
	"github.com/polyglottos/dataport/internal/storage"
)

// DefaultSessionFileName is used when no session path is configured.
const DefaultSessionFileName = ".polyglottos-session.json"

// sessionFile persists the active session next to the user's home
// directory so it survives restarts even though the remote API has no
// session endpoint.
type sessionFile struct {
	path string
}

func newSessionFile(path string) *sessionFile {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			path = DefaultSessionFileName
		} else {
			path = filepath.Join(home, DefaultSessionFileName)
		}
	}
	return &sessionFile{path: path}
}

// load returns the stored session, or an empty one when the file is
// missing.
func (f *sessionFile) load() (entities.Session, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return entities.Session{}, nil
	}
	if err != nil {
		return nil, storage.NewError(storage.CodeSessionError, "failed to read session file", true, err)
	}
	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, storage.NewError(storage.CodeSessionError, "failed to decode session file", true, err)
	}
	return session, nil
}

func (f *sessionFile) store(session entities.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return storage.NewError(storage.CodeSessionError, "failed to encode session data", true, err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return storage.NewError(storage.CodeSessionError, "failed to save session data", true, err)
	}
	return nil
}

func (f *sessionFile) clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return storage.NewError(storage.CodeSessionError, "failed to clear session data", true, err)
	}
	return nil
}

package cryptox

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkarulin/filevault/internal/common"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// LoadOrCreateKey returns the process encryption key. An existing key file
// is read and base64-decoded; otherwise a fresh 256-bit key is generated
// and persisted base64-encoded with owner-only permissions.
//
// A key file that exists but cannot be decoded is a fatal error: starting
// with a different key would make every previously stored blob unreadable.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, derr := base64.StdEncoding.DecodeString(string(data))
		if derr != nil {
			return nil, fmt.Errorf("decode key file %s: %w", path, derr)
		}
		if len(key) != KeySize {
			return nil, fmt.Errorf("key file %s: unexpected key length %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}

	key := common.GenerateRandByteArray(KeySize)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create key directory %s: %w", dir, err)
		}
	}

	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("write key file %s: %w", path, err)
	}

	return key, nil
}

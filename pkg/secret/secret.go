// Package secret keeps the bearer token that guards the daemon's JSON-RPC
// endpoint. The token lives in the operating system keyring and falls back
// to a 0600 file in the config directory when no keyring is available.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	AppName  = "autoshot"
	KeyField = "rpc-secret"

	fileName = "rpc.secret"
	fileMode = 0600
	tokenLen = 32
)

var ErrEmpty = errors.New("stored secret is empty")

// Store persists a single token.
type Store interface {
	Get() (string, error)
	Set(token string) error
}

var (
	keyringSet = keyring.Set
	keyringGet = keyring.Get
	randRead   = rand.Read
)

type Keyring struct {
	AppName  string
	KeyField string
}

func NewKeyring() *Keyring {
	return &Keyring{AppName: AppName, KeyField: KeyField}
}

func (k *Keyring) Get() (string, error) {
	v, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrEmpty
	}
	return v, nil
}

func (k *Keyring) Set(token string) error {
	return keyringSet(k.AppName, k.KeyField, token)
}

// File stores the token in dir with owner-only permissions.
type File struct {
	dir string
}

func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path() string {
	return filepath.Join(f.dir, fileName)
}

func (f *File) Get() (string, error) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", ErrEmpty
	}
	return v, nil
}

// Set writes through a temp file and rename so a reader never sees a
// partial token.
func (f *File) Set(token string) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, ".rpc.secret.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err = tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write secret: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, fileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err = os.Rename(tmpPath, f.path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename secret file: %w", err)
	}
	return nil
}

// Generate returns a new random hex token.
func Generate() (string, error) {
	b := make([]byte, tokenLen)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Load returns the stored token, creating one on first use. Stores are
// tried in order; a store that cannot hold a fresh token is skipped.
func Load(stores ...Store) (string, error) {
	for _, s := range stores {
		if v, err := s.Get(); err == nil {
			return v, nil
		}
	}
	token, err := Generate()
	if err != nil {
		return "", err
	}
	var errs []error
	for _, s := range stores {
		if err = s.Set(token); err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", errors.New("no secret store configured")
	}
	return "", fmt.Errorf("store secret: %w", errors.Join(errs...))
}

// Resolve prefers an explicit token, then the keyring, then a file in
// configDir.
func Resolve(explicit, configDir string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	return Load(NewKeyring(), NewFile(configDir))
}

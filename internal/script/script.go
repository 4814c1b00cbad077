// Package script resolves and reads the SQL files named in the scripts list.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound indicates the named script is not a regular file in the scripts directory.
var ErrNotFound = errors.New("script file not found")

// Script is a SQL file read from disk. SQL is sent to the server unmodified.
type Script struct {
	Name string // filename as listed in the config
	Path string // scripts_dir/Name
	SQL  string
}

// Resolve joins name onto dir and checks that a regular file exists there.
// Directories count as missing.
func Resolve(dir, name string) (string, error) {
	path := filepath.Join(dir, name)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return path, fmt.Errorf("checking script %s: %w", path, err)
	}

	if info.IsDir() {
		return path, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	return path, nil
}

// Read loads the full text of the script at path.
func Read(name, path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file %s: %w", path, err)
	}

	return &Script{
		Name: name,
		Path: path,
		SQL:  string(data),
	}, nil
}

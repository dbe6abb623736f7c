// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package pgservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/yourbase/pgservice/servicefile"
	"zombiezen.com/go/log"
)

// WriteOptions holds optional parameters for WriteService. Nil options are
// treated identically as passing the zero value.
type WriteOptions struct {
	// Create makes WriteService append a new service (creating the file
	// and its parent directories if needed) instead of failing when the
	// named service does not exist.
	Create bool

	// Merge updates and appends the given settings into the service's
	// existing ones instead of replacing them wholesale.
	Merge bool
}

// WriteService writes the named service's settings to the service file and
// returns the settings now stored for it. If the service exists, its
// settings are replaced with the given ones (or merged into them with
// opts.Merge). If it does not exist and opts.Create is set, a new section is
// appended; otherwise WriteService returns a *ServiceNotFoundError. A
// missing file is a *ServiceFileNotFoundError unless opts.Create is set.
func WriteService(name string, settings servicefile.Settings, opts *WriteOptions, path string) (servicefile.Settings, error) {
	if opts == nil {
		opts = new(WriteOptions)
	}
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("write service: %w", err)
	}
	if err := validateSettings(settings); err != nil {
		return nil, fmt.Errorf("write service %q: %w", name, err)
	}
	var f *servicefile.File
	var err error
	if opts.Create {
		f, path, err = loadOrEmpty(path)
	} else {
		f, path, err = loadFile(path)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case !f.HasService(name):
		if !opts.Create {
			return nil, serviceNotFound(f, name, path)
		}
		f.SetService(name, settings)
	case opts.Merge:
		f.MergeService(name, settings)
	default:
		f.SetService(name, settings)
	}
	if err := writeFile(path, f); err != nil {
		return nil, err
	}
	result, _ := f.Service(name)
	return result, nil
}

// WriteServiceSetting writes a single setting of an existing service,
// leaving its other settings in place.
func WriteServiceSetting(name, key, value, path string) error {
	if err := validateName(name); err != nil {
		return fmt.Errorf("write service setting: %w", err)
	}
	if err := validateSettings(servicefile.Settings{{Key: key, Value: value}}); err != nil {
		return fmt.Errorf("write service setting: %w", err)
	}
	f, path, err := loadFile(path)
	if err != nil {
		return err
	}
	if !f.HasService(name) {
		return serviceNotFound(f, name, path)
	}
	f.MergeService(name, servicefile.Settings{{Key: key, Value: strings.TrimSpace(value)}})
	return writeFile(path, f)
}

// CreateService adds a new service to the service file and reports whether
// it was created. If a service with that name already exists, nothing is
// changed and CreateService returns false.
func CreateService(name string, settings servicefile.Settings, path string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, fmt.Errorf("create service: %w", err)
	}
	if err := validateSettings(settings); err != nil {
		return false, fmt.Errorf("create service %q: %w", name, err)
	}
	f, path, err := loadFile(path)
	if err != nil {
		return false, err
	}
	if f.HasService(name) {
		return false, nil
	}
	f.SetService(name, settings)
	if err := writeFile(path, f); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveService deletes the named service's section from the service file.
// All other sections and their surrounding comments are left untouched.
func RemoveService(name, path string) error {
	f, path, err := loadFile(path)
	if err != nil {
		return err
	}
	if !f.RemoveService(name) {
		return serviceNotFound(f, name, path)
	}
	return writeFile(path, f)
}

// RenameService changes a service's name, keeping its settings verbatim.
// It returns a *ServiceNotFoundError if oldName is absent and a
// *ServiceExistsError if newName is already taken.
func RenameService(oldName, newName, path string) error {
	if err := validateName(newName); err != nil {
		return fmt.Errorf("rename service: %w", err)
	}
	f, path, err := loadFile(path)
	if err != nil {
		return err
	}
	if f.HasService(newName) {
		return &ServiceExistsError{Name: newName, Path: path}
	}
	if !f.RenameService(oldName, newName) {
		return serviceNotFound(f, oldName, path)
	}
	return writeFile(path, f)
}

// DuplicateService copies the named service's settings into a new section
// named newName, inserted immediately after the source section. It returns
// a *ServiceNotFoundError if name is absent and a *ServiceExistsError if
// newName is already taken.
func DuplicateService(name, newName, path string) error {
	if err := validateName(newName); err != nil {
		return fmt.Errorf("duplicate service: %w", err)
	}
	f, path, err := loadFile(path)
	if err != nil {
		return err
	}
	if f.HasService(newName) {
		return &ServiceExistsError{Name: newName, Path: path}
	}
	if !f.DuplicateService(name, newName) {
		return serviceNotFound(f, name, path)
	}
	return writeFile(path, f)
}

// CopySettings merges settings from the source service into the target
// service, overwriting the target's values on key collisions. If keys is
// nil, all of the source's settings are copied; otherwise only the named
// keys are, in the given order, skipping keys the source does not have.
// Both services must exist.
func CopySettings(sourceName, targetName string, keys []string, path string) error {
	f, path, err := loadFile(path)
	if err != nil {
		return err
	}
	source, ok := f.Service(sourceName)
	if !ok {
		return serviceNotFound(f, sourceName, path)
	}
	if !f.HasService(targetName) {
		return serviceNotFound(f, targetName, path)
	}
	copied := source
	if keys != nil {
		copied = nil
		for _, k := range keys {
			if v, ok := source.Get(k); ok {
				copied = append(copied, servicefile.Setting{Key: k, Value: v})
			}
		}
	}
	f.MergeService(targetName, copied)
	return writeFile(path, f)
}

// ServiceToText renders one service as canonical service file text, without
// touching any file.
func ServiceToText(name string, settings servicefile.Settings) (string, error) {
	if err := validateName(name); err != nil {
		return "", fmt.Errorf("service to text: %w", err)
	}
	if err := validateSettings(settings); err != nil {
		return "", fmt.Errorf("service to text %q: %w", name, err)
	}
	f := new(servicefile.File)
	f.SetService(name, settings)
	text, err := f.MarshalText()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(text), "\n"), nil
}

func validateName(name string) error {
	if !servicefile.IsValidName(name) {
		return fmt.Errorf("invalid service name %q", name)
	}
	return nil
}

func validateSettings(settings servicefile.Settings) error {
	for _, kv := range settings {
		if !servicefile.IsValidKey(strings.TrimSpace(kv.Key)) {
			return fmt.Errorf("invalid setting key %q", kv.Key)
		}
		if !servicefile.IsValidValue(strings.TrimSpace(kv.Value)) {
			return fmt.Errorf("invalid value %q for setting %q", kv.Value, kv.Key)
		}
	}
	return nil
}

// writeFile atomically replaces the service file with the serialized form
// of f, keeping the file's existing permission bits. If the file is not
// writable, writeFile adds write permission and tries once more, matching
// how libpq tooling treats read-only service files.
func writeFile(path string, f *servicefile.File) error {
	data, err := f.MarshalText()
	if err != nil {
		return fmt.Errorf("write service file %s: %w", path, err)
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write service file %s: %w", path, err)
	}
	err = renameio.WriteFile(path, data, perm)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("write service file %s: %w", path, err)
	}
	log.Warnf(context.Background(), "Service file %s is not writable; adding write permission", path)
	perm |= 0o200
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("write service file %s: %w", path, err)
	}
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write service file %s: %w", path, err)
	}
	return nil
}

// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package pgservice reads and edits PostgreSQL connection service files
// (pg_service.conf). It resolves the file's location the way libpq does,
// lists and fetches the services defined in it, and rewrites services while
// preserving the comments and formatting of everything it does not touch.
//
// Every function takes the path of the service file to operate on; passing
// an empty path uses the location resolved by ConfPath. Calls are
// self-contained: each one re-reads the file from disk, so no state is
// shared between calls. Mutations rewrite the file atomically via a
// temporary file and rename, but there is no cross-process locking: two
// processes writing concurrently can still lose one of the updates.
package pgservice

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yourbase/pgservice/servicefile"
)

// loadFile parses the service file at path, or at the resolved default
// location if path is empty. A missing file yields a
// *ServiceFileNotFoundError; callers that treat absence as an empty file
// check for it with errors.As.
func loadFile(path string) (*servicefile.File, string, error) {
	if path == "" {
		path = ConfPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, path, &ServiceFileNotFoundError{Path: path}
	}
	if err != nil {
		return nil, path, fmt.Errorf("read service file: %w", err)
	}
	f := new(servicefile.File)
	if err := f.UnmarshalText(data); err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return f, path, nil
}

// loadOrEmpty is loadFile with a missing file treated as an empty one.
func loadOrEmpty(path string) (*servicefile.File, string, error) {
	f, path, err := loadFile(path)
	var notFound *ServiceFileNotFoundError
	if errors.As(err, &notFound) {
		return new(servicefile.File), path, nil
	}
	return f, path, err
}

// ServiceNames returns the names of the services in the file, in the order
// they appear. A missing file yields no names, not an error.
func ServiceNames(path string) ([]string, error) {
	f, _, err := loadOrEmpty(path)
	if err != nil {
		return nil, err
	}
	return f.ServiceNames(), nil
}

// SortedServiceNames is like ServiceNames but sorts the names
// alphabetically, ignoring case.
func SortedServiceNames(path string) ([]string, error) {
	names, err := ServiceNames(path)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// ServiceConfig returns the named service's settings. It returns a
// *ServiceNotFoundError if the service is absent; a missing file counts as
// having no services.
func ServiceConfig(name, path string) (servicefile.Settings, error) {
	f, path, err := loadOrEmpty(path)
	if err != nil {
		return nil, err
	}
	settings, ok := f.Service(name)
	if !ok {
		return nil, serviceNotFound(f, name, path)
	}
	return settings, nil
}

// FullConfig parses the whole service file and returns it. A missing file
// yields an empty file, not an error.
func FullConfig(path string) (*servicefile.File, error) {
	f, _, err := loadOrEmpty(path)
	return f, err
}

func serviceNotFound(f *servicefile.File, name, path string) error {
	return &ServiceNotFoundError{Name: name, Path: path, Available: f.ServiceNames()}
}

// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package pgservice

import (
	"fmt"
	"io/fs"
	"strings"
)

// ServiceFileNotFoundError is returned by operations that require an
// existing service file when the file does not exist. It matches
// errors.Is(err, fs.ErrNotExist).
type ServiceFileNotFoundError struct {
	Path string
}

func (e *ServiceFileNotFoundError) Error() string {
	return fmt.Sprintf("service file %s has not been found", e.Path)
}

func (e *ServiceFileNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// ServiceNotFoundError is returned when a named service is absent from the
// service file.
type ServiceNotFoundError struct {
	Name string
	Path string
	// Available lists the names that are present, in file order.
	Available []string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %q has not been found in %s (available: %s)",
		e.Name, e.Path, strings.Join(e.Available, ", "))
}

// ServiceExistsError is returned when the target name of a rename or
// duplicate operation is already taken.
type ServiceExistsError struct {
	Name string
	Path string
}

func (e *ServiceExistsError) Error() string {
	return fmt.Sprintf("service %q already exists in %s", e.Name, e.Path)
}

// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package pgservice

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const serviceFileName = "pg_service.conf"

// ConfPath returns the location of the service file, following libpq's
// discovery conventions. Candidate locations are tried in order:
//
//	1. the file named by the PGSERVICEFILE environment variable,
//	2. pg_service.conf inside the directory named by PGSYSCONFDIR,
//	3. the per-user file (~/.pg_service.conf, or
//	   %APPDATA%\postgresql\.pg_service.conf on Windows),
//	4. the system-wide file (/etc/pg_service.conf, or the PostgreSQL
//	   etc directory under %ProgramFiles% on Windows).
//
// The first candidate that exists on disk wins. If none exists, ConfPath
// returns the per-user location so that callers can create it. ConfPath
// never fails.
func ConfPath() string {
	for _, p := range confPathCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return userConfPath()
}

func confPathCandidates() []string {
	var candidates []string
	if p := os.Getenv("PGSERVICEFILE"); p != "" {
		candidates = append(candidates, p)
	}
	if dir := os.Getenv("PGSYSCONFDIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, serviceFileName))
	}
	return append(candidates, userConfPath(), systemConfPath())
}

func userConfPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", ".pg_service.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pg_service.conf")
}

func systemConfPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("ProgramFiles"), "PostgreSQL", "etc", serviceFileName)
	}
	return filepath.Join("/etc", serviceFileName)
}

// CreateConfFile ensures that the service file and its parent directories
// exist, creating an empty file if needed, and returns its path. An empty
// path means the location resolved by ConfPath. Existing content is never
// touched.
func CreateConfFile(path string) (string, error) {
	if path == "" {
		path = ConfPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create service file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return "", fmt.Errorf("create service file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("create service file: %w", err)
	}
	return path, nil
}

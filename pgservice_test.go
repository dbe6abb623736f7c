// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package pgservice

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yourbase/pgservice/servicefile"
)

const testFixture = "# test services\n" +
	"[service_1]\n" +
	"host=host_1\n" +
	"dbname=db_1\n" +
	"port=1111\n" +
	"user=user_1\n" +
	"password=pwd_1\n" +
	"\n" +
	"[Service_3]\n" +
	"host=host_3\n" +
	"\n" +
	"[service_2]\n" +
	"host=host_2\n"

func fixturePath(t *testing.T) string {
	t.Helper()
	return writeTempFile(t, t.TempDir(), serviceFileName, testFixture)
}

func TestServiceNames(t *testing.T) {
	path := fixturePath(t)
	got, err := ServiceNames(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"service_1", "Service_3", "service_2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ServiceNames (-want +got):\n%s", diff)
	}

	t.Run("MissingFile", func(t *testing.T) {
		got, err := ServiceNames(filepath.Join(t.TempDir(), "absent.conf"))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) > 0 {
			t.Errorf("ServiceNames on missing file = %q; want empty", got)
		}
	})

	t.Run("DefaultPathFromEnv", func(t *testing.T) {
		clearPathEnv(t)
		t.Setenv("PGSERVICEFILE", path)
		got, err := ServiceNames("")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ServiceNames (-want +got):\n%s", diff)
		}
	})
}

func TestSortedServiceNames(t *testing.T) {
	got, err := SortedServiceNames(fixturePath(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"service_1", "service_2", "Service_3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortedServiceNames (-want +got):\n%s", diff)
	}
}

func TestServiceConfig(t *testing.T) {
	path := fixturePath(t)
	got, err := ServiceConfig("service_1", path)
	if err != nil {
		t.Fatal(err)
	}
	want := servicefile.Settings{
		{Key: "host", Value: "host_1"},
		{Key: "dbname", Value: "db_1"},
		{Key: "port", Value: "1111"},
		{Key: "user", Value: "user_1"},
		{Key: "password", Value: "pwd_1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ServiceConfig (-want +got):\n%s", diff)
	}

	t.Run("NotFound", func(t *testing.T) {
		_, err := ServiceConfig("non_existing_service", path)
		var notFound *ServiceNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("ServiceConfig error = %v; want *ServiceNotFoundError", err)
		}
		if notFound.Name != "non_existing_service" {
			t.Errorf("Name = %q; want %q", notFound.Name, "non_existing_service")
		}
		wantAvailable := []string{"service_1", "Service_3", "service_2"}
		if diff := cmp.Diff(wantAvailable, notFound.Available); diff != "" {
			t.Errorf("Available (-want +got):\n%s", diff)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ServiceConfig("service_1", filepath.Join(t.TempDir(), "absent.conf"))
		var notFound *ServiceNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("ServiceConfig error = %v; want *ServiceNotFoundError", err)
		}
		if len(notFound.Available) > 0 {
			t.Errorf("Available = %q; want empty", notFound.Available)
		}
	})
}

func TestFullConfig(t *testing.T) {
	f, err := FullConfig(fixturePath(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"service_1", "Service_3", "service_2"}
	if diff := cmp.Diff(want, f.ServiceNames()); diff != "" {
		t.Errorf("ServiceNames (-want +got):\n%s", diff)
	}

	t.Run("MissingFileIsEmpty", func(t *testing.T) {
		f, err := FullConfig(filepath.Join(t.TempDir(), "absent.conf"))
		if err != nil {
			t.Fatal(err)
		}
		if names := f.ServiceNames(); len(names) > 0 {
			t.Errorf("ServiceNames = %q; want empty", names)
		}
	})

	t.Run("ParseError", func(t *testing.T) {
		path := writeTempFile(t, t.TempDir(), serviceFileName, "[broken\n")
		_, err := FullConfig(path)
		var parseErr *servicefile.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("FullConfig error = %v; want *servicefile.ParseError", err)
		}
	})
}

func TestServiceFileNotFoundErrorIsNotExist(t *testing.T) {
	err := RemoveService("whatever", filepath.Join(t.TempDir(), "absent.conf"))
	var fileNotFound *ServiceFileNotFoundError
	if !errors.As(err, &fileNotFound) {
		t.Fatalf("RemoveService error = %v; want *ServiceFileNotFoundError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is(err, fs.ErrNotExist) = false for %v", err)
	}
}

// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package params describes the libpq connection parameters commonly kept in
// service files, for callers that present or validate service settings.
// The service file format itself does not restrict keys to this list.
// See https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS.
package params

import "github.com/yourbase/pgservice/servicefile"

// Values accepted by the sslmode parameter.
const (
	SSLModeDisable    = "disable"
	SSLModeAllow      = "allow"
	SSLModePrefer     = "prefer"
	SSLModeRequire    = "require"
	SSLModeVerifyCA   = "verify-ca"
	SSLModeVerifyFull = "verify-full"
)

// A Param describes one known connection parameter.
type Param struct {
	Name        string
	Default     string
	Description string

	// Values enumerates the accepted values, if the parameter takes one of
	// a fixed set.
	Values []string

	// Secret marks parameters whose values should be masked when
	// displayed.
	Secret bool

	// FilePath marks parameters whose values name a file on disk.
	FilePath bool
}

var catalog = []Param{
	{
		Name:        "host",
		Default:     "localhost",
		Description: "Name of host to connect to.",
	},
	{
		Name:        "port",
		Default:     "5432",
		Description: "Port number to connect to at the server host.",
	},
	{
		Name:        "dbname",
		Default:     "test",
		Description: "The database name.",
	},
	{
		Name:        "user",
		Description: "PostgreSQL user name to connect as.",
	},
	{
		Name:        "password",
		Description: "Password to be used if the server demands password authentication.",
		Secret:      true,
	},
	{
		Name:        "passfile",
		Description: "Specifies the name of the file used to store passwords.",
		FilePath:    true,
	},
	{
		Name:    "sslmode",
		Default: SSLModePrefer,
		Description: "This option determines whether or with what priority a secure SSL " +
			"TCP/IP connection will be negotiated with the server.",
		Values: []string{
			SSLModeDisable,
			SSLModeAllow,
			SSLModePrefer,
			SSLModeRequire,
			SSLModeVerifyCA,
			SSLModeVerifyFull,
		},
	},
	{
		Name: "sslrootcert",
		Description: "Name of a file containing SSL certificate authority (CA) certificate(s). " +
			"If the file exists, the server's certificate will be verified to be signed " +
			"by one of these authorities.",
		FilePath: true,
	},
	{
		Name: "sslcert",
		Description: "Specifies the file name of the client SSL certificate, replacing " +
			"the default ~/.postgresql/postgresql.crt.",
		FilePath: true,
	},
	{
		Name:        "sslkey",
		Description: "Specifies the location for the secret key used for the client certificate.",
		FilePath:    true,
	},
}

// All returns the known parameters in their conventional display order.
func All() []Param {
	return append([]Param(nil), catalog...)
}

// Lookup returns the description of the named parameter.
func Lookup(name string) (Param, bool) {
	for _, p := range catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Template returns the settings used to seed a newly created service.
func Template() servicefile.Settings {
	return servicefile.Settings{
		{Key: "host", Value: "localhost"},
		{Key: "port", Value: "5432"},
		{Key: "dbname", Value: "test"},
	}
}

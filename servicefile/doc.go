// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package servicefile provides a parser and serializer for the PostgreSQL
connection service file format ("pg_service.conf"). See
https://www.postgresql.org/docs/current/libpq-pgservice.html.

This package is specifically designed for read-modify-write scenarios: it
remembers the original text of every line it parses, so serializing a file
reproduces comments, blank lines, and section ordering byte-for-byte for
every construct the caller did not touch. It deliberately supports only the
pg_service dialect; it is not a general INI library.

Syntax

A service file is Unicode text encoded in UTF-8. It consists of zero or more
services. A service is started by writing its name in square brackets ('['
and ']') on its own line and ends at the next service name or the end of
file:

	[service_name]
	host=localhost
	port=5432

Each non-blank, non-comment line inside a service is a setting: a key and a
value separated by an equals sign ('='). Whitespace around the name, the
key, and the value is ignored. Values are uninterpreted strings; there is no
quoting or escape syntax. Keys are not allowed to contain equals signs,
hashes, or semicolons, or to start with a square bracket.

If the first non-whitespace character of a line is a hash ('#') or a
semicolon (';'), the whole line is a comment. On a setting line, a hash or
semicolon preceded by whitespace starts an inline comment; the comment is
excluded from the setting's value and preserved on rewrite for as long as
the setting itself is not modified.

A setting before the first service name, a line with no equals sign, and a
service name that repeats an earlier one are all parse errors.

Repeated keys

Multiple settings in the same service may share a key. When retrieving the
setting in a single-value context (like File.Get), the last value wins. The
repeated lines themselves survive rewrites untouched.
*/
package servicefile

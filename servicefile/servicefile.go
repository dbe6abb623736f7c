// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package servicefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A File is the parsed representation of one service file. The zero value is
// an empty file. Files can be read by multiple concurrent goroutines, but
// mutation requires external synchronization.
type File struct {
	sections []section
	trailing []string
}

type section struct {
	name string
	// header is the verbatim source line for the section header. It is
	// empty for sections created or renamed in memory, which serialize as
	// a canonical "[name]" line.
	header string
	// lines holds the verbatim comment and blank lines preceding the
	// header.
	lines []string
	props []property
}

type property struct {
	// lines holds the verbatim comment and blank lines preceding the
	// setting.
	lines []string
	key   string
	value string
	// raw is the verbatim source line, including any inline comment. It is
	// empty for settings created or modified in memory, which serialize as
	// a canonical "key=value" line.
	raw string
}

// A ParseError describes a line of input that does not conform to the
// service file syntax.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse service file: line %d: %s", e.Line, e.Msg)
}

// Parse parses a service file.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse. An empty input produces an empty file, never an
// error.
func Parse(r io.Reader) (*File, error) {
	f := new(File)
	s := bufio.NewScanner(r)
	var pending []string
	lineno := 0
	for s.Scan() {
		lineno++
		raw := s.Text()
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || line[0] == '#' || line[0] == ';':
			pending = append(pending, raw)
		case line[0] == '[':
			if line[len(line)-1] != ']' {
				return f, &ParseError{Line: lineno, Msg: "missing section closing bracket"}
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return f, &ParseError{Line: lineno, Msg: "service name missing"}
			}
			if strings.ContainsAny(name, "[]") {
				return f, &ParseError{Line: lineno, Msg: fmt.Sprintf("unexpected brackets in service name %q", name)}
			}
			if f.HasService(name) {
				return f, &ParseError{Line: lineno, Msg: fmt.Sprintf("duplicate service %q", name)}
			}
			f.sections = append(f.sections, section{
				name:   name,
				header: raw,
				lines:  pending,
			})
			pending = nil
		default:
			if len(f.sections) == 0 {
				return f, &ParseError{Line: lineno, Msg: "setting before any service section"}
			}
			i := strings.IndexByte(line, '=')
			if i == -1 {
				return f, &ParseError{Line: lineno, Msg: "could not find '='"}
			}
			key := strings.TrimSpace(line[:i])
			if !IsValidKey(key) {
				return f, &ParseError{Line: lineno, Msg: fmt.Sprintf("invalid key %q", key)}
			}
			curr := &f.sections[len(f.sections)-1]
			curr.props = append(curr.props, property{
				lines: pending,
				key:   key,
				value: settingValue(line[i+1:]),
				raw:   raw,
			})
			pending = nil
		}
	}
	if err := s.Err(); err != nil {
		return f, fmt.Errorf("parse service file: line %d: %w", lineno, err)
	}
	f.trailing = pending
	return f, nil
}

// settingValue extracts the value from the text after the equals sign,
// dropping any inline comment: a '#' or ';' preceded by whitespace.
func settingValue(rest string) string {
	for i := 1; i < len(rest); i++ {
		if (rest[i] == '#' || rest[i] == ';') && isSpace(rest[i-1]) {
			rest = rest[:i]
			break
		}
	}
	return strings.TrimSpace(rest)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// ServiceNames returns the names of the services in the file, in the order
// they appear.
func (f *File) ServiceNames() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.sections))
	for i := range f.sections {
		names = append(names, f.sections[i].name)
	}
	return names
}

// HasService reports whether the file contains a service with the given
// name.
func (f *File) HasService(name string) bool {
	return f.section(name) != nil
}

// Service returns a copy of the named service's settings in file order.
// If the same key appears more than once, the returned settings carry the
// last value at the key's first position.
func (f *File) Service(name string) (Settings, bool) {
	s := f.section(name)
	if s == nil {
		return nil, false
	}
	var settings Settings
	for _, p := range s.props {
		if i := settings.index(p.key); i != -1 {
			settings[i].Value = p.value
			continue
		}
		settings = append(settings, Setting{Key: p.key, Value: p.value})
	}
	return settings, true
}

// Get returns the last value associated with the given key in the named
// service. If the service or the key is absent, Get returns the empty
// string.
func (f *File) Get(service, key string) string {
	s := f.section(service)
	if s == nil {
		return ""
	}
	for i := len(s.props) - 1; i >= 0; i-- {
		if s.props[i].key == key {
			return s.props[i].value
		}
	}
	return ""
}

func (f *File) section(name string) *section {
	if f == nil {
		return nil
	}
	for i := range f.sections {
		if f.sections[i].name == name {
			return &f.sections[i]
		}
	}
	return nil
}

// MarshalText serializes the file. Constructs that were parsed and not
// modified are reproduced byte-for-byte, including comments, blank lines,
// and inline comments. Settings and headers created or modified in memory
// are written in canonical form.
func (f *File) MarshalText() ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	var buf []byte
	for i := range f.sections {
		s := &f.sections[i]
		for _, l := range s.lines {
			buf = append(buf, l...)
			buf = append(buf, '\n')
		}
		if s.header != "" {
			buf = append(buf, s.header...)
		} else {
			buf = append(buf, '[')
			buf = append(buf, s.name...)
			buf = append(buf, ']')
		}
		buf = append(buf, '\n')
		for _, p := range s.props {
			for _, l := range p.lines {
				buf = append(buf, l...)
				buf = append(buf, '\n')
			}
			if p.raw != "" {
				buf = append(buf, p.raw...)
			} else {
				buf = append(buf, p.key...)
				buf = append(buf, '=')
				buf = append(buf, p.value...)
			}
			buf = append(buf, '\n')
		}
	}
	for _, l := range f.trailing {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	return buf, nil
}

// UnmarshalText parses the service file data, replacing any services in f.
func (f *File) UnmarshalText(data []byte) error {
	parsed, err := Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// A Setting is one key/value pair of a service.
type Setting struct {
	Key   string
	Value string
}

// Settings is an ordered list of settings. Order is significant: writing
// settings to a file preserves the order given here.
type Settings []Setting

// Get returns the value associated with the given key and whether the key
// is present.
func (s Settings) Get(key string) (string, bool) {
	if i := s.index(key); i != -1 {
		return s[i].Value, true
	}
	return "", false
}

func (s Settings) index(key string) int {
	for i := range s {
		if s[i].Key == key {
			return i
		}
	}
	return -1
}

// Map returns the settings as a plain map, losing order.
func (s Settings) Map() map[string]string {
	if s == nil {
		return nil
	}
	m := make(map[string]string, len(s))
	for _, kv := range s {
		m[kv.Key] = kv.Value
	}
	return m
}

// Clone returns a copy of the settings that shares no storage with s.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	return append(Settings(nil), s...)
}

// IsValidName reports whether a string can be used as a service name.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	return !strings.ContainsAny(name, "[]\n\r")
}

// IsValidKey reports whether a string can be used as a setting key.
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	if first == '[' || first == ']' {
		return false
	}
	return !strings.ContainsAny(key, ";=#\n\r")
}

// IsValidValue reports whether a string survives a write/read round trip as
// a setting value. Values must be single-line and must not contain an
// inline comment marker (a '#' or ';' preceded by whitespace), since the
// parser would strip everything after the marker on the next read.
func IsValidValue(value string) bool {
	if strings.ContainsAny(value, "\n\r") {
		return false
	}
	for i := 1; i < len(value); i++ {
		if (value[i] == '#' || value[i] == ';') && isSpace(value[i-1]) {
			return false
		}
	}
	return true
}

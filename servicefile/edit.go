// Copyright 2021 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package servicefile

import "strings"

// SetService replaces the named service's settings with the given ones, in
// the given order. If the service does not exist, a new section is appended
// to the end of the file, separated from existing content by a blank line.
// Comments preceding the section header are kept; comments attached to the
// replaced settings are dropped with them. SetService will panic if
// IsValidName(name) or IsValidKey/IsValidValue on any setting report false.
func (f *File) SetService(name string, settings Settings) {
	if !IsValidName(name) {
		panic("File.SetService invalid service name: " + name)
	}
	s := f.section(name)
	if s == nil {
		// Trailing comments now precede the new section; keep them
		// attached to it so they stay in place.
		lines := f.trailing
		f.trailing = nil
		if len(f.sections) > 0 {
			lines = append([]string{""}, lines...)
		}
		f.sections = append(f.sections, section{name: name, lines: lines})
		s = &f.sections[len(f.sections)-1]
	}
	s.props = canonicalProperties(settings)
}

// MergeService merges the given settings into the named service: existing
// keys are updated in place, new keys are appended in the given order. The
// service must exist. MergeService returns the resulting settings and
// panics on the same inputs as SetService.
func (f *File) MergeService(name string, settings Settings) Settings {
	s := f.section(name)
	if s == nil {
		panic("File.MergeService unknown service: " + name)
	}
	for _, kv := range settings {
		kv = canonicalSetting(kv)
		updated := false
		// Update the last occurrence so single-value reads see the new
		// value; earlier duplicates stay untouched.
		for j := len(s.props) - 1; j >= 0; j-- {
			p := &s.props[j]
			if p.key != kv.Key {
				continue
			}
			if p.value != kv.Value {
				p.value = kv.Value
				p.raw = ""
			}
			updated = true
			break
		}
		if !updated {
			s.props = append(s.props, property{key: kv.Key, value: kv.Value})
		}
	}
	merged, _ := f.Service(name)
	return merged
}

// RemoveService deletes the named service's section, along with the
// comments attached to it. It reports whether the service was present.
func (f *File) RemoveService(name string) bool {
	for i := range f.sections {
		if f.sections[i].name != name {
			continue
		}
		copy(f.sections[i:], f.sections[i+1:])
		// Zero out the truncated element for garbage collection.
		f.sections[len(f.sections)-1] = section{}
		f.sections = f.sections[:len(f.sections)-1]
		return true
	}
	return false
}

// RenameService changes the named service's section header, keeping its
// settings and attached comments verbatim. It reports whether the service
// was present. RenameService will panic if IsValidName(newName) reports
// false; checking that newName is not already taken is the caller's job.
func (f *File) RenameService(name, newName string) bool {
	if !IsValidName(newName) {
		panic("File.RenameService invalid service name: " + newName)
	}
	s := f.section(name)
	if s == nil {
		return false
	}
	s.name = newName
	s.header = ""
	return true
}

// DuplicateService inserts a copy of the named service's settings as a new
// section named newName, immediately after the source section. It reports
// whether the source was present. DuplicateService will panic if
// IsValidName(newName) reports false; checking that newName is not already
// taken is the caller's job.
func (f *File) DuplicateService(name, newName string) bool {
	if !IsValidName(newName) {
		panic("File.DuplicateService invalid service name: " + newName)
	}
	for i := range f.sections {
		if f.sections[i].name != name {
			continue
		}
		settings, _ := f.Service(name)
		dup := section{
			name:  newName,
			lines: []string{""},
			props: canonicalProperties(settings),
		}
		f.sections = append(f.sections, section{})
		copy(f.sections[i+2:], f.sections[i+1:])
		f.sections[i+1] = dup
		return true
	}
	return false
}

func canonicalProperties(settings Settings) []property {
	var props []property
	for _, kv := range settings {
		kv = canonicalSetting(kv)
		props = append(props, property{key: kv.Key, value: kv.Value})
	}
	return props
}

func canonicalSetting(kv Setting) Setting {
	kv.Key = strings.TrimSpace(kv.Key)
	kv.Value = strings.TrimSpace(kv.Value)
	if !IsValidKey(kv.Key) {
		panic("invalid setting key: " + kv.Key)
	}
	if !IsValidValue(kv.Value) {
		panic("invalid setting value: " + kv.Value)
	}
	return kv
}

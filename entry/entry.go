// Package entry implements the immutable projected-file descriptor shared
// by every mcrawfs component, along with the path-resolution helpers the
// virtual filesystem core and host adapter use to map a path to one.
package entry

import (
	"fmt"
	"strings"
)

// Type classifies what an Entry projects.
type Type int

const (
	// Invalid marks a zero-value Entry; never produced by a mount.
	Invalid Type = iota
	File
	Directory
)

func (t Type) String() string {
	switch t {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "invalid"
	}
}

// Entry is an immutable descriptor of a single projected file or directory.
//
// Equality and hashing are structural over (Type, PathParts, Name) only —
// Size and UserData intentionally do not participate, since the declared
// size is a constant estimate (see doc on typical_dng_size in package vfs)
// and UserData is metadata riding along with an otherwise stable identity.
type Entry struct {
	Type      Type
	PathParts []string
	Name      string
	Size      int64
	UserData  int64
}

// DesktopINI is the literal contents of the platform-shell helper entry
// projected at the mount root: a Windows desktop.ini that disables
// Explorer's per-file icon thumbnailing, which would otherwise force
// every *.dng placeholder to render on listing.
const DesktopINI = "[.ShellClassInfo]\r\nIconResource=dng.ico,0\r\n[ViewState]\r\nMode=\r\nVid=\r\nFolderType=Pictures\r\n"

// DesktopININame is the leaf name of the platform-shell helper entry.
const DesktopININame = "desktop.ini"

// NewDesktopINIEntry returns the platform-shell helper entry projected at
// the mount root.
func NewDesktopINIEntry() Entry {
	return Entry{
		Type: File,
		Name: DesktopININame,
		Size: int64(len(DesktopINI)),
	}
}

// key is the comparable projection of an Entry's identity, suitable as a
// Go map key (PathParts is a slice and so Entry itself is not comparable).
type key struct {
	typ  Type
	path string
	name string
}

// Key returns a value usable as a map key that reflects exactly the fields
// that participate in Entry equality: (Type, PathParts, Name).
func (e Entry) Key() any {
	return key{typ: e.Type, path: strings.Join(e.PathParts, "/"), name: e.Name}
}

// Equal reports whether two entries share the same identity, ignoring Size
// and UserData per the data model's equality rule.
func (e Entry) Equal(other Entry) bool {
	return e.Key() == other.Key()
}

// Path returns the normalized relative path joining PathParts and Name,
// the form find_entry matches against.
func (e Entry) Path() string {
	if len(e.PathParts) == 0 {
		return e.Name
	}
	return strings.Join(e.PathParts, "/") + "/" + e.Name
}

// SplitPath normalizes an absolute or relative path into the path_parts +
// name decomposition an Entry uses, trimming leading/trailing slashes and
// collapsing empty segments.
func SplitPath(p string) (pathParts []string, name string) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, ""
	}
	segs := strings.Split(p, "/")
	clean := segs[:0:0]
	for _, s := range segs {
		if s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return nil, ""
	}
	return clean[:len(clean)-1], clean[len(clean)-1]
}

// FrameName builds the zero-padded frame entry name, e.g.
// FrameName("clip", 42) == "clip-0000042.dng". The index field is at least
// 7 digits wide.
func FrameName(base string, index int) string {
	return fmt.Sprintf("%s-%07d.dng", base, index)
}

// AudioName is the fixed leaf name of the synthesized audio entry.
const AudioName = "audio.wav"

// NewAudioEntry builds the audio.wav entry sized to the already-synthesized
// blob.
func NewAudioEntry(size int64) Entry {
	return Entry{Type: File, Name: AudioName, Size: size}
}

// NewFrameEntry builds a frame entry for the given 0-based presentation
// index. size is the typical_dng_size measured at mount time (constant
// across every frame entry); userData is the source timestamp, in
// nanoseconds, of the physical frame this entry projects to.
func NewFrameEntry(base string, index int, size, userData int64) Entry {
	return Entry{
		Type:     File,
		Name:     FrameName(base, index),
		Size:     size,
		UserData: userData,
	}
}

// FindByPath performs find_entry's linear scan: matches on the normalized
// relative path joining path_parts + name. The entry list is small enough
// (one per frame, not one per directory level) that a scan is preferable to
// building an auxiliary index that would need to be kept in sync across
// updateOptions rebuilds.
func FindByPath(entries []Entry, absolutePath string) (Entry, bool) {
	wantParts, wantName := SplitPath(absolutePath)
	want := Entry{PathParts: wantParts, Name: wantName}.Path()
	for _, e := range entries {
		if e.Path() == want {
			return e, true
		}
	}
	return Entry{}, false
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata.
//
// The file path connects an in-memory object (a DeclarationRef or a Manifest)
// back to its physical source: a marker file below a directory root, or an
// entry inside an archive bundle. Every resolution error names this location.
package model

import "path"

// FSInfo locates a declaration unit on disk.
type FSInfo struct {
	// FilePath is the marker file for directory sources, or the entry name
	// inside Archive for bundle sources.
	FilePath string
	// Archive is the bundle path; empty for directory sources.
	Archive string
}

func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// NewArchiveFSInfo returns the location of entry inside the bundle archive.
func NewArchiveFSInfo(archive, entry string) *FSInfo {
	return &FSInfo{
		FilePath: entry,
		Archive:  archive,
	}
}

// String renders the location as a path, using "!" between a bundle and its
// entry.
func (f *FSInfo) String() string {
	if f == nil {
		return ""
	}
	if f.Archive != "" {
		return f.Archive + "!" + path.Clean("/"+f.FilePath)
	}
	return f.FilePath
}

// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build ios

package vk

import "time"

// sys_darwin_ios.go: iOS ships no unix.Nanosleep binding distinct from
// darwin's in x/sys, but is split into its own build-tagged file to match
// the one-file-per-OS convention the rest of this package (and the
// engine's vu_ios.go/vu_macos.go split) follows.
func platformPollSleep(d time.Duration) {
	time.Sleep(d)
}

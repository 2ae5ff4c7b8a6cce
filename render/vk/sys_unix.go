// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build (linux || darwin) && !ios

package vk

import (
	"time"

	"golang.org/x/sys/unix"
)

// sys_unix.go gives WaitIdle a bounded-sleep fallback on platforms whose
// driver doesn't expose a blocking fence wait through the wrapped
// binding: nanosleep in a short poll loop rather than a busy spin.
func platformPollSleep(d time.Duration) {
	rem := unix.NsecToTimespec(d.Nanoseconds())
	for {
		if err := unix.Nanosleep(&rem, &rem); err != unix.EINTR {
			return
		}
	}
}

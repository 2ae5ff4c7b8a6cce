// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build windows

package vk

import (
	"time"

	"golang.org/x/sys/windows"
)

// sys_windows.go mirrors sys_unix.go's bounded poll-wait using the
// Windows Sleep syscall wrapper instead of nanosleep.
func platformPollSleep(d time.Duration) {
	ms := uint32(d.Milliseconds())
	if ms == 0 {
		ms = 1
	}
	windows.SleepEx(ms, false)
}

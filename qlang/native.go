// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "log/slog"

// native.go is the bridge between QLang source and Go: RegisterNative on a
// Runtime binds a bare identifier to a NativeFunc. This file only carries
// the handful of natives every script can assume exist regardless of which
// host registers it; no engine-side node manipulation natives are
// registered anywhere in this module.

// RegisterBuiltins binds the small set of host-independent natives:
// print/printf-style logging through the same slog logger the render and
// bake pipelines use, so script diagnostics land in the same stream.
func RegisterBuiltins(rt *Runtime, logger *slog.Logger) {
	rt.RegisterNative("print", func(rt *Runtime, args []QValue) (QValue, error) {
		if len(args) == 0 {
			logger.Info("")
			return Null, nil
		}
		logger.Info(args[0].Text())
		return Null, nil
	})
	rt.RegisterNative("printError", func(rt *Runtime, args []QValue) (QValue, error) {
		if len(args) == 0 {
			logger.Error("")
			return Null, nil
		}
		logger.Error(args[0].Text())
		return Null, nil
	})
}

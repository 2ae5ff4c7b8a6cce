// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// errors.go collects the render/bake failure taxonomy spec.md §7
// describes at the engine level, distinct from render/vk's narrower
// GPU-facing Error (PipelineCreateFailed/DescriptorAllocFailed/
// DeviceLost/BufferAllocFailed), which this package's code returns or
// wraps directly rather than re-declaring.

import "fmt"

// Code identifies one of the engine-level failure modes a scene/bake
// operation can report, layered on top of render/vk's device-facing
// taxonomy.
type Code int

const (
	// NoLights is returned by a bake that finds no light sources in the
	// graph to accumulate direct lighting from.
	NoLights Code = iota
	// NoMeshes is returned by a bake that finds nothing to operate on.
	NoMeshes
	// UVGenerationFailed is returned when a mesh cannot be given a
	// non-overlapping UV2 atlas layout (e.g. degenerate geometry).
	UVGenerationFailed
	// GpuKernelFailed is returned by SceneRenderer when a render-device
	// call (descriptor, buffer, image, pipeline, or wait) fails. The bake
	// and the raycaster run on the CPU and never return it.
	GpuKernelFailed
)

func (c Code) String() string {
	switch c {
	case NoLights:
		return "NoLights"
	case NoMeshes:
		return "NoMeshes"
	case UVGenerationFailed:
		return "UVGenerationFailed"
	case GpuKernelFailed:
		return "GpuKernelFailed"
	default:
		return "Unknown"
	}
}

// Error is one engine-level failure: a taxonomy code, the operation that
// failed, and an optional wrapped cause (a render/vk.Error when the
// failure originated at the GPU layer).
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(code Code, op string, cause error) *Error {
	return &Error{Code: code, Op: op, Cause: cause}
}

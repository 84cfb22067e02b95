package wormhole

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrInvalidRadius is returned when a throat radius is not a positive finite number.
	ErrInvalidRadius = errors.New("wormhole: radius must be positive and finite")

	// ErrInvalidThroatLength is returned when a throat length is negative or not finite.
	ErrInvalidThroatLength = errors.New("wormhole: throat length must be non-negative and finite")

	// ErrInvalidViewport is returned by SetSize for zero, negative or non-finite dimensions.
	ErrInvalidViewport = errors.New("wormhole: viewport dimensions must be positive and finite")

	// ErrNilBackend is returned when a renderer is built without a backend.
	ErrNilBackend = errors.New("wormhole: nil backend")

	// ErrInvalidCubemap is returned when six faces cannot form a cubemap.
	ErrInvalidCubemap = errors.New("wormhole: invalid cubemap")

	// ErrRendererClosed is returned when Render is called after Close.
	ErrRendererClosed = errors.New("wormhole: renderer closed")

	// ErrNotInitialized is returned by a backend that is drawn before Init
	// or after Close.
	ErrNotInitialized = errors.New("wormhole: backend not initialized")

	// ErrUnsupportedTarget is returned when a backend cannot draw into the
	// given Target type.
	ErrUnsupportedTarget = errors.New("wormhole: unsupported render target")
)

// ResourceError reports a skybox image that could not be loaded.
type ResourceError struct {
	// Path is the file that failed, as built from directory, face name and extension.
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("wormhole: load %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ShaderStage identifies the step of GPU program construction that failed.
type ShaderStage string

// Shader stages reported by ShaderError.
const (
	// StageWGSL is front-end parsing and validation of the WGSL source.
	StageWGSL ShaderStage = "wgsl"
	// StageModule is creation of the device shader module.
	StageModule ShaderStage = "module"
	// StageLayout is creation of bind group and pipeline layouts.
	StageLayout ShaderStage = "layout"
	// StagePipeline is linking of the vertex and fragment entry points into a render pipeline.
	StagePipeline ShaderStage = "pipeline"
)

// ShaderError is a fatal failure while building the wormhole shader program.
type ShaderError struct {
	Stage ShaderStage
	Err   error
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("wormhole: shader %s stage: %v", e.Stage, e.Err)
}

func (e *ShaderError) Unwrap() error { return e.Err }

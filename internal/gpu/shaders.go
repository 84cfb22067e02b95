//go:build !nogpu

package gpu

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/wormhole"
)

//go:embed shaders/wormhole.wgsl
var wormholeShaderSource string

// Entry points of the wormhole shader.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// ShaderSource returns the WGSL source of the wormhole program.
func ShaderSource() string {
	return wormholeShaderSource
}

// ValidateShader runs the WGSL front end (parse, lower, validate) over
// source. Any failure is returned as a *wormhole.ShaderError at the
// StageWGSL stage, so broken shaders are caught before any device call.
func ValidateShader(source string) error {
	if strings.TrimSpace(source) == "" {
		return &wormhole.ShaderError{Stage: wormhole.StageWGSL, Err: errors.New("empty shader source")}
	}
	ast, err := naga.Parse(source)
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StageWGSL, Err: fmt.Errorf("parse: %w", err)}
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StageWGSL, Err: fmt.Errorf("lower: %w", err)}
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return &wormhole.ShaderError{Stage: wormhole.StageWGSL, Err: fmt.Errorf("validate: %w", err)}
	}
	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		return &wormhole.ShaderError{
			Stage: wormhole.StageWGSL,
			Err:   fmt.Errorf("validate: %s", strings.Join(msgs, "; ")),
		}
	}
	return nil
}

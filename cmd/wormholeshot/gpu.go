//go:build !nogpu

package main

import _ "github.com/gogpu/wormhole/gpu"

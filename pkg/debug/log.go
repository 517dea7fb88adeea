//go:build js && wasm
// +build js,wasm

// Package debug routes diagnostic output to the browser console in WASM
// builds. The DOM surface and the live client log through it; the hot
// input path does not.
package debug

import (
	"fmt"
	"syscall/js"
)

// Log logs a message to the console.
func Log(args ...interface{}) {
	js.Global().Get("console").Call("log", args...)
}

// Logf logs a formatted message to the console.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	js.Global().Get("console").Call("log", msg)
}

//go:build js && wasm
// +build js,wasm

package live

import (
	"syscall/js"

	"github.com/recera/vantage/pkg/debug"
	"github.com/recera/vantage/pkg/surface/dom"
	"github.com/recera/vantage/pkg/viewport"
)

// forwardedKinds are the event kinds the client captures and streams to
// the server.
var forwardedKinds = []viewport.EventKind{
	viewport.PointerDown,
	viewport.PointerMove,
	viewport.PointerUp,
	viewport.Wheel,
	viewport.TouchStart,
	viewport.TouchMove,
	viewport.TouchEnd,
	viewport.KeyDown,
}

// consumedKinds marks which forwarded kinds suppress the browser's
// default behavior. The server decides what the events mean; the client
// just keeps the page from scrolling underneath the gesture.
var consumedKinds = map[viewport.EventKind]bool{
	viewport.Wheel:     true,
	viewport.TouchMove: true,
	viewport.KeyDown:   true,
}

// Client is the browser side of a live session: it forwards surface
// input to the server and applies inbound transform frames to the local
// content element.
type Client struct {
	ws      js.Value
	surface *dom.Surface
	cancels []func()
	onOpen  js.Func
	onMsg   js.Func
	onClose js.Func
}

// Dial connects to the live endpoint and starts forwarding events from
// surface.
func Dial(url string, surface *dom.Surface) *Client {
	c := &Client{surface: surface}

	c.ws = js.Global().Get("WebSocket").New(url)
	c.ws.Set("binaryType", "arraybuffer")

	c.onOpen = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		debug.Log("[live] connected")
		c.sendResize()
		return nil
	})
	c.ws.Set("onopen", c.onOpen)

	c.onMsg = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		data := args[0].Get("data")
		buffer := js.Global().Get("Uint8Array").New(data)
		raw := make([]byte, buffer.Get("length").Int())
		js.CopyBytesToGo(raw, buffer)
		c.handleFrame(raw)
		return nil
	})
	c.ws.Set("onmessage", c.onMsg)

	c.onClose = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		debug.Log("[live] disconnected")
		return nil
	})
	c.ws.Set("onclose", c.onClose)

	for _, kind := range forwardedKinds {
		kind := kind
		c.cancels = append(c.cancels, surface.Subscribe(kind, func(ev viewport.Event) bool {
			c.sendEvent(ev)
			return consumedKinds[kind]
		}))
	}
	return c
}

// Close stops event forwarding and closes the connection.
func (c *Client) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	if c.ws.Truthy() {
		c.ws.Call("close")
	}
	c.onOpen.Release()
	c.onMsg.Release()
	c.onClose.Release()
}

func (c *Client) handleFrame(data []byte) {
	if len(data) == 0 {
		return
	}
	switch MessageType(data[0]) {
	case FrameTransform:
		tf, err := DecodeTransform(data)
		if err != nil {
			debug.Logf("[live] bad transform frame: %v", err)
			return
		}
		c.surface.SetTransform(tf)
	case FrameControl:
		ctl, err := DecodeControl(data)
		if err != nil {
			debug.Logf("[live] bad control frame: %v", err)
			return
		}
		if ctl.Type == ControlHello {
			debug.Logf("[live] session %s", ctl.SessionID)
		}
	}
}

func (c *Client) sendEvent(ev viewport.Event) {
	c.sendBinary(EncodeEvent(ev))
}

func (c *Client) sendResize() {
	b := c.surface.Bounds()
	data, err := EncodeControl(Control{Type: ControlResize, Width: b.Width, Height: b.Height})
	if err != nil {
		debug.Logf("[live] encode resize: %v", err)
		return
	}
	c.sendBinary(data)
}

func (c *Client) sendBinary(data []byte) {
	if !c.ws.Truthy() || c.ws.Get("readyState").Int() != 1 {
		return
	}
	buffer := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(buffer, data)
	c.ws.Call("send", buffer)
}

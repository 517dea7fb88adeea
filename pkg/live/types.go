// Package live streams viewport input and transform frames over a
// WebSocket. One session pairs one client with one authoritative
// server-side controller: the client forwards raw input events, the
// server runs the controller against an in-memory surface, and every
// applied transform streams back as a frame.
package live

// MessageType is the first byte of every binary frame.
type MessageType uint8

const (
	// FrameControl carries a JSON control message (hello, resize).
	FrameControl MessageType = 0x00
	// FrameEvent carries a client input event.
	FrameEvent MessageType = 0x01
	// FrameTransform carries an applied viewport transform.
	FrameTransform MessageType = 0x02
)

// Control message types.
const (
	ControlHello  = "hello"
	ControlResize = "resize"
)

// Control is the JSON body of a FrameControl frame. The server sends a
// hello with the session ID after the upgrade; the client sends a resize
// whenever its surface bounds change.
type Control struct {
	Type      string  `json:"type"`
	SessionID string  `json:"sessionId,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

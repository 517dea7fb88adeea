//go:build !wasm
// +build !wasm

package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/recera/vantage/pkg/frame"
	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/surface/sim"
	"github.com/recera/vantage/pkg/viewport"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
	pongWait   = 60 * time.Second
	sendBuffer = 256

	// maxFrameSize bounds inbound frames. Even a many-touch event frame
	// is a few hundred bytes; anything larger is a hostile or broken
	// client and drops the connection.
	maxFrameSize = 64 << 10
)

// DefaultBounds is the surface size assumed for a session until the
// client reports its real bounds.
var DefaultBounds = geom.RectOf(0, 0, 800, 600)

// Options configures a Server.
type Options struct {
	// Logger for session lifecycle and protocol errors. Nil selects the
	// standard logrus logger.
	Logger *logrus.Logger

	// Config returns the controller configuration for a new session.
	// Called once per session, so a reloaded configuration applies to
	// sessions opened after the reload. Nil means all defaults.
	Config func() viewport.Config

	// Bounds is the initial surface size of a new session.
	Bounds geom.Rect
}

// Server upgrades HTTP requests to live viewport sessions. Each session
// owns an in-memory surface and an authoritative controller; animations
// across all sessions share one frame ticker.
type Server struct {
	upgrader websocket.Upgrader
	log      *logrus.Logger
	config   func() viewport.Config
	bounds   geom.Rect
	frames   *frame.Ticker

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewServer creates a stopped server. Call Start before serving.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = func() viewport.Config { return viewport.Config{} }
	}
	bounds := opts.Bounds
	if bounds.Empty() {
		bounds = DefaultBounds
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:      log,
		config:   cfg,
		bounds:   bounds,
		frames:   frame.NewTicker(frame.DefaultInterval),
		sessions: make(map[string]*Session),
	}
}

// Start launches the shared frame ticker.
func (s *Server) Start() {
	s.frames.Start()
}

// Shutdown closes every session and stops the frame ticker.
func (s *Server) Shutdown() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
	s.frames.Stop()
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// HandleWebSocket upgrades the request and runs a session until the
// connection drops.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("live: websocket upgrade failed")
		return
	}

	sess, err := s.newSession(conn)
	if err != nil {
		s.log.WithError(err).Error("live: session setup failed")
		conn.Close()
		return
	}

	go sess.writePump()
	sess.sendHello()
	sess.readPump()
	sess.Close()
}

func (s *Server) newSession(conn *websocket.Conn) (*Session, error) {
	id := uuid.NewString()
	surface := sim.New(s.bounds)

	cfg := s.config()
	if cfg.Scheduler == nil {
		cfg.Scheduler = s.frames
	}
	ctrl, err := viewport.New(surface, cfg)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        id,
		server:    s,
		conn:      conn,
		surface:   surface,
		ctrl:      ctrl,
		sendChan:  make(chan []byte, sendBuffer),
		closeChan: make(chan struct{}),
		log:       s.log.WithField("session", id),
	}
	sess.unsubscribe = ctrl.OnChange(sess.sendTransform)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.log.Info("live: session opened")
	return sess, nil
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Session is one live viewport connection: its WebSocket, its in-memory
// surface, and the controller driving it.
type Session struct {
	ID string

	server      *Server
	conn        *websocket.Conn
	surface     *sim.Surface
	ctrl        *viewport.Controller
	unsubscribe func()

	sendChan  chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
	log       *logrus.Entry
}

// Controller returns the session's viewport controller.
func (s *Session) Controller() *viewport.Controller {
	return s.ctrl
}

// Close tears the session down: change subscription, controller,
// connection, and server registration. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.ctrl.Destroy()
		close(s.closeChan)
		s.conn.Close()
		s.server.removeSession(s.ID)
		s.log.Info("live: session closed")
	})
}

func (s *Session) sendHello() {
	data, err := EncodeControl(Control{Type: ControlHello, SessionID: s.ID})
	if err != nil {
		s.log.WithError(err).Error("live: encode hello")
		return
	}
	s.send(data)
}

// sendTransform is the controller's change subscriber. A full send buffer
// drops the frame rather than blocking the input path; the next change
// carries the fresher transform anyway.
func (s *Session) sendTransform(tf viewport.Transform) {
	s.send(EncodeTransform(tf))
}

func (s *Session) send(data []byte) {
	select {
	case s.sendChan <- data:
	default:
		s.log.Warn("live: send buffer full, dropping frame")
	}
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Warn("live: unexpected close")
			}
			return
		}
		if messageType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}
		s.handleFrame(data)
	}
}

func (s *Session) handleFrame(data []byte) {
	switch MessageType(data[0]) {
	case FrameEvent:
		ev, err := DecodeEvent(data)
		if err != nil {
			s.log.WithError(err).Warn("live: bad event frame")
			return
		}
		s.surface.Dispatch(ev)

	case FrameControl:
		ctl, err := DecodeControl(data)
		if err != nil {
			s.log.WithError(err).Warn("live: bad control frame")
			return
		}
		if ctl.Type == ControlResize && ctl.Width > 0 && ctl.Height > 0 {
			s.surface.SetBounds(geom.RectOf(0, 0, ctl.Width, ctl.Height))
			s.log.WithFields(logrus.Fields{
				"width":  ctl.Width,
				"height": ctl.Height,
			}).Debug("live: surface resized")
		}

	default:
		s.log.WithField("frame", data[0]).Warn("live: unknown frame type")
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.sendChan:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.log.WithError(err).Debug("live: write failed")
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.closeChan:
			return
		}
	}
}

package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/protocol"
	"github.com/grainui/grain/pkg/reactive"
)

// Session is one live client connection: a private document, the scope that
// owns every effect the mount created, and the patch stream keeping the
// client's tree in sync.
//
// All document mutation happens on the session goroutine: events are queued
// by the read loop and dispatched here, so the single-threaded contract of
// the reactive core holds per document.
type Session struct {
	id     string
	conn   *websocket.Conn
	config *Config
	logger *slog.Logger
	mount  Mount

	doc   *dom.Document
	scope *reactive.Scope

	events chan *protocol.Event
	send   chan []byte

	// pending buffers patches between event dispatches; flushed as one
	// sequenced frame per dispatch.
	pending []dom.Patch
	seq     uint64

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, config *Config, mount Mount) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		conn:   conn,
		config: config,
		logger: config.Logger.With("session", id),
		mount:  mount,
		events: make(chan *protocol.Event, config.MaxEventQueue),
		send:   make(chan []byte, 64),
		done:   make(chan struct{}),
	}
}

// run mounts the document, sends the initial tree and then dispatches events
// until the connection closes. It blocks; the caller runs it per connection.
func (s *Session) run() {
	defer s.Close()

	activeSessions.Inc()
	defer activeSessions.Dec()

	s.doc = dom.NewDocument()
	s.scope = reactive.NewScope(nil)
	defer s.scope.Dispose()
	defer reactive.ReleaseTracking()

	s.scope.Run(func() {
		s.mount(s.doc)
	})

	// Initial tree goes whole in the handshake; only mutations after this
	// point are streamed as patches.
	e := protocol.NewEncoder()
	protocol.EncodePatchesTo(e, &protocol.PatchesFrame{
		Seq: 0,
		Patches: []dom.Patch{{
			Op:   dom.PatchReplaceNode,
			Node: s.doc.Root(),
		}},
	})
	if !s.sendFrame(protocol.FrameHandshake, e.Bytes()) {
		return
	}

	s.doc.SetSink(dom.SinkFunc(func(p dom.Patch) {
		s.pending = append(s.pending, p)
	}))

	go s.readLoop()
	go s.writeLoop()

	heartbeat := time.NewTicker(s.config.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case ev := <-s.events:
			s.dispatch(ev)

		case <-heartbeat.C:
			ts := uint64(time.Now().UnixMilli())
			s.sendFrame(protocol.FrameControl, protocol.EncodeControl(protocol.ControlPing, ts))

		case <-s.done:
			return
		}
	}
}

// dispatch delivers one event into the document and flushes the resulting
// patches. Effects run inline during DispatchEvent, so by the time it
// returns the tree and the pending buffer are settled.
func (s *Session) dispatch(ev *protocol.Event) {
	start := time.Now()
	eventsTotal.WithLabelValues(ev.Type.String()).Inc()

	err := traceEvent(context.Background(), s.id, ev.Type.String(), ev.NodeID, func() error {
		return s.doc.DispatchEvent(ev.NodeID, dom.Event{
			Type:    ev.Type.String(),
			Value:   ev.Value,
			Checked: ev.Checked,
			Key:     ev.Key,
		})
	})
	if err != nil {
		eventErrors.Inc()
		s.logger.Warn("event dispatch failed", "error", err)
	}

	eventDuration.Observe(time.Since(start).Seconds())
	s.flush()
}

// flush sends the buffered patches as one sequenced frame.
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}

	s.seq++
	e := protocol.NewEncoder()
	protocol.EncodePatchesTo(e, &protocol.PatchesFrame{
		Seq:     s.seq,
		Patches: s.pending,
	})
	patchesSent.Add(float64(len(s.pending)))
	s.pending = s.pending[:0]

	s.sendFrame(protocol.FramePatches, e.Bytes())
}

// sendFrame enqueues a frame for the write loop. Returns false when the
// session is closing or the frame cannot be encoded.
func (s *Session) sendFrame(ft protocol.FrameType, payload []byte) bool {
	f := &protocol.Frame{Type: ft, Payload: payload}
	data, err := f.Encode()
	if err != nil {
		s.logger.Error("frame encode failed", "type", ft.String(), "error", err)
		return false
	}

	select {
	case s.send <- data:
		return true
	case <-s.done:
		return false
	}
}

// readLoop reads client frames and queues events for the session goroutine.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.logger.Error("event decode error", "error", err)
				continue
			}
			select {
			case s.events <- ev:
			default:
				s.logger.Warn("event queue full, dropping event")
			}

		case protocol.FrameControl:
			ct, pp, err := protocol.DecodeControl(frame.Payload)
			if err != nil {
				s.logger.Error("control decode error", "error", err)
				continue
			}
			switch ct {
			case protocol.ControlPing:
				s.sendFrame(protocol.FrameControl, protocol.EncodeControl(protocol.ControlPong, pp.Timestamp))
			case protocol.ControlPong:
				s.logger.Debug("received pong")
			case protocol.ControlClose:
				return
			}

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type.String())
		}
	}
}

// writeLoop serializes all socket writes.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.logger.Error("write error", "error", err)
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close tears the session down. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
		s.logger.Info("session closed")
	})
}

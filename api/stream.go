package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const defaultWriteTimeout = 5 * time.Second

// stream upgrades to a websocket and pushes every event whose audience
// includes the member, until the client goes away.
// It registers a dedicated Sink in the registry and removes it on return.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	member, err := s.members.ResolveMember(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "member_id", member.ID, "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	sink := NewSink(s.connectionBufferSize)
	sessionID := uuid.NewString()
	s.registry.Subscribe(member.ID, sessionID, sink)
	defer s.registry.Unsubscribe(member.ID, sessionID)
	s.log.Debug("Stream opened", "member_id", member.ID, "session_id", sessionID)

	// The client never talks, reading only serves close frames.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Stream closed", "member_id", member.ID, "session_id", sessionID)
			return
		case evt := <-sink.Events():
			frame, ok := toStreamFrame(evt)
			if !ok {
				continue
			}
			if err = s.writeFrame(ctx, conn, frame); err != nil {
				s.log.Warn("Failed to push event to stream",
					"member_id", member.ID,
					"session_id", sessionID,
					"close_status", websocket.CloseStatus(err),
					"error", err)
				return
			}
		}
	}
}

func (s *Server) writeFrame(parent context.Context, conn *websocket.Conn, frame streamFrame) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	timeout := s.writeTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, b)
}

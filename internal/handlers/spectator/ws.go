package spectator

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/egg-brawl/internal/entities"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
)

// frame is one websocket message. Event is empty for the initial snapshot.
type frame struct {
	Event    string             `json:"event,omitempty"`
	Snapshot *entities.Snapshot `json:"snapshot"`
}

// watchMatch upgrades to a websocket and pushes the current snapshot followed
// by one snapshot per state change. The socket is closed after the match is over.
func (s *Server) watchMatch(c *gin.Context) {
	ctx := c.Request.Context()
	matchID := c.Param("id")

	a, err := s.registry.Get(ctx, matchID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	follower := match.Follow(s.bus, matchID)
	defer follower.Stop()

	closed := readPump(conn)

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return
	}
	if err := writeFrame(conn, &frame{Snapshot: snap}); err != nil {
		return
	}

	slog.Info("Spectator attached", "match_id", matchID, "round", snap.Round)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	last := snap
	for !last.Over {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-follower.Ready():
			n := follower.Next()
			if n == nil || n.Snapshot.Round < last.Round {
				continue
			}
			if err := writeFrame(conn, &frame{Event: n.Type, Snapshot: n.Snapshot}); err != nil {
				slog.Debug("Spectator write failed", "match_id", matchID, "error", err)
				return
			}
			last = n.Snapshot
		}
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func writeFrame(conn *websocket.Conn, f *frame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(f)
}

// readPump discards client messages and keeps the read deadline fresh on
// pong. The returned channel is closed when the client goes away.
func readPump(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return closed
}

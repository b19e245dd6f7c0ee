package socket

import (
	"context"
	"log"

	"pairplan_server/models"
	"pairplan_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server. Clients subscribe with
// their userId to join their room and open an event feed; the feed pushes
// full three-list snapshots on every relevant change.
func NewSocketServer(feeds *services.FeedManager) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "subscribe", func(c socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Println("❌ Invalid userId in subscribe request")
			return
		}
		log.Printf("👥 Connection %s subscribed as user %s\n", c.ID(), userID)
		c.Join(userRoom(userID))
		c.SetContext(userID)

		feed := feeds.Open(c.ID(), userID, func(snapshot services.FeedSnapshot) {
			c.Emit("eventsSync", snapshot)
		})
		go func() {
			if err := feed.Refresh(context.Background()); err != nil {
				log.Printf("❌ Initial feed refresh failed for %s: %v", userID, err)
			}
		}()
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		feeds.Close(c.ID())
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

// Hub broadcasts raw change notifications to the rooms of the users a change
// concerns. It implements realtime.Listener.
type Hub struct {
	Server *socketio.Server
}

func (h *Hub) Dispatch(change models.EventChange) {
	h.Server.BroadcastToRoom("/", userRoom(change.Payload.UserID), "eventChange", change)
	if change.Payload.RecipientID != "" {
		h.Server.BroadcastToRoom("/", userRoom(change.Payload.RecipientID), "eventChange", change)
	}
}

func userRoom(userID string) string {
	return "user:" + userID
}

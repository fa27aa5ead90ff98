package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/relpanel/relpanel/pkg/domain/interfaces"
	"github.com/relpanel/relpanel/pkg/domain/model"
	"github.com/relpanel/relpanel/pkg/utils/msgqueue"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Outbound buffer per connection; the protocol is low-volume
	sendBuffer = 64
)

// EditorPort is the editor-side attachment surface for view
// connections
type EditorPort interface {
	AttachView(view interfaces.ViewPort)
	DetachView(view interfaces.ViewPort)
	HandleRaw(ctx context.Context, raw []byte) error
}

// Bridge upgrades view connections and wires them to the editor
// controller. At most one view is attached at a time; a newer
// connection replaces the previous one, and the replaced connection's
// teardown is a no-op thanks to the identity check in DetachView.
type Bridge struct {
	editor   EditorPort
	upgrader websocket.Upgrader
}

// NewBridge creates a bridge for the editor controller
func NewBridge(editor EditorPort) *Bridge {
	return &Bridge{
		editor: editor,
		upgrader: websocket.Upgrader{
			// The bridge binds to localhost; the view process is local
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS returns the websocket handler. Inbound frames go through the
// serial queue, preserving the protocol's in-order, one-at-a-time
// processing guarantee.
func (b *Bridge) ServeWS(inbound *msgqueue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := ctxlog.From(r.Context())

		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("failed to upgrade view connection", "error", err)
			return
		}

		view := &wsView{
			send: make(chan []byte, sendBuffer),
			done: make(chan struct{}),
		}

		b.editor.AttachView(view)

		go func() {
			for {
				select {
				case <-view.done:
					return
				case raw := <-view.send:
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
						logger.Warn("failed to write to view", "error", err)
						return
					}
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}

			frame := raw
			err = inbound.Post(func(ctx context.Context) error {
				return b.editor.HandleRaw(ctx, frame)
			})
			if err != nil {
				logger.Warn("failed to enqueue view message", "error", err)
			}
		}

		b.editor.DetachView(view)
		close(view.done)
		_ = conn.Close()

		logger.Info("view connection closed")
	}
}

// wsView adapts one websocket connection to the ViewPort interface
type wsView struct {
	send chan []byte
	done chan struct{}
}

func (v *wsView) Post(msg model.Message) error {
	raw, err := model.EncodeMessage(msg)
	if err != nil {
		return err
	}

	select {
	case <-v.done:
		return goerr.New("view connection is closed")
	case v.send <- raw:
		return nil
	default:
		return goerr.New("view send buffer is full")
	}
}

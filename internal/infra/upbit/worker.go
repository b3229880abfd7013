package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"crepe_admin/internal/domain"
	"crepe_admin/internal/infra"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxRetries          = 10
	defaultPingInterval = 30 * time.Second
	readTimeout         = 60 * time.Second
	handshakeTimeout    = 10 * time.Second
	maxCodes            = 50
)

// SnapshotSink receives decoded ticker snapshots. The sink is also told when
// the connection drops, so its readers can distinguish a dead feed from a
// quiet one.
type SnapshotSink interface {
	Update(domain.TickerSnapshot)
	SetStale(stale bool)
}

// Worker owns one WebSocket connection to the exchange price feed for its
// lifetime. Inbound binary frames are decoded as UTF-8 JSON; non-ticker
// message types are ignored. A dropped connection reconnects with
// exponential backoff and resubscribes.
type Worker struct {
	wsURL        string
	codes        []string
	sink         SnapshotSink
	pingInterval time.Duration

	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a feed worker for the given market codes.
func NewWorker(wsURL string, codes []string, sink SnapshotSink, pingInterval time.Duration) *Worker {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	if len(codes) > maxCodes {
		codes = codes[:maxCodes]
	}
	return &Worker{
		wsURL:        wsURL,
		codes:        codes,
		sink:         sink,
		pingInterval: pingInterval,
	}
}

// Connect starts the connection loop.
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)

	w.wg.Add(1)
	go w.pingLoop(ctx)
	return nil
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Feed connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	header := make(http.Header)

	conn, _, err := dialer.DialContext(ctx, w.wsURL, header)
	if err != nil {
		return domain.NewNetworkError("dial", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return err
	}

	w.sink.SetStale(false)
	infra.GlobalMetrics.SetFeedConnected(true)
	slog.Info("Feed connected", slog.Int("codes", len(w.codes)))
	return nil
}

// subscribe sends the single subscription frame: ticket, requested codes,
// and the plain-field format.
func (w *Worker) subscribe() error {
	msg := []map[string]interface{}{
		{"ticket": uuid.NewString()},
		{"type": "ticker", "codes": w.codes},
		{"format": "DEFAULT"},
	}
	b, _ := json.Marshal(msg)
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *Worker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(msgType, data)
}

// pingLoop sends the keep-alive frame at a fixed interval; skipped while the
// socket is not open.
func (w *Worker) pingLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.RLock()
			open := w.connected
			w.mu.RUnlock()
			if !open {
				continue
			}
			if err := w.threadSafeWrite(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
				slog.Warn("Keep-alive failed", slog.Any("error", err))
			}
		}
	}
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Capture the conn while holding the lock; closeConnection may nil
		// the field at any moment during shutdown.
		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Warn("Feed read failed", slog.Any("error", err))
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

// handleMessage decodes one inbound frame. The payload arrives as a binary
// blob of UTF-8 JSON. Parse failures are logged and the frame is dropped;
// nothing here can take down a subscriber.
func (w *Worker) handleMessage(msg []byte) {
	var snap domain.TickerSnapshot
	if err := json.Unmarshal(msg, &snap); err != nil {
		infra.GlobalMetrics.RecordDroppedFrame()
		slog.Warn("Unparseable feed frame", slog.Any("error", err))
		return
	}
	if snap.Type != "ticker" {
		return
	}

	infra.GlobalMetrics.RecordFrame()
	w.sink.Update(snap)
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	if w.connected {
		w.connected = false
		w.sink.SetStale(true)
		infra.GlobalMetrics.SetFeedConnected(false)
	}
}

// Disconnect cancels the loops, closes the socket, and waits for teardown.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}

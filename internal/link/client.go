package link

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"codec8-svr/internal/pipeline"
)

var ErrNotConnected = errors.New("link: not connected")

// Client mantiene una conexión TCP hacia socket-tcp-proxy y le envía eventos
// NDJSON. Se reconecta solo hasta que el contexto se cancela.
type Client struct {
	addr   string
	logger *slog.Logger

	retryDelay time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// New crea el cliente. Si addr == "", el link queda deshabilitado y todos los
// envíos son no-op.
func New(addr string, lg *slog.Logger) *Client {
	return &Client{addr: addr, logger: lg.With("component", "link"), retryDelay: 5 * time.Second}
}

func (c *Client) Enabled() bool { return c != nil && c.addr != "" }

// Run arranca el loop de conexión y bloquea hasta que ctx se cancela.
func (c *Client) Run(ctx context.Context) {
	if !c.Enabled() {
		c.logger.Info("link: disabled (no proxy address configured)")
		return
	}
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "tcp", c.addr)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("link: dial failed", "addr", c.addr, "err", err)
			if !sleep(ctx, c.retryDelay) {
				return
			}
			continue
		}

		c.setConn(conn)
		c.logger.Info("link: connected", "remote", conn.RemoteAddr().String())

		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		// leer en este hilo hasta que se caiga
		c.readLoop(conn)
		stop()

		c.clearConn(conn)
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("link: connection closed, reconnecting...")
		if !sleep(ctx, c.retryDelay) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) setConn(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
}

func (c *Client) clearConn(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Por ahora sólo logueamos lo que llega del proxy.
func (c *Client) readLoop(conn net.Conn) {
	r := bufio.NewScanner(conn)
	for r.Scan() {
		c.logger.Debug("link: incoming line", "line", r.Text())
	}
	if err := r.Err(); err != nil && err != io.EOF {
		c.logger.Warn("link: read error", "err", err)
	}
}

func (c *Client) sendNDJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	_, err = c.conn.Write(append(b, '\n'))
	return err
}

// device_connect / device_disconnect
type deviceEventPayload struct {
	DeviceConnect    bool   `json:"device_connect,omitempty"`
	DeviceDisconnect bool   `json:"device_disconnect,omitempty"`
	IMEI             string `json:"imei"`
	ICCID            string `json:"iccid,omitempty"`
	RemoteIP         string `json:"remote_ip,omitempty"`
	RemotePort       int    `json:"remote_port,omitempty"`
}

// SendDeviceEvent se llama tras el handshake IMEI y al cerrar la conexión.
func (c *Client) SendDeviceEvent(info DeviceInfo) error {
	if !c.Enabled() {
		return nil
	}
	pl := deviceEventPayload{
		DeviceConnect:    info.State == DeviceStateConnect,
		DeviceDisconnect: info.State == DeviceStateDisconnect,
		IMEI:             info.IMEI,
		ICCID:            info.ICCID,
		RemoteIP:         info.RemoteIP,
		RemotePort:       info.RemotePort,
	}
	if err := c.sendNDJSON(pl); err != nil {
		return fmt.Errorf("link: send device event %s: %w", info.IMEI, err)
	}
	return nil
}

// SendTracking envía el trackeo como NDJSON (formato TrackingObject).
func (c *Client) SendTracking(_ context.Context, tr *pipeline.TrackingObject) error {
	if !c.Enabled() || tr == nil {
		return nil
	}
	if err := c.sendNDJSON(tr); err != nil {
		return fmt.Errorf("link: send tracking %s: %w", tr.IMEI, err)
	}
	return nil
}

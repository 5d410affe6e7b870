package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"codec8-svr/internal/codec"
	"codec8-svr/internal/observability"
	"codec8-svr/internal/utilities"
)

// Handler recibe los eventos de cada conexión de equipo. Se invoca en el
// goroutine de la conexión, en orden.
type Handler interface {
	OnConnect(ctx context.Context, imei string, remote net.Addr)
	OnFrame(ctx context.Context, imei string, dec codec.Decoded)
	OnDisconnect(ctx context.Context, imei string, remote net.Addr)
}

type Options struct {
	ReadTimeout  time.Duration
	MaxFrameSize int
	RawLog       *utilities.RawLog
}

type TcpServer struct {
	handler Handler
	logger  *slog.Logger
	opts    Options

	mu                sync.Mutex
	activeConnections map[string]net.Conn
	wg                sync.WaitGroup
}

func New(handler Handler, lg *slog.Logger, opts Options) *TcpServer {
	if opts.MaxFrameSize <= 0 {
		opts.MaxFrameSize = 1 << 16
	}
	return &TcpServer{
		handler:           handler,
		logger:            lg.With("component", "tcp"),
		opts:              opts,
		activeConnections: make(map[string]net.Conn),
	}
}

// Start escucha en addr y atiende conexiones hasta que ctx se cancela.
func (srv *TcpServer) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error starting TCP server: %w", err)
	}
	return srv.Serve(ctx, listener)
}

func (srv *TcpServer) Serve(ctx context.Context, listener net.Listener) error {
	srv.logger.Info("TCP Server listening", "addr", listener.Addr().String())
	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				srv.wg.Wait()
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				srv.wg.Wait()
				return err
			}
			srv.logger.Error("accept error", "err", err)
			continue
		}
		observability.TCPConnections.Inc()

		srv.wg.Add(1)
		go func(c net.Conn) {
			defer srv.wg.Done()
			srv.HandleConnection(ctx, c)
		}(conn)
	}
}

// Active devuelve la conexión registrada para imei, si existe.
func (srv *TcpServer) Active(imei string) (net.Conn, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	c, ok := srv.activeConnections[imei]
	return c, ok
}

func (srv *TcpServer) register(imei string, conn net.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if old, ok := srv.activeConnections[imei]; ok && old != conn {
		// el equipo reconectó; la sesión vieja queda huérfana
		_ = old.Close()
	} else {
		observability.ActiveConnections.Inc()
	}
	srv.activeConnections[imei] = conn
}

// unregister quita conn del registro. Devuelve false si el IMEI ya apunta a
// otra conexión (el equipo reconectó).
func (srv *TcpServer) unregister(imei string, conn net.Conn) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.activeConnections[imei] != conn {
		return false
	}
	delete(srv.activeConnections, imei)
	observability.ActiveConnections.Dec()
	return true
}

// session es el estado de una conexión: IMEI y bytes pendientes.
type session struct {
	conn net.Conn
	imei string
	buf  []byte
	lg   *slog.Logger
}

func (srv *TcpServer) HandleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	s := &session{conn: conn, lg: srv.logger.With("remote", conn.RemoteAddr().String())}
	defer func() {
		if s.imei == "" {
			return
		}
		if !srv.unregister(s.imei, conn) {
			s.lg.Info("sesión reemplazada por una conexión nueva")
			return
		}
		srv.handler.OnDisconnect(ctx, s.imei, conn.RemoteAddr())
		s.lg.Info("Dispositivo desconectado")
	}()

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetLinger(0)
		_ = tcpConn.SetNoDelay(false)
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(60 * time.Second)
	}

	readBuf := make([]byte, 2048)
	for {
		if srv.opts.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(srv.opts.ReadTimeout))
		}
		n, err := conn.Read(readBuf)
		if n > 0 {
			srv.opts.RawLog.LogHex("ALLTRACKINGS", conn.RemoteAddr().String(), readBuf[:n])
			s.buf = append(s.buf, readBuf[:n]...)
			if !srv.drain(ctx, s) {
				return
			}
			if len(s.buf) > srv.opts.MaxFrameSize {
				s.lg.Warn("pending bytes exceed max frame size", "pending", len(s.buf), "max", srv.opts.MaxFrameSize)
				return
			}
		}
		if err != nil {
			var opErr *net.OpError
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			case errors.As(err, &opErr) && opErr.Timeout():
				s.lg.Info("idle timeout", "imei", s.imei)
			default:
				s.lg.Error("read error", "err", err)
			}
			if len(s.buf) > 0 {
				s.lg.Warn("connection closed with partial frame", "pending", len(s.buf))
			}
			return
		}
	}
}

// drain decodifica todo lo completo en s.buf. Devuelve false si la conexión
// debe cerrarse.
func (srv *TcpServer) drain(ctx context.Context, s *session) bool {
	for len(s.buf) > 0 {
		if s.imei == "" {
			imei, rest, err := codec.DecodeIMEI(s.buf)
			if errors.Is(err, codec.ErrTruncated) {
				return true
			}
			if err != nil {
				observability.HandshakeErrors.WithLabelValues(codec.Kind(err)).Inc()
				s.lg.Warn("handshake rejected", "err", err)
				return false
			}
			s.imei = imei
			s.lg = s.lg.With("imei", imei)
			s.buf = append(s.buf[:0], rest...)
			srv.register(imei, s.conn)
			observability.HandshakeOK.Inc()
			s.lg.Info("IMEI detected")
			srv.handler.OnConnect(ctx, imei, s.conn.RemoteAddr())
			continue
		}

		start := time.Now()
		dec, rest, err := codec.DecodeCodec8(s.buf)
		if errors.Is(err, codec.ErrTruncated) {
			size, ok := codec.FrameSize(s.buf)
			if !ok || len(s.buf) < size {
				return true
			}
			// el frame declarado ya está completo: un conteo interno está corrupto
			observability.DecodeErrors.WithLabelValues("corrupt_frame").Inc()
			s.lg.Error("frame complete but body truncated", "err", err, "frame_size", size, "pending", len(s.buf))
			return false
		}
		if err != nil {
			observability.DecodeErrors.WithLabelValues(codec.Kind(err)).Inc()
			s.lg.Error("error parsing data", "err", err, "pending", len(s.buf))
			return false
		}
		observability.ObserveParseLatency(start)
		observability.FramesDecoded.Inc()
		s.lg.Debug("frame decoded", "records", len(dec.Frame.Records), "bytes", dec.Consumed)

		s.buf = append(s.buf[:0], rest...)
		srv.handler.OnFrame(ctx, s.imei, dec)
	}
	return true
}

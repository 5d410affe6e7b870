package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"codec8-svr/internal/codec"
	"codec8-svr/internal/config"
	"codec8-svr/internal/link"
	"codec8-svr/internal/observability"
	"codec8-svr/internal/pipeline"
)

// Store es la persistencia de estados por equipo (Redis en producción).
type Store interface {
	SaveTracking(ctx context.Context, tr *pipeline.TrackingObject) error
	SaveIOStates(ctx context.Context, imei string, perm map[string]uint64) ([]string, error)
	IncIntegrity(ctx context.Context, imei, kind string) (int64, error)
	MarkConnected(ctx context.Context, imei, remote string, at time.Time) error
	ICCID(ctx context.Context, imei string) (string, error)
}

// Notifier publica eventos de conexión del equipo.
type Notifier interface {
	SendDeviceEvent(info link.DeviceInfo) error
}

// Sink recibe cada tracking armado (gRPC forwarder, link NDJSON).
type Sink interface {
	SendTracking(ctx context.Context, tr *pipeline.TrackingObject) error
}

var integrityKinds = []error{
	codec.ErrChecksumMismatch,
	codec.ErrRecordCountMismatch,
	codec.ErrDataLengthMismatch,
}

type Dispatcher struct {
	logger *slog.Logger
	policy string
	store  Store
	sinks  map[string]Sink
	notify Notifier
	now    func() time.Time
}

// New crea el dispatcher. store puede ser nil; sinks se identifican por
// nombre para logs y métricas.
func New(lg *slog.Logger, policy string, store Store, sinks map[string]Sink) *Dispatcher {
	return &Dispatcher{
		logger: lg.With("component", "dispatcher"),
		policy: policy,
		store:  store,
		sinks:  sinks,
		now:    time.Now,
	}
}

func (d *Dispatcher) WithNotifier(n Notifier) *Dispatcher {
	d.notify = n
	return d
}

func deviceInfo(imei string, remote net.Addr, state link.DeviceState) link.DeviceInfo {
	info := link.DeviceInfo{IMEI: imei, State: state}
	if tcp, ok := remote.(*net.TCPAddr); ok {
		info.RemoteIP = tcp.IP.String()
		info.RemotePort = tcp.Port
	}
	return info
}

// OnConnect se llama una vez por conexión, tras el handshake IMEI.
func (d *Dispatcher) OnConnect(ctx context.Context, imei string, remote net.Addr) {
	lg := d.logger.With("imei", imei)
	info := deviceInfo(imei, remote, link.DeviceStateConnect)
	if d.store != nil {
		if err := d.store.MarkConnected(ctx, imei, remote.String(), d.now()); err != nil {
			observability.RedisSetErrors.Inc()
			lg.Error("redis mark connected failed", "err", err)
		}
		// el ICCID llega en los IOs 219-221; se toma el último guardado
		iccid, err := d.store.ICCID(ctx, imei)
		if err != nil {
			lg.Warn("redis get iccid failed", "err", err)
		}
		info.ICCID = iccid
	}
	if d.notify != nil {
		if err := d.notify.SendDeviceEvent(info); err != nil {
			lg.Warn("device_connect not sent", "err", err)
		}
	}
}

func (d *Dispatcher) OnFrame(ctx context.Context, imei string, dec codec.Decoded) {
	d.ProcessIncoming(ctx, imei, dec)
}

func (d *Dispatcher) OnDisconnect(_ context.Context, imei string, remote net.Addr) {
	if d.notify == nil {
		return
	}
	if err := d.notify.SendDeviceEvent(deviceInfo(imei, remote, link.DeviceStateDisconnect)); err != nil {
		d.logger.Warn("device_disconnect not sent", "imei", imei, "err", err)
	}
}

// ProcessIncoming aplica la política de integridad a un frame decodificado y
// reparte sus registros. Devuelve los trackings generados, o nil si el frame
// se descartó.
func (d *Dispatcher) ProcessIncoming(ctx context.Context, imei string, dec codec.Decoded) []*pipeline.TrackingObject {
	lg := d.logger.With("imei", imei)

	crcOK := dec.ChecksumOK()
	if ierr := dec.IntegrityErr(); ierr != nil {
		for _, kind := range integrityKinds {
			if !errors.Is(ierr, kind) {
				continue
			}
			name := codec.Kind(kind)
			observability.IntegrityMismatches.WithLabelValues(name).Inc()
			if d.store != nil {
				if _, err := d.store.IncIntegrity(ctx, imei, name); err != nil {
					observability.RedisSetErrors.Inc()
				}
			}
		}
		lg.Warn("frame integrity mismatch",
			"err", ierr,
			"records", len(dec.Frame.Records),
			"policy", d.policy,
		)
		if d.policy != config.PolicyAccept {
			observability.FramesDropped.Inc()
			return nil
		}
	}

	observability.RecordsDecoded.Add(float64(len(dec.Frame.Records)))

	out := make([]*pipeline.TrackingObject, 0, len(dec.Frame.Records))
	for _, rec := range dec.Frame.Records {
		tr := pipeline.BuildTracking(rec, pipeline.Options{
			IMEI:    imei,
			IsBatch: len(dec.Frame.Records) > 1,
			CRCOk:   crcOK,
			Now:     d.now(),
		})
		if !rec.IO.TotalConsistent() {
			lg.Debug("io total differs from decoded groups", "total_io", rec.IO.TotalIO, "decoded", rec.IO.Count())
		}
		d.persist(ctx, lg, tr)
		d.forward(ctx, lg, tr)
		out = append(out, tr)
	}
	return out
}

func (d *Dispatcher) persist(ctx context.Context, lg *slog.Logger, tr *pipeline.TrackingObject) {
	if d.store == nil {
		return
	}
	if err := d.store.SaveTracking(ctx, tr); err != nil {
		observability.RedisSetErrors.Inc()
		lg.Error("redis save tracking failed", "err", err)
	}
	changed, err := d.store.SaveIOStates(ctx, tr.IMEI, tr.PermIO)
	if err != nil {
		observability.RedisSetErrors.Inc()
		lg.Error("redis save io states failed", "err", err)
	}
	for _, key := range changed {
		observability.IOChanges.WithLabelValues(key).Inc()
	}
}

func (d *Dispatcher) forward(ctx context.Context, lg *slog.Logger, tr *pipeline.TrackingObject) {
	for name, sink := range d.sinks {
		if err := sink.SendTracking(ctx, tr); err != nil {
			observability.ForwardErrors.WithLabelValues(name).Inc()
			lg.Warn("forward failed", "sink", name, "err", err)
		}
	}
}

package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TCPConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codec8_tcp_connections_total",
		Help: "Total de conexiones TCP aceptadas",
	})
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codec8_tcp_active_connections",
		Help: "Conexiones con IMEI registrado",
	})
	HandshakeOK = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codec8_handshake_ok_total",
		Help: "Total de handshakes IMEI ok",
	})
	HandshakeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codec8_handshake_errors_total",
		Help: "Handshakes IMEI rechazados por tipo de error",
	}, []string{"kind"})
	FramesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codec8_frames_decoded_total",
		Help: "Frames Codec 8 decodificados",
	})
	RecordsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codec8_records_decoded_total",
		Help: "Registros AVL decodificados",
	})
	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codec8_decode_errors_total",
		Help: "Errores fatales al decodificar Codec 8 por tipo",
	}, []string{"kind"})
	IntegrityMismatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codec8_integrity_mismatches_total",
		Help: "Frames decodificados con CRC, qty2 o largo inconsistentes",
	}, []string{"kind"})
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codec8_frames_dropped_total",
		Help: "Frames descartados por la política de integridad",
	})
	RedisSetErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codec8_redis_set_errors_total",
		Help: "Errores al escribir estados en Redis",
	})
	IOChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codec8_io_changes_total",
		Help: "Cambios detectados de IO por clave",
	}, []string{"key"})
	ForwardErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codec8_forward_errors_total",
		Help: "Errores al reenviar trackings por destino",
	}, []string{"sink"})
	ParseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codec8_parse_latency_seconds",
		Help:    "Latencia del parseo por frame",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveParseLatency(start time.Time) {
	ParseLatency.Observe(time.Since(start).Seconds())
}

// MetricsHandler expone /metrics y /healthz.
func MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func StartMetricsServer(port string) error {
	return http.ListenAndServe(":"+port, MetricsHandler())
}

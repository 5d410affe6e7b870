package utilities

import (
	"encoding/hex"
	"io"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RawLog guarda el tráfico crudo en archivos <dir>/<PREFIX>.log rotados.
// Un RawLog con dir vacío no escribe nada.
type RawLog struct {
	dir string

	mu      sync.Mutex
	writers map[string]io.WriteCloser
	now     func() time.Time
}

func NewRawLog(dir string) *RawLog {
	return &RawLog{dir: dir, writers: make(map[string]io.WriteCloser), now: time.Now}
}

func (l *RawLog) writer(prefix string) io.Writer {
	w, ok := l.writers[prefix]
	if !ok {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(l.dir, prefix+".log"),
			MaxSize:    50,
			MaxBackups: 14,
			Compress:   true,
		}
		l.writers[prefix] = w
	}
	return w
}

// CreateLog agrega una línea "hora - mensaje" al log de prefix.
func (l *RawLog) CreateLog(prefix, message string) {
	if l == nil || l.dir == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	logLine := l.now().Format("20060102 15:04:05") + " - " + message + "\n"
	_, _ = io.WriteString(l.writer(prefix), logLine)
}

// LogHex registra data como hex, precedido por el origen.
func (l *RawLog) LogHex(prefix, origin string, data []byte) {
	if l == nil || l.dir == "" {
		return
	}
	l.CreateLog(prefix, origin+" "+hex.EncodeToString(data))
}

func (l *RawLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var first error
	for k, w := range l.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
		delete(l.writers, k)
	}
	return first
}

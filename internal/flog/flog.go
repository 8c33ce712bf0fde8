package flog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Level int

const None Level = -1
const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

var (
	minLevel  atomic.Int32
	logCh     = make(chan string, 1024)
	done      = make(chan struct{})
	dropped   atomic.Uint64
	started   atomic.Bool
	startOnce sync.Once
	closeMu   sync.RWMutex
	closed    bool

	// out is only swapped before SetLevel starts the writer.
	out io.Writer = os.Stderr
)

func init() {
	minLevel.Store(int32(Info))
}

// SetOutput redirects log lines. It must be called before SetLevel.
func SetOutput(w io.Writer) {
	out = w
}

func SetLevel(l Level) {
	minLevel.Store(int32(l))
	if l == None {
		return
	}

	startOnce.Do(func() {
		started.Store(true)
		go func() {
			defer close(done)
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-logCh:
					if !ok {
						reportDropped()
						return
					}
					fmt.Fprint(out, msg)
				case <-ticker.C:
					reportDropped()
				}
			}
		}()
	})
}

func reportDropped() {
	if n := dropped.Swap(0); n > 0 {
		now := time.Now().Format("2006-01-02 15:04:05.000")
		fmt.Fprintf(out, "%s [WARN] flog: dropped %d log lines (logCh full)\n", now, n)
	}
}

// ParseLevel maps a config level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return None, nil
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	case "fatal":
		return Fatal, nil
	}
	return None, fmt.Errorf("unknown log level %q", s)
}

func logf(level Level, format string, args ...any) {
	cur := Level(minLevel.Load())
	if level < cur || cur == None {
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("%s [%s] %s\n", now, level.String(), fmt.Sprintf(format, args...))

	closeMu.RLock()
	defer closeMu.RUnlock()
	if closed {
		return
	}
	select {
	case logCh <- line:
	default:
		dropped.Add(1)
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	case None:
		return "None"
	default:
		return "UNKNOWN"
	}
}

func Debugf(format string, args ...any) { logf(Debug, format, args...) }
func Infof(format string, args ...any)  { logf(Info, format, args...) }
func Warnf(format string, args ...any)  { logf(Warn, format, args...) }
func Errorf(format string, args ...any) { logf(Error, format, args...) }
func Fatalf(format string, args ...any) {
	logf(Fatal, format, args...)
	Close()
	os.Exit(1)
}

// Close stops accepting lines and waits for queued ones to be written.
// Lines logged after Close are dropped.
func Close() {
	closeMu.Lock()
	if closed {
		closeMu.Unlock()
		return
	}
	closed = true
	close(logCh)
	closeMu.Unlock()

	if started.Load() {
		<-done
	}
}

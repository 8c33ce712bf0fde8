package bench

import (
	"context"
	"errors"
	"inetsum/internal/flog"
	"net/http"
	_ "net/http/pprof"
	"time"
)

// startPprof serves net/http/pprof on addr for the length of one bench run.
// The returned stop shuts the listener down; it is a no-op when addr is empty.
func startPprof(addr string) (stop func()) {
	if addr == "" {
		return func() {}
	}

	srv := &http.Server{Addr: addr}
	go func() {
		flog.Warnf("bench: pprof listening on http://%s/debug/pprof/ until the run ends (bind carefully)", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			flog.Errorf("bench: pprof server failed: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			flog.Errorf("bench: pprof shutdown: %v", err)
		}
		flog.Debugf("bench: pprof on %s stopped", addr)
	}
}

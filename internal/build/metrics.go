package build

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/joeblew999/plat-fonts/pkg/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/metric"
	"github.com/zeromicro/go-zero/core/prometheus"
)

// MetricsPath is where StartMetrics serves the Prometheus exposition.
const MetricsPath = "/metrics"

var (
	buildDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "fontcat",
		Subsystem: "build",
		Name:      "duration_ms",
		Help:      "Target build duration in milliseconds",
		Labels:    []string{"target"},
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	buildsTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "fontcat",
		Subsystem: "build",
		Name:      "total",
		Help:      "Target builds by outcome",
		Labels:    []string{"target", "outcome"},
	})
)

// StartMetrics enables metric recording and serves it on addr until ctx is
// done. It returns the address actually listened on.
func StartMetrics(ctx context.Context, addr string) (string, error) {
	prometheus.Enable()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.Handler())
	srv := &http.Server{Handler: mux}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server stopped", "err", err.Error())
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Info("Serving metrics", "addr", ln.Addr().String(), "path", MetricsPath)
	return ln.Addr().String(), nil
}

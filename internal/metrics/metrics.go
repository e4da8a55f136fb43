// Package metrics exposes render loop activity as prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/allbin/tempscope"
)

// Collector counts what the render loop sees. It implements tempscope.Observer.
type Collector struct {
	registry *prometheus.Registry

	linesReceived  prometheus.Counter
	samplesTotal   prometheus.Counter
	parseFailures  prometheus.Counter
	readErrors     prometheus.Counter
	lastValue      prometheus.Gauge
	windowAverage  prometheus.Gauge
	lastIndex      prometheus.Gauge
	lastSampleTime prometheus.Gauge
}

var _ tempscope.Observer = (*Collector)(nil)

// New creates a collector on its own registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		linesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempscope_lines_received_total",
			Help: "Lines read from the sensor",
		}),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempscope_samples_total",
			Help: "Samples accepted into the window",
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempscope_parse_failures_total",
			Help: "Lines rejected by the parser",
		}),
		readErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tempscope_read_errors_total",
			Help: "Serial read failures",
		}),
		lastValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempscope_temperature_celsius",
			Help: "Most recent temperature sample",
		}),
		windowAverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempscope_window_average_celsius",
			Help: "Mean of the samples in the visible window",
		}),
		lastIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempscope_sample_index",
			Help: "Index of the most recent sample",
		}),
		lastSampleTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tempscope_last_sample_timestamp_seconds",
			Help: "Unix time of the most recent sample",
		}),
	}

	c.registry.MustRegister(
		c.linesReceived,
		c.samplesTotal,
		c.parseFailures,
		c.readErrors,
		c.lastValue,
		c.windowAverage,
		c.lastIndex,
		c.lastSampleTime,
	)
	return c
}

// Registry returns the registry the metrics live in
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) LineReceived(string) {
	c.linesReceived.Inc()
}

func (c *Collector) SampleAccepted(s tempscope.Sample, average float64) {
	c.samplesTotal.Inc()
	c.lastValue.Set(s.Value)
	c.windowAverage.Set(average)
	c.lastIndex.Set(float64(s.Index))
	c.lastSampleTime.SetToCurrentTime()
}

func (c *Collector) ParseFailed(string) {
	c.parseFailures.Inc()
}

func (c *Collector) ReadFailed(error) {
	c.readErrors.Inc()
}

// Handler serves the registry in the prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Listen binds addr for Serve. Binding up front lets a busy or invalid
// address be reported before the chart takes over the terminal.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener on %s: %w", addr, err)
	}
	return ln, nil
}

// Serve exposes /metrics and /health on ln until ctx is done
func (c *Collector) Serve(ctx context.Context, ln net.Listener, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics server starting", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Command lobd runs the matching engine's dispatcher behind its metrics,
// websocket, and NATS feeds.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/novaex/lob/pkg/config"
	"github.com/novaex/lob/pkg/dispatcher"
	"github.com/novaex/lob/pkg/feed/natsfeed"
	"github.com/novaex/lob/pkg/feed/ws"
	"github.com/novaex/lob/pkg/lob"
	"github.com/novaex/lob/pkg/metrics"
	"github.com/novaex/lob/pkg/obslog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obslog.New(cfg.LogLevel)
	m := metrics.New(logger)

	var sinks lob.MultiSink

	if cfg.WebsocketAddr != "" {
		broadcaster := ws.NewBroadcaster(logger)
		sinks = append(sinks, broadcaster)
		mux := httpMux(broadcaster)
		go func() {
			logger.Info("websocket feed listening", "addr", cfg.WebsocketAddr)
			if err := listenAndServe(cfg.WebsocketAddr, mux); err != nil {
				logger.Error("websocket feed stopped", "error", err)
			}
		}()
	}

	if cfg.NATSURL != "" {
		pub, err := natsfeed.Connect(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			logger.Error("nats connect failed", "error", err)
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
		}
	}

	sinks = append(sinks, metricsSink{m: m})

	d := dispatcher.New(sinks, logger,
		dispatcher.WithQueueDepth(cfg.SymbolQueueDepth),
		dispatcher.WithMetrics(m),
	)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(cfg.MetricsAddr); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	logger.Info("lobd started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	d.Shutdown()
}

// metricsSink adapts *metrics.Metrics to lob.FillSink so fills are
// recorded alongside being broadcast/published.
type metricsSink struct {
	m *metrics.Metrics
}

func (s metricsSink) OnFill(e lob.FillEvent) {
	qty, _ := e.Quantity.Float64()
	s.m.RecordFill(e.Symbol, qty)
}

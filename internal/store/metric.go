package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

const instrumentedDriverName = "pgx-with-metrics"

var (
	opRegex     = regexp.MustCompile(`^(\w)+`)
	pgOpLatency *prometheus.HistogramVec
	pgOpTotal   *prometheus.CounterVec
)

type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func init() {
	pgOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "pg_op_duration_milliseconds",
		Help:      "Time spent on a postgres operation",
		Subsystem: "jobs_dashboard",
		Buckets:   []float64{100, 300, 500, 1000, 5000},
	},
		[]string{"op", "method"},
	)
	pgOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "pg_op_total",
		Help:      "Number of postgres operations",
		Subsystem: "jobs_dashboard",
	},
		[]string{"op"},
	)

	prometheus.MustRegister(pgOpLatency)
	prometheus.MustRegister(pgOpTotal)

	sql.Register(instrumentedDriverName, sqlmw.Driver(stdlib.GetDefaultDriver(), &metricInterceptor{}))
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	start := time.Now()
	defer mi.measure("conn-begin-tx", "conn-begin-tx", start)

	tx, err := conn.BeginTx(ctx, opts)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnPing(ctx context.Context, conn driver.Pinger) error {
	start := time.Now()
	defer mi.measure("conn-ping", "conn-ping", start)

	return conn.Ping(ctx)
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	defer mi.measure("conn-exec-context", queryMethod(query, "conn-exec-context"), start)

	return conn.ExecContext(ctx, query, args)
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	defer mi.measure("conn-query-context", queryMethod(query, "conn-query-context"), start)

	rows, err := conn.QueryContext(ctx, query, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	defer mi.measure("tx-commit", "tx-commit", start)
	return conn.Commit()
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	defer mi.measure("tx-rollback", "tx-rollback", start)
	return conn.Rollback()
}

// queryMethod labels the metric with the leading SQL verb (select, insert...)
func queryMethod(query, fallback string) string {
	if matches := opRegex.FindSubmatch([]byte(query)); len(matches) > 0 {
		return strings.ToLower(string(matches[0]))
	}
	return fallback
}

func (mi *metricInterceptor) measure(op, method string, start time.Time) {
	pgOpTotal.WithLabelValues(op).Inc()
	pgOpLatency.WithLabelValues(op, method).Observe(float64(time.Since(start).Milliseconds()))
}

package metrics

import (
	"fmt"
	"math"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	Namespace = "sfadapter"
)

// Metrics of one adapter process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	queryCounter           *prometheus.CounterVec
	schemaCheckCounter     *prometheus.CounterVec
	warehouseSwitchCounter *prometheus.CounterVec
	errorCounter           *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := Metrics{}
	m.queryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "query_count",
			Help:      "number of statements sent to the warehouse",
		}, []string{"kind"})
	m.schemaCheckCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "schema_check_count",
			Help:      "number of schema change checks by result",
		}, []string{"result"})
	m.warehouseSwitchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "warehouse_switch_count",
			Help:      "number of USE WAREHOUSE statements by target warehouse",
		}, []string{"warehouse"})
	m.errorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "error_count",
			Help:      "Total error count by operation",
		}, []string{"operation"})
	return &m
}

func (m *Metrics) RegisterTo(registry prometheus.Registerer) {
	registry.MustRegister(m.queryCounter)
	registry.MustRegister(m.schemaCheckCounter)
	registry.MustRegister(m.warehouseSwitchCounter)
	registry.MustRegister(m.errorCounter)
}

func (m *Metrics) UnregisterFrom(registry prometheus.Registerer) {
	registry.Unregister(m.queryCounter)
	registry.Unregister(m.schemaCheckCounter)
	registry.Unregister(m.warehouseSwitchCounter)
	registry.Unregister(m.errorCounter)
}

// Snapshot gathers every counter touched so far, keyed as
// name{label=value}. A nil *Metrics has no counters.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	if m == nil {
		return nil, nil
	}
	registry := prometheus.NewRegistry()
	m.RegisterTo(registry)
	families, err := registry.Gather()
	if err != nil {
		return nil, errors.Trace(err)
	}
	snapshot := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += fmt.Sprintf("{%s=%s}", label.GetName(), label.GetValue())
			}
			snapshot[key] = metric.GetCounter().GetValue()
		}
	}
	return snapshot, nil
}

// ObserveQuery counts a statement; kind is "fetch" or "exec".
func (m *Metrics) ObserveQuery(kind string) {
	if m == nil {
		return
	}
	AddCounter(m.queryCounter, 1, kind)
}

// ObserveSchemaCheck counts a schema comparison; result is "changed" or "unchanged".
func (m *Metrics) ObserveSchemaCheck(result string) {
	if m == nil {
		return
	}
	AddCounter(m.schemaCheckCounter, 1, result)
}

func (m *Metrics) ObserveWarehouseSwitch(warehouse string) {
	if m == nil {
		return
	}
	AddCounter(m.warehouseSwitchCounter, 1, warehouse)
}

func (m *Metrics) ObserveError(operation string) {
	if m == nil {
		return
	}
	AddCounter(m.errorCounter, 1, operation)
}

// QueryCount reports the number of statements of the given kind.
func (m *Metrics) QueryCount(kind string) float64 {
	if m == nil {
		return math.NaN()
	}
	return ReadCounter(m.queryCounter, kind)
}

func (m *Metrics) SchemaCheckCount(result string) float64 {
	if m == nil {
		return math.NaN()
	}
	return ReadCounter(m.schemaCheckCounter, result)
}

func (m *Metrics) WarehouseSwitchCount(warehouse string) float64 {
	if m == nil {
		return math.NaN()
	}
	return ReadCounter(m.warehouseSwitchCounter, warehouse)
}

func (m *Metrics) ErrorCount(operation string) float64 {
	if m == nil {
		return math.NaN()
	}
	return ReadCounter(m.errorCounter, operation)
}

// ReadCounter reports the current value of the counter for a label value.
func ReadCounter(counterVec *prometheus.CounterVec, label string) float64 {
	if counterVec == nil {
		return math.NaN()
	}
	counter, err := counterVec.GetMetricWithLabelValues(label)
	if err != nil {
		return math.NaN()
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Counter.GetValue()
}

// AddCounter adds v to the counter for a label value.
func AddCounter(counterVec *prometheus.CounterVec, v float64, label string) {
	if counterVec == nil {
		return
	}
	counterVec.WithLabelValues(label).Add(v)
}

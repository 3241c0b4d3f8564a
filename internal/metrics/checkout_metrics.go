package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики процесса оформления заказа.
type CheckoutMetrics struct {
	// Счётчики исходов сабмита
	submissionsCompleted prometheus.Counter
	submissionsRejected  *prometheus.CounterVec
	ordersCreated        prometheus.Counter

	// Просмотры страницы завершения по результату ownership-проверки
	completionViews *prometheus.CounterVec

	// Гистограмма времени обработки сабмита
	checkoutDuration prometheus.Histogram

	// Gauge для сабмитов в обработке
	activeCheckouts prometheus.Gauge
}

// NewCheckoutMetrics создаёт новый экземпляр метрик оформления.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		submissionsCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_submissions_completed_total",
			Help: "Total number of checkout submissions that produced an order",
		}),
		submissionsRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_submissions_rejected_total",
			Help: "Total number of rejected checkout submissions grouped by reason",
		}, []string{"reason"}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Total number of orders persisted by the checkout workflow",
		}),
		completionViews: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_completion_views_total",
			Help: "Total number of completion page lookups grouped by result",
		}, []string{"result"}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "checkout_submission_duration_seconds",
			Help:    "Duration of checkout submission processing in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		activeCheckouts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "checkout_active_submissions",
			Help: "Number of checkout submissions currently being processed",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordSubmissionStarted увеличивает количество активных сабмитов.
func (m *CheckoutMetrics) RecordSubmissionStarted() {
	m.activeCheckouts.Inc()
}

// RecordSubmissionFinished уменьшает количество активных сабмитов.
func (m *CheckoutMetrics) RecordSubmissionFinished() {
	m.activeCheckouts.Dec()
}

// RecordSubmissionCompleted увеличивает счётчик успешных сабмитов.
func (m *CheckoutMetrics) RecordSubmissionCompleted() {
	m.submissionsCompleted.Inc()
	m.ordersCreated.Inc()
}

// RecordSubmissionRejected увеличивает счётчик отказов с указанием причины.
func (m *CheckoutMetrics) RecordSubmissionRejected(reason string) {
	m.submissionsRejected.WithLabelValues(reason).Inc()
}

// RecordCompletionView фиксирует результат просмотра страницы завершения.
func (m *CheckoutMetrics) RecordCompletionView(result string) {
	m.completionViews.WithLabelValues(result).Inc()
}

// RecordCheckoutDuration записывает время обработки сабмита.
func (m *CheckoutMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

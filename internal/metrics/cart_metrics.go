package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics содержит метрики корзины и оформления заказов.
type CartMetrics struct {
	// Счётчики операций корзины по типу (add/remove/update_quantity/clear/set_restaurant)
	cartOperations *prometheus.CounterVec

	// Счётчики checkout
	ordersCreated   prometheus.Counter
	checkoutsFailed prometheus.Counter

	// Гистограмма времени оформления заказа
	checkoutDuration prometheus.Histogram

	// Счётчик событий timeline
	timelineEvents prometheus.Counter

	// Gauge для корзин, загруженных в память
	activeCarts prometheus.Gauge
}

// NewCartMetrics создаёт новый экземпляр метрик корзины.
func NewCartMetrics() *CartMetrics {
	return newCartMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCartMetricsWithRegisterer(registerer prometheus.Registerer) *CartMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CartMetrics{
		cartOperations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cardapio_cart_operations_total",
			Help: "Total number of cart operations grouped by type",
		}, []string{"op"}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cardapio_orders_created_total",
			Help: "Total number of orders created via checkout",
		}),
		checkoutsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cardapio_checkouts_failed_total",
			Help: "Total number of failed checkout attempts",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "cardapio_checkout_duration_seconds",
			Help:    "Duration of checkout processing in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cardapio_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		}),
		activeCarts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "cardapio_active_carts",
			Help: "Number of cart engines currently loaded in memory",
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

// RecordCartOperation увеличивает счётчик операций корзины.
func (m *CartMetrics) RecordCartOperation(op string) {
	m.cartOperations.WithLabelValues(op).Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *CartMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordCheckoutFailed увеличивает счётчик неудачных checkout.
func (m *CartMetrics) RecordCheckoutFailed() {
	m.checkoutsFailed.Inc()
}

// RecordCheckoutDuration записывает время оформления заказа.
func (m *CartMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *CartMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// SetActiveCarts выставляет число корзин, загруженных в память.
func (m *CartMetrics) SetActiveCarts(n int) {
	m.activeCarts.Set(float64(n))
}

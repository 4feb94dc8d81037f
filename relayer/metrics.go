package relayer

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PromMetrics struct {
	Instructions *prometheus.CounterVec
	SentAmount   *prometheus.CounterVec
	RelayerFees  *prometheus.CounterVec
	NativeSwaps  *prometheus.CounterVec
	Paused       prometheus.Gauge
}

// NewPromMetrics creates the relayer metrics and registers them with reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	// labels
	var (
		instructionLabels = []string{"instruction", "result"}
		transferLabels    = []string{"mint", "chain"}
		mintLabels        = []string{"mint"}
	)

	m := &PromMetrics{
		Instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_bridge_relayer_instructions_total",
			Help: "Instructions executed, by outcome",
		}, instructionLabels),
		SentAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_bridge_relayer_sent_amount_total",
			Help: "Token amount bridged out, in the token's smallest unit",
		}, transferLabels),
		RelayerFees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_bridge_relayer_relayer_fees_total",
			Help: "Relayer fees paid to the fee recipient on redemption",
		}, mintLabels),
		NativeSwaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_bridge_relayer_native_swaps_total",
			Help: "Redemptions that paid out the native asset",
		}, mintLabels),
		Paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "token_bridge_relayer_paused",
			Help: "1 while outbound transfers are paused",
		}),
	}

	reg.MustRegister(m.Instructions, m.SentAmount, m.RelayerFees, m.NativeSwaps, m.Paused)

	return m
}

// InitPromMetrics registers the relayer metrics on a fresh registry and
// serves them on /metrics.
func InitPromMetrics(port int16) *PromMetrics {
	reg := prometheus.NewRegistry()
	m := NewPromMetrics(reg)

	// Expose /metrics HTTP endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()

	return m
}

func (m *PromMetrics) ObserveInstruction(instruction string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Instructions.WithLabelValues(instruction, result).Inc()
}

func (m *PromMetrics) AddSent(mint, chain string, amount uint64) {
	if m == nil {
		return
	}
	m.SentAmount.WithLabelValues(mint, chain).Add(float64(amount))
}

func (m *PromMetrics) AddRelayerFee(mint string, amount uint64) {
	if m == nil {
		return
	}
	m.RelayerFees.WithLabelValues(mint).Add(float64(amount))
}

func (m *PromMetrics) IncNativeSwap(mint string) {
	if m == nil {
		return
	}
	m.NativeSwaps.WithLabelValues(mint).Inc()
}

func (m *PromMetrics) SetPaused(paused bool) {
	if m == nil {
		return
	}
	if paused {
		m.Paused.Set(1)
	} else {
		m.Paused.Set(0)
	}
}

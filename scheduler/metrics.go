package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var Prom_temperature = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "temperature",
		Help: "Temperature C",
	},
)

var Prom_humidity = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "relative_humidity",
		Help: "Relative Humidity",
	},
)

var Prom_light = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "ambient_light_raw",
		Help: "Raw ADC reading of the light sensor",
	},
)

var Prom_reportInterval = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "report_interval_seconds",
		Help: "Current interval between sensor reads",
	},
)

var Prom_decodeFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dht_decode_failures_total",
		Help: "Failed DHT11 sessions by failure kind",
	},
	[]string{"kind"},
)

var Prom_sendFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "telemetry_send_failures_total",
		Help: "Telemetry records the transport did not accept",
	},
)

func init() {
	prometheus.MustRegister(
		Prom_temperature,
		Prom_humidity,
		Prom_light,
		Prom_reportInterval,
		Prom_decodeFailures,
		Prom_sendFailures)
}

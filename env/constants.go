package env

import "time"

const (
	GPIO04 = "GPIO4"  // DHT11 data line
	GPIO02 = "GPIO2"  // SDA
	GPIO03 = "GPIO3"  // SCL
	GPIO20 = "GPIO20" // activity LED

	DHTDataPin  = GPIO04
	ActivityLed = GPIO20

	// ADS1115 on the default address, light dependent resistor on A3
	LightADCAddress = 0x48

	// protocol timings, see the DHT11 datasheet
	StartLow       = 18 * time.Millisecond
	ReleaseHigh    = 20 * time.Microsecond
	BitSettle      = 40 * time.Microsecond // longer than a '0' high phase (26-28us)
	LevelTimeout   = 200 * time.Microsecond
	BitsPerReading = 40

	// reporting cadence
	IntervalMin  = 5000 * time.Millisecond
	IntervalMax  = 30000 * time.Millisecond
	IntervalStep = 100 * time.Millisecond
	Tick         = 1000 * time.Millisecond

	// Compared against the magnitude of the integer part delta, so any
	// non-zero delta counts as a change.
	ChangeThreshold = 0.3

	HumidityHigh = 80
	HumidityLow  = 60

	LEDFlashDuration = time.Millisecond * 50

	MQTTDefaultBroker = "tcp://localhost:1883"
	MQTTDefaultTopic  = "agrinode/telemetry"
	MQTTQoS           = 0
	MQTTPublishWait   = 10 * time.Second
)

package scheduler

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gr-butler/agrinode/dht"
)

// Telemetry is the record handed to the transport after each good read.
// Values are sent as strings, two decimals for the sensor values.
type Telemetry struct {
	Version     string `json:"version"`
	Temp        string `json:"Temp"`
	Humi        string `json:"Humi"`
	SensorLight string `json:"sensor_light"`
}

func NewTelemetry(version string, r dht.Reading, light uint16) Telemetry {
	return Telemetry{
		Version:     version,
		Temp:        fmt.Sprintf("%.2f", r.Temperature()),
		Humi:        fmt.Sprintf("%.2f", r.Humidity()),
		SensorLight: strconv.Itoa(int(light)),
	}
}

func (t Telemetry) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

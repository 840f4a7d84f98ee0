package main

import (
	"encoding/json"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"
)

type webdata struct {
	TimeNow      string  `json:"time"`
	Temperature  float64 `json:"temperature_C"`
	Humidity     float64 `json:"humidity_RH"`
	Light        uint16  `json:"light_raw"`
	HaveReading  bool    `json:"have_reading"`
	IntervalMs   int64   `json:"interval_ms"`
	LastAttempt  string  `json:"last_attempt,omitempty"`
	LastError    string  `json:"last_error,omitempty"`
	Reads        int     `json:"reads"`
	Failures     int     `json:"failures"`
	SendFailures int     `json:"send_failures"`
	Version      string  `json:"version"`
}

func (n *agrinode) handler(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	st := n.sched.Status()
	wd := webdata{
		TimeNow:      time.Now().Format(time.RFC822),
		HaveReading:  st.HaveReading,
		Light:        st.Light,
		IntervalMs:   st.Interval.Milliseconds(),
		LastError:    st.LastError,
		Reads:        st.Reads,
		Failures:     st.Failures,
		SendFailures: st.SendFailures,
		Version:      version,
	}
	if st.HaveReading {
		wd.Temperature = st.Reading.Temperature()
		wd.Humidity = st.Reading.Humidity()
	}
	if !st.LastAttempt.IsZero() {
		wd.LastAttempt = st.LastAttempt.Format(time.RFC822)
	}

	js, err := json.Marshal(wd)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Debugf("Web read: \n[%v]", string(js))
	_, _ = rw.Write(js) // not much we can do if this fails
}

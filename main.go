package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gr-butler/agrinode/dht"
	"github.com/gr-butler/agrinode/env"
	"github.com/gr-butler/agrinode/led"
	"github.com/gr-butler/agrinode/scheduler"
	"github.com/gr-butler/agrinode/sensors"
	"github.com/gr-butler/agrinode/transport"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "GRB-AgriNode-1.0.0"

type agrinode struct {
	s        *sensors.Sensors
	sched    *scheduler.Scheduler
	testMode bool
}

func main() {
	logger.Infof("Starting agriculture node [%v]", version)

	args := env.Args{
		Test:    flag.Bool("test", false, "test mode, logs telemetry instead of publishing it"),
		Verbose: flag.Bool("verbose", false, "debug logging"),
		Light:   flag.Bool("light", false, "read the ADS1115 light sensor"),
		Pin:     flag.String("pin", env.DHTDataPin, "DHT11 data pin"),
		Broker:  flag.String("broker", env.MQTTDefaultBroker, "MQTT broker URL"),
		Topic:   flag.String("topic", env.MQTTDefaultTopic, "MQTT telemetry topic"),
		Listen:  flag.String("listen", ":80", "address for the status and metrics endpoints"),
	}
	flag.Parse()

	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}

	logger.Infof("%v: Initialize sensors...", time.Now().Format(time.RFC822))
	n := agrinode{testMode: *args.Test}
	n.s = sensors.NewSensors(args)
	if err := n.s.InitSensors(); err != nil {
		logger.Errorf("Failed to initialise sensors!! [%v]", err)
		logger.Exit(1)
	}
	defer n.s.Close()

	var tr scheduler.Transport = transport.Log{}
	if !n.testMode {
		client, err := transport.Connect(mqttOpts(args))
		if err != nil {
			logger.Errorf("Failed to connect to MQTT broker [%v]", err)
			n.s.Close()
			logger.Exit(1)
		}
		defer client.Disconnect(1000)
		tr = transport.NewMQTT(client, *args.Topic)
	}

	activity := led.NewLED("activity", env.ActivityLed)
	defer activity.Close()

	cfg := scheduler.Config{
		Version:   version,
		Indicator: activity,
	}
	if n.s.Light != nil {
		cfg.Light = n.s.Light
	}
	n.sched = scheduler.New(dht.NewDecoder(n.s.DHT), tr, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = n.sched.Run(ctx)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", n.handler)
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: *args.Listen, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Infof("Starting webservice on [%v]", *args.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Webservice failed [%v]", err)
	}
	logger.Info("Exiting...")
}

func mqttOpts(args env.Args) transport.ClientOpts {
	o := transport.ClientOpts{
		Broker:   *args.Broker,
		ClientID: "agrinode-" + hostname(),
	}
	if v, ok := os.LookupEnv("MQTT_BROKER"); ok {
		o.Broker = v
	}
	if v, ok := os.LookupEnv("MQTT_CLIENT_ID"); ok {
		o.ClientID = v
	}
	user, userok := os.LookupEnv("MQTT_USERNAME")
	pass, passok := os.LookupEnv("MQTT_PASSWORD")
	if userok != passok {
		logger.Error("MQTT_USERNAME and MQTT_PASSWORD must be set together, connecting anonymously")
	} else if userok {
		o.Username = user
		o.Password = pass
	}
	return o
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

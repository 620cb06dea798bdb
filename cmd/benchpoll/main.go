// cmd/benchpoll/main.go
//
// benchpoll samples a pulser prototype hanging off a Modbus RTU register
// gateway and prints one status line per sample. It is the bench-bring-up
// counterpart of the on-machine poller: same registers, same block read,
// human-readable output.
//
//	benchpoll <config.yaml>
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"edmcode-go/drivers/pulser"
	"edmcode-go/drivers/rtubus"
)

type Config struct {
	Bench BenchConfig `yaml:"bench"`
}

type BenchConfig struct {
	Device     string `yaml:"device"`
	BaudRate   int    `yaml:"baud_rate"`
	SlaveID    uint8  `yaml:"slave_id"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	BusAddr    uint16 `yaml:"bus_addr"`
	IntervalMs int    `yaml:"interval_ms"`
	Count      int    `yaml:"count"` // 0 = poll forever
}

func loadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{Bench: BenchConfig{IntervalMs: 100}}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Bench.Device == "" {
		return nil, fmt.Errorf("%s: bench.device is required", path)
	}
	if cfg.Bench.IntervalMs <= 0 {
		return nil, fmt.Errorf("%s: bench.interval_ms must be positive", path)
	}
	return cfg, nil
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: benchpoll <config.yaml>")
	}
	cfg, err := loadConfig(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	bus, err := rtubus.Open(rtubus.Config{
		Device:   cfg.Bench.Device,
		BaudRate: cfg.Bench.BaudRate,
		SlaveID:  cfg.Bench.SlaveID,
		Timeout:  time.Duration(cfg.Bench.TimeoutMs) * time.Millisecond,
		BusAddr:  cfg.Bench.BusAddr,
	})
	if err != nil {
		log.Fatalf("gateway open failed: %v", err)
	}
	defer bus.Close()

	dev := pulser.New(bus, cfg.Bench.BusAddr)

	temp, err := dev.Temperature()
	if err != nil {
		log.Fatalf("device not answering: %v", err)
	}
	fmt.Printf("pulser at 0x%02X: temp=%d\n", dev.Addr(), temp)

	tick := time.NewTicker(time.Duration(cfg.Bench.IntervalMs) * time.Millisecond)
	defer tick.Stop()

	for n := 0; cfg.Bench.Count == 0 || n < cfg.Bench.Count; n++ {
		<-tick.C
		st, err := dev.ReadStatus()
		if err != nil {
			fmt.Printf("%6d  read failed: %v\n", n, err)
			continue
		}
		flowing := ' '
		if st.CurrentFlowing() {
			flowing = '*'
		}
		fmt.Printf("%6d  n_pulse=%3d r_pulse=%3d r_short=%3d r_open=%3d %c\n",
			n, st.NPulse, st.RPulse, st.RShort, st.ROpen, flowing)
	}
}

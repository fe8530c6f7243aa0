package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hwtimer/config"
	"hwtimer/core"
	"hwtimer/host/serial"
	"hwtimer/host/tracer"
)

var (
	device     = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", serial.DefaultBaud, "Baud rate of the target UART")
	configPath = flag.String("config", "", "Board config JSON (default: built-in nRF51 config)")
	simulate   = flag.Bool("sim", false, "Run the driver on a simulated board instead of reading a target")
	duration   = flag.Duration("duration", 2*time.Second, "How long to capture")
	pngPath    = flag.String("png", "", "Render a timeline to this PNG file")
	verbose    = flag.Bool("verbose", false, "Print every event")
)

func main() {
	flag.Parse()

	fmt.Println("Timer Trace - hardware timer event capture")
	fmt.Println("==========================================")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	capture := tracer.NewCapture()
	if *simulate {
		if *verbose {
			core.SetDebugWriter(func(s string) { fmt.Println(s) })
			core.SetDebugEnabled(true)
		}
		fmt.Printf("Simulating %s for %v...\n", cfg.Board, *duration)
		err = tracer.Simulate(cfg, *duration, capture)
	} else {
		err = readTarget(capture)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	frames, lost, errs := capture.Stats()
	fmt.Printf("Captured %d events in %d blocks (%d lost, %d bad)\n",
		len(capture.Events), frames, lost, errs)

	if *verbose {
		tracer.Print(os.Stdout, capture.Events)
	}
	tracer.PrintSummary(os.Stdout, capture.Events)

	if *pngPath != "" {
		if err := tracer.Render(*pngPath, capture.Events); err != nil {
			fmt.Fprintf(os.Stderr, "Error: render %s: %v\n", *pngPath, err)
			os.Exit(1)
		}
		fmt.Printf("Timeline written to %s\n", *pngPath)
	}
}

func loadConfig(path string) (*config.BoardConfig, error) {
	if path == "" {
		return config.DefaultNRF51Config(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return config.LoadConfig(data)
}

func readTarget(capture *tracer.Capture) error {
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Reading trace from %s for %v...\n", *device, *duration)
	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		return err
	}
	return capture.ReadFrom(port, *duration)
}

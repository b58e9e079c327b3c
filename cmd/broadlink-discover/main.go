// broadlink-discover finds Broadlink-family devices on the local network.
//
// It broadcasts a discovery hello on UDP port 80 and prints one line per
// device that answers before the timeout.
//
// Usage:
//
//	broadlink-discover [options]
//
// Options:
//
//	-local-ip  Local IPv4 address to advertise (default: auto-detect)
//	-timeout   How long to wait for replies (default: 10s)
//	-verbose   Enable debug logging
//
// Example:
//
//	broadlink-discover -local-ip 192.168.1.10 -timeout 5s
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/netip"
	"time"

	"github.com/pion/logging"

	"github.com/castaf/broadlink/pkg/discovery"
)

func main() {
	localIP := flag.String("local-ip", "", "Local IPv4 address to advertise (default: auto-detect)")
	timeout := flag.Duration("timeout", 10*time.Second, "How long to wait for replies")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg := discovery.Config{Timeout: *timeout}

	if *localIP != "" {
		addr, err := netip.ParseAddr(*localIP)
		if err != nil {
			log.Fatalf("Invalid -local-ip: %v", err)
		}
		cfg.LocalAddr = addr
	}

	if *verbose {
		loggerFactory := logging.NewDefaultLoggerFactory()
		loggerFactory.DefaultLogLevel = logging.LogLevelDebug
		cfg.LoggerFactory = loggerFactory
	}

	devices, err := discovery.Discover(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return
	}

	for _, d := range devices {
		fmt.Printf("%-21v  type 0x%04X  %s  %s\n", d.Addr, d.DeviceType, d.HardwareAddr(), d.Name)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miradorstack/spectrum-engine/internal/api"
	"github.com/miradorstack/spectrum-engine/internal/models"
)

type accessPoint struct {
	ssid  string
	bssid string
	freq  int
	base  float64
	phase float64
}

var fleet = []accessPoint{
	{ssid: "office", bssid: "02:00:00:00:00:01", freq: 2412, base: -48},
	{ssid: "office-guest", bssid: "02:00:00:00:00:02", freq: 2412, base: -55},
	{ssid: "lobby", bssid: "02:00:00:00:00:03", freq: 2437, base: -62},
	{ssid: "cafe", bssid: "02:00:00:00:00:04", freq: 2442, base: -71},
	{ssid: "printer", bssid: "02:00:00:00:00:05", freq: 2462, base: -83},
	{ssid: "lab-5g", bssid: "02:00:00:00:00:06", freq: 5180, base: -58},
	{ssid: "lab-5g-2", bssid: "02:00:00:00:00:07", freq: 5745, base: -66},
}

func main() {
	var (
		address = flag.String("address", "localhost:50061", "spectrum-engine gRPC address")
		hunt    = flag.String("hunt", "", "BSSID to track while scanning")
		scans   = flag.Int("scans", 0, "number of scans to send (0 = until interrupted)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[mock-scanner] ", log.LstdFlags|log.Lmicroseconds)

	conn, err := grpc.NewClient(*address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatalf("dial %s: %v", *address, err)
	}
	defer conn.Close()
	client := api.NewClient(conn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *hunt != "" {
		callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if _, err := client.TrackTarget(callCtx, &api.TargetRequest{BSSID: *hunt}); err != nil {
			logger.Fatalf("track %s: %v", *hunt, err)
		}
		cancel()
		logger.Printf("hunting %s", *hunt)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range fleet {
		fleet[i].phase = rng.Float64() * 2 * math.Pi
	}

	for n := 0; *scans == 0 || n < *scans; n++ {
		snapshot := scan(rng, n)
		// Walk a slow circle so hunt samples carry changing fixes.
		location := &models.Coordinate{
			Latitude:  51.5 + 0.0005*math.Sin(float64(n)/10),
			Longitude: -0.12 + 0.0005*math.Cos(float64(n)/10),
			Accuracy:  5,
			Valid:     true,
		}

		callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		report, err := client.Analyze(callCtx, &api.AnalyzeRequest{Snapshot: snapshot, Location: location})
		cancel()
		if err != nil {
			logger.Printf("analyze failed: %v", err)
			if ctx.Err() != nil {
				return
			}
			time.Sleep(time.Second)
			continue
		}
		logger.Println(summary(report))

		wait := time.Duration(report.NextScanSeconds * float64(time.Second))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func scan(rng *rand.Rand, n int) models.Snapshot {
	snapshot := models.Snapshot{Timestamp: time.Now(), SignalScale: models.SignalScaleDBm}
	for i := range fleet {
		ap := &fleet[i]
		// Weak networks drop out of some scans.
		if ap.base <= -80 && rng.Float64() >= 0.6 {
			continue
		}
		signal := ap.base + 6*math.Sin(float64(n)/8+ap.phase) + rng.NormFloat64()*2
		snapshot.Networks = append(snapshot.Networks, models.NetworkObservation{
			SSID:         ap.ssid,
			BSSID:        ap.bssid,
			FrequencyMHz: ap.freq,
			Signal:       math.Round(signal),
			Security:     "WPA2",
		})
	}
	return snapshot
}

func summary(report *models.Report) string {
	line := fmt.Sprintf("report %s: %d networks, %d findings", report.ID, report.NetworkCount, len(report.Findings))
	for _, band := range report.Bands {
		if band.Suggestion.Channel != nil {
			line += fmt.Sprintf(", %s -> ch%d", band.Band, *band.Suggestion.Channel)
		}
	}
	for _, target := range report.Targets {
		if target.CurrentSignal != nil {
			line += fmt.Sprintf(", %s %.0fdBm (%s)", target.Target.BSSID, *target.CurrentSignal, target.Trend)
		}
	}
	return line
}

// Command simulate runs the frost-number model offline over a scenario of
// temperature-extreme pairs and prints one JSON step result per line. It uses
// the same lifecycle as the service, without Kafka.
//
// Usage:
//
//	go run ./cmd/simulate -pairs="-20:10,-15:15,-10:20"
//	echo '[{"time_min_c":-13,"time_max_c":19.5}]' | go run ./cmd/simulate
//	go run ./cmd/simulate -t-min=-13 -t-max=19.5 -until=10
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/frost-number-service/internal/forcing"
	"github.com/couchcryptid/frost-number-service/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	pairs := flag.String("pairs", "", "comma-separated min:max pairs in °C, e.g. \"-20:10,-15:15\"")
	tMin := flag.Float64("t-min", model.DefaultTAirMin, "coldest-month mean air temperature, °C")
	tMax := flag.Float64("t-max", model.DefaultTAirMax, "warmest-month mean air temperature, °C")
	offset := flag.Float64("surface-offset", model.DefaultTSurfaceOffset, "surface temperature offset, °C")
	daysPerYear := flag.Int("days-per-year", model.DefaultDaysPerYear, "days in the model year")
	stefanRatio := flag.Float64("stefan-ratio", model.DefaultStefanRatio, "thermal-property ratio for the Stefan variant")
	until := flag.Float64("until", 0, "step the fixed climate until this model time (years); ignored with -pairs or stdin input")
	flag.Parse()

	scenario, err := loadScenario(*pairs, *tMin, *tMax)
	if err != nil {
		return err
	}

	m := model.New()
	handle, err := m.Configure(model.Options{
		TAirMin:        *tMin,
		TAirMax:        *tMax,
		TSurfaceOffset: *offset,
		DaysPerYear:    *daysPerYear,
		StefanRatio:    *stefanRatio,
	})
	if err != nil {
		return err
	}
	if err := m.Initialize(handle); err != nil {
		return err
	}
	defer m.Finalize() //nolint:errcheck // finalize of an initialized model cannot fail

	enc := json.NewEncoder(os.Stdout)

	if scenario == nil {
		// Fixed climate: one step, or step out to -until.
		if err := m.UpdateUntil(max(*until, 1)); err != nil {
			return err
		}
		return enc.Encode(resultFrom(m, forcing.Record{TimeMinC: *tMin, TimeMaxC: *tMax}))
	}

	for _, rec := range scenario {
		if err := m.SetValue(model.VarAirTempMin, rec.TimeMinC); err != nil {
			return err
		}
		if err := m.SetValue(model.VarAirTempMax, rec.TimeMaxC); err != nil {
			return err
		}
		if err := m.Update(); err != nil {
			return err
		}
		if err := enc.Encode(resultFrom(m, rec)); err != nil {
			return err
		}
	}
	return nil
}

// loadScenario builds the forcing sequence from -pairs, or from a JSON array
// on stdin when -pairs is absent and stdin is piped. Returns nil for a fixed
// climate run.
func loadScenario(pairs string, tMin, tMax float64) ([]forcing.Record, error) {
	if pairs != "" {
		return parsePairs(pairs)
	}

	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		var recs []forcing.Record
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("parse stdin scenario: %w", err)
		}
		return recs, nil
	}

	return nil, nil
}

func parsePairs(s string) ([]forcing.Record, error) {
	var recs []forcing.Record
	for _, p := range strings.Split(s, ",") {
		lo, hi, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			return nil, fmt.Errorf("pair %q: want min:max", p)
		}
		tMin, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", p, err)
		}
		tMax, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", p, err)
		}
		recs = append(recs, forcing.Record{TimeMinC: tMin, TimeMaxC: tMax})
	}
	return recs, nil
}

func resultFrom(m *model.Model, rec forcing.Record) forcing.StepResult {
	snap := m.Snapshot()
	return forcing.StepResult{
		Step:       snap.Steps,
		ModelTime:  snap.Time,
		TimeUnits:  snap.TimeUnits,
		Forcing:    rec,
		Air:        snap.Air,
		Surface:    snap.Surface,
		Numbers:    snap.Numbers,
		ComputedAt: snap.LastUpdate,
	}
}

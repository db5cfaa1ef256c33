package report

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unixpickle/weather-reduce/weather"
)

func TestConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.Banner()
	c.Observation(1, weather.Observation{
		Index:       3,
		Location:    "Houston",
		Temperature: 6.4,
		Condition:   weather.Rainy,
	})
	c.WorkerAverage(1, 7.5)
	c.GlobalMax(17.999)
	c.GlobalVariance(3.14159)

	expected := []string{
		"Weather Forecasting using collective reductions",
		"Process 1 forecasted Rainy weather for location Houston: 6.40°C",
		"Process 1 average temperature for its locations: 7.50°C",
		"Maximum temperature across all locations and processes: 18.00°C",
		"Global variance of temperatures across all processes: 3.14",
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines but got %d: %q", len(expected), len(lines), lines)
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("line %d: expected %q but got %q", i, expected[i], line)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestConsoleIgnoresWriteErrors(t *testing.T) {
	c := NewConsole(failingWriter{}, true)
	c.Banner()
	c.Observation(0, weather.Observation{Location: "Miami", Condition: weather.Sunny})
	c.GlobalMin(1)
}

func TestMultiAndRecorder(t *testing.T) {
	r1, r2 := &Recorder{}, &Recorder{}
	var m Reporter = Multi{r1, Nop{}, r2}
	m.Banner()
	m.WorkerAverage(2, 4.5)
	m.GlobalAverage(3)
	for _, r := range []*Recorder{r1, r2} {
		events := r.Events()
		if len(events) != 3 {
			t.Fatalf("expected 3 events but got %d", len(events))
		}
		if events[1].Kind != WorkerAverageEvent || events[1].Rank != 2 || events[1].Value != 4.5 {
			t.Errorf("unexpected event: %+v", events[1])
		}
		if len(r.Filter(GlobalAverageEvent)) != 1 {
			t.Error("expected one global average")
		}
	}
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := Log{Logger: zap.New(core)}
	l.Observation(2, weather.Observation{Index: 7, Location: "Seattle", Temperature: 13,
		Condition: weather.Rainy})
	l.GlobalMin(1.5)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries but got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["location"] != "Seattle" || fields["condition"] != "Rainy" || fields["rank"] != int64(2) {
		t.Errorf("unexpected fields: %v", fields)
	}
}

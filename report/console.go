package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/unixpickle/weather-reduce/weather"
)

// Console writes the classic plain-text forecast lines to
// a writer, optionally coloring each condition.
type Console struct {
	lock   sync.Mutex
	w      io.Writer
	colors map[weather.Condition]*color.Color
	bold   *color.Color
}

// NewConsole creates a Console that writes to w.
func NewConsole(w io.Writer, useColor bool) *Console {
	c := &Console{
		w: w,
		colors: map[weather.Condition]*color.Color{
			weather.Sunny:        color.New(color.FgYellow),
			weather.PartlyCloudy: color.New(color.FgCyan),
			weather.Rainy:        color.New(color.FgBlue),
		},
		bold: color.New(color.Bold),
	}
	for _, col := range append([]*color.Color{c.bold}, c.colorList()...) {
		if useColor {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Banner() {
	c.line(c.bold, "Weather Forecasting using collective reductions\n")
}

func (c *Console) Observation(rank int, obs weather.Observation) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.w, "Process %d forecasted ", rank)
	c.colors[obs.Condition].Fprint(c.w, obs.Condition.String())
	fmt.Fprintf(c.w, " weather for location %s: %.2f°C\n", obs.Location, obs.Temperature)
}

func (c *Console) WorkerAverage(rank int, average float64) {
	c.line(nil, "Process %d average temperature for its locations: %.2f°C\n", rank, average)
}

func (c *Console) WorkerVariance(rank int, variance float64) {
	c.line(nil, "Process %d variance of temperatures for its locations: %.2f\n", rank, variance)
}

func (c *Console) GlobalAverage(average float64) {
	c.line(c.bold, "Global average temperature across all processes: %.2f°C\n", average)
}

func (c *Console) GlobalMax(max float64) {
	c.line(c.bold, "Maximum temperature across all locations and processes: %.2f°C\n", max)
}

func (c *Console) GlobalMin(min float64) {
	c.line(c.bold, "Minimum temperature across all locations and processes: %.2f°C\n", min)
}

func (c *Console) GlobalVariance(variance float64) {
	c.line(c.bold, "Global variance of temperatures across all processes: %.2f\n", variance)
}

func (c *Console) line(col *color.Color, format string, args ...interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if col == nil {
		fmt.Fprintf(c.w, format, args...)
	} else {
		col.Fprintf(c.w, format, args...)
	}
}

func (c *Console) colorList() []*color.Color {
	res := make([]*color.Color, 0, len(c.colors))
	for _, col := range c.colors {
		res = append(res, col)
	}
	return res
}

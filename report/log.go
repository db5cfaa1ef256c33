package report

import (
	"go.uber.org/zap"

	"github.com/unixpickle/weather-reduce/weather"
)

// Log emits the forecast as structured log records.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Banner() {
	l.Logger.Info("forecast started")
}

func (l Log) Observation(rank int, obs weather.Observation) {
	l.Logger.Info("observation",
		zap.Int("rank", rank),
		zap.Int("index", obs.Index),
		zap.String("location", obs.Location),
		zap.Float64("temperature", obs.Temperature),
		zap.Stringer("condition", obs.Condition))
}

func (l Log) WorkerAverage(rank int, average float64) {
	l.Logger.Info("worker average", zap.Int("rank", rank), zap.Float64("average", average))
}

func (l Log) WorkerVariance(rank int, variance float64) {
	l.Logger.Info("worker variance", zap.Int("rank", rank), zap.Float64("variance", variance))
}

func (l Log) GlobalAverage(average float64) {
	l.Logger.Info("global average", zap.Float64("average", average))
}

func (l Log) GlobalMax(max float64) {
	l.Logger.Info("global max", zap.Float64("max", max))
}

func (l Log) GlobalMin(min float64) {
	l.Logger.Info("global min", zap.Float64("min", min))
}

func (l Log) GlobalVariance(variance float64) {
	l.Logger.Info("global variance", zap.Float64("variance", variance))
}

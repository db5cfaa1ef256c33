package weather

// Condition is a coarse description of the weather at a
// location, derived from its temperature.
type Condition int

const (
	Rainy Condition = iota
	PartlyCloudy
	Sunny
)

const (
	sunnyAbove        = 30.0
	partlyCloudyAbove = 20.0
)

// Classify maps a temperature in °C to a Condition.
//
// Both thresholds are strict: exactly 30 is Partly Cloudy
// and exactly 20 is Rainy.
func Classify(temperature float64) Condition {
	if temperature > sunnyAbove {
		return Sunny
	} else if temperature > partlyCloudyAbove {
		return PartlyCloudy
	}
	return Rainy
}

// String returns the human-readable condition name.
func (c Condition) String() string {
	switch c {
	case Sunny:
		return "Sunny"
	case PartlyCloudy:
		return "Partly Cloudy"
	case Rainy:
		return "Rainy"
	}
	return "Unknown"
}

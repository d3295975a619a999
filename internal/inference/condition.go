package inference

// Condition is the qualitative weather label derived from a temperature.
type Condition string

const (
	Sunny        Condition = "Sunny"
	PartlyCloudy Condition = "Partly Cloudy"
	Rain         Condition = "Rain"
)

// Thresholds in degrees Celsius. Both comparisons are strict, so exactly
// 32 is PartlyCloudy and exactly 28 is Rain.
const (
	sunnyAbove        = 32.0
	partlyCloudyAbove = 28.0
)

// ClassifyCondition maps a temperature to a Condition.
func ClassifyCondition(temperature float64) Condition {
	switch {
	case temperature > sunnyAbove:
		return Sunny
	case temperature > partlyCloudyAbove:
		return PartlyCloudy
	default:
		return Rain
	}
}

package loadtest

import "fmt"

// Comparator defines how to compare an observed metric against a threshold.
type Comparator string

const (
	ComparatorLessThan       Comparator = "<"
	ComparatorLessOrEqual    Comparator = "<="
	ComparatorGreaterThan    Comparator = ">"
	ComparatorGreaterOrEqual Comparator = ">="
)

// Valid reports whether c is one of the four known operators.
func (c Comparator) Valid() bool {
	switch c {
	case ComparatorLessThan, ComparatorLessOrEqual, ComparatorGreaterThan, ComparatorGreaterOrEqual:
		return true
	}
	return false
}

// Compare checks if actual meets target based on the comparator. Unknown
// comparators never pass.
func (c Comparator) Compare(actual, target float64) bool {
	switch c {
	case ComparatorLessThan:
		return actual < target
	case ComparatorLessOrEqual:
		return actual <= target
	case ComparatorGreaterThan:
		return actual > target
	case ComparatorGreaterOrEqual:
		return actual >= target
	default:
		return false
	}
}

// Check is a pass/fail criterion attached to a scenario.
type Check struct {
	Metric      string     `json:"metric" yaml:"metric"`
	Operator    Comparator `json:"operator" yaml:"operator"`
	Threshold   float64    `json:"threshold" yaml:"threshold"`
	Description string     `json:"description" yaml:"description"`
}

// Evaluate applies the check to an observed value.
func (c Check) Evaluate(actual float64) bool {
	return c.Operator.Compare(actual, c.Threshold)
}

func (c Check) String() string {
	return fmt.Sprintf("%s %s %g", c.Metric, c.Operator, c.Threshold)
}

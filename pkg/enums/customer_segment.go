package enums

import "fmt"

// CustomerSegment represents the buyer classification recorded on each sale.
type CustomerSegment string

const (
	CustomerSegmentIndividual CustomerSegment = "individual"
	CustomerSegmentFleet      CustomerSegment = "fleet"
	CustomerSegmentDealer     CustomerSegment = "dealer"
)

var validCustomerSegments = []CustomerSegment{
	CustomerSegmentIndividual,
	CustomerSegmentFleet,
	CustomerSegmentDealer,
}

// String implements fmt.Stringer.
func (s CustomerSegment) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CustomerSegment.
func (s CustomerSegment) IsValid() bool {
	for _, candidate := range validCustomerSegments {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCustomerSegment converts raw input into a CustomerSegment.
func ParseCustomerSegment(value string) (CustomerSegment, error) {
	for _, candidate := range validCustomerSegments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer segment %q", value)
}

// CustomerSegments returns all recognized segments.
func CustomerSegments() []CustomerSegment {
	out := make([]CustomerSegment, len(validCustomerSegments))
	copy(out, validCustomerSegments)
	return out
}

package enums

import "fmt"

// QualityStatus records the quality verdict for a delivered line item.
type QualityStatus string

const (
	QualityStatusPending  QualityStatus = "pending"
	QualityStatusAccepted QualityStatus = "accepted"
	QualityStatusRejected QualityStatus = "rejected"
)

var validQualityStatuses = []QualityStatus{
	QualityStatusPending,
	QualityStatusAccepted,
	QualityStatusRejected,
}

// String implements fmt.Stringer.
func (q QualityStatus) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QualityStatus.
func (q QualityStatus) IsValid() bool {
	for _, candidate := range validQualityStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQualityStatus converts raw input into a QualityStatus.
func ParseQualityStatus(value string) (QualityStatus, error) {
	for _, candidate := range validQualityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quality status %q", value)
}

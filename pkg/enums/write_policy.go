package enums

import (
	"fmt"
	"strings"
)

// WritePolicy selects how a tier write treats the variant's existing prices.
type WritePolicy string

const (
	// WritePolicyReplaceByShape replaces only tiers whose currency and bounds
	// match one of the written bands.
	WritePolicyReplaceByShape WritePolicy = "replace_by_shape"
	// WritePolicyReplaceAll drops every tier of the variant before writing.
	WritePolicyReplaceAll WritePolicy = "replace_all"
)

var validWritePolicies = []WritePolicy{
	WritePolicyReplaceByShape,
	WritePolicyReplaceAll,
}

// String implements fmt.Stringer.
func (p WritePolicy) String() string {
	return string(p)
}

// IsValid reports whether the policy is recognized.
func (p WritePolicy) IsValid() bool {
	for _, candidate := range validWritePolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseWritePolicy converts a raw string into a WritePolicy. Empty input
// yields the replace-by-shape default.
func ParseWritePolicy(value string) (WritePolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return WritePolicyReplaceByShape, nil
	}
	for _, candidate := range validWritePolicies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid write policy %q", value)
}

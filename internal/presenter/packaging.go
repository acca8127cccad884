package presenter

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// PackagingOption converts a pack count into pieces.
type PackagingOption struct {
	Label      string `json:"label"`
	Multiplier int    `json:"multiplier"`
}

// ParsePackagingOptions reads a packaging_options metadata value. It accepts a
// JSON string holding an array or an already decoded array. Elements are
// {label, multiplier} objects or bare strings, which count as multiplier 1.
// Malformed input yields no options; malformed elements are skipped.
func ParsePackagingOptions(raw any) []PackagingOption {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &items); err != nil {
			return nil
		}
	case []any:
		items = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		if err := json.Unmarshal(encoded, &items); err != nil {
			return nil
		}
	}

	out := make([]PackagingOption, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		opt, ok := parseOption(item)
		if !ok {
			continue
		}
		if _, dup := seen[opt.Label]; dup {
			continue
		}
		seen[opt.Label] = struct{}{}
		out = append(out, opt)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseOption(item any) (PackagingOption, bool) {
	switch v := item.(type) {
	case string:
		label := strings.TrimSpace(v)
		if label == "" {
			return PackagingOption{}, false
		}
		return PackagingOption{Label: label, Multiplier: 1}, true
	case map[string]any:
		label, _ := v["label"].(string)
		label = strings.TrimSpace(label)
		if label == "" {
			return PackagingOption{}, false
		}
		multiplier, ok := parseMultiplier(v["multiplier"])
		if !ok {
			return PackagingOption{}, false
		}
		return PackagingOption{Label: label, Multiplier: multiplier}, true
	}
	return PackagingOption{}, false
}

func parseMultiplier(raw any) (int, bool) {
	switch v := raw.(type) {
	case nil:
		return 1, true
	case float64:
		if v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// DiscoverPackaging looks for packaging options on the variant, then the
// product, then the first sibling variant that declares any.
func DiscoverPackaging(variant, product types.Metadata, siblings []types.Metadata) []PackagingOption {
	if opts := ParsePackagingOptions(variant.Value(types.PackagingOptionsKey)); len(opts) > 0 {
		return opts
	}
	if opts := ParsePackagingOptions(product.Value(types.PackagingOptionsKey)); len(opts) > 0 {
		return opts
	}
	for _, sibling := range siblings {
		if opts := ParsePackagingOptions(sibling.Value(types.PackagingOptionsKey)); len(opts) > 0 {
			return opts
		}
	}
	return nil
}

package enums

// PriceSource records where a displayed or charged unit price came from.
type PriceSource string

const (
	PriceSourceTier    PriceSource = "tier"
	PriceSourceCatalog PriceSource = "catalog"
	PriceSourceNone    PriceSource = "none"
)

// String implements fmt.Stringer.
func (s PriceSource) String() string {
	return string(s)
}

package catalog

import (
	"github.com/shopspring/decimal"
)

// Money amounts travel between platforms as strings, and the tax split
// differs per platform: storefronts quote gross, the marketplace hubs quote
// netto/brutto pairs. These helpers do the conversions in exact decimal
// arithmetic so a product does not drift by a grosz per sync hop.

// NormalizePrice parses a platform price string and re-renders it with two
// fraction digits. Unparseable or empty input yields "0.00".
func NormalizePrice(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

// GrossFromNet adds tax to a net amount. The rate is a percentage string
// such as "23". Unparseable input falls back to the net amount.
func GrossFromNet(net, taxRate string) string {
	n, err := decimal.NewFromString(net)
	if err != nil {
		return NormalizePrice(net)
	}
	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		return n.StringFixed(2)
	}
	factor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
	return n.Mul(factor).Round(2).StringFixed(2)
}

// NetFromGross strips tax from a gross amount. The rate is a percentage
// string such as "23". Unparseable input falls back to the gross amount.
func NetFromGross(gross, taxRate string) string {
	g, err := decimal.NewFromString(gross)
	if err != nil {
		return NormalizePrice(gross)
	}
	rate, err := decimal.NewFromString(taxRate)
	if err != nil || rate.IsNegative() {
		return g.StringFixed(2)
	}
	factor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
	if factor.IsZero() {
		return g.StringFixed(2)
	}
	return g.Div(factor).Round(2).StringFixed(2)
}

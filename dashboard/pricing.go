package dashboard

import (
	"fmt"
	"math"
	"strings"
)

// Currency converts from the INR list prices.
type Currency struct {
	Code   string
	Symbol string
	Rate   float64
}

var Currencies = []Currency{
	{Code: "INR", Symbol: "₹", Rate: 1},
	{Code: "USD", Symbol: "$", Rate: 0.012},
	{Code: "EUR", Symbol: "€", Rate: 0.011},
	{Code: "GBP", Symbol: "£", Rate: 0.0096},
}

// MessageTier is one selectable monthly message allowance.
type MessageTier struct {
	Messages int
	Price    int
}

// Plan is a subscription tier. Customizable plans are priced by the
// selected MessageTier, the others by BasePrice.
type Plan struct {
	Name         string
	BasePrice    int
	Customizable bool
	Messages     []MessageTier
}

var Plans = []Plan{
	{Name: "Starter", BasePrice: 1299},
	{
		Name:         "Growth",
		BasePrice:    2499,
		Customizable: true,
		Messages: []MessageTier{
			{Messages: 2000, Price: 2499},
			{Messages: 5000, Price: 2999},
			{Messages: 10000, Price: 4999},
			{Messages: 15000, Price: 7999},
		},
	},
	{
		Name:         "Professional",
		BasePrice:    2999,
		Customizable: true,
		Messages: []MessageTier{
			{Messages: 2000, Price: 2999},
			{Messages: 5000, Price: 3499},
			{Messages: 10000, Price: 5999},
			{Messages: 15000, Price: 9999},
		},
	},
}

// Quote is the price of a plan in a currency, in major units.
type Quote struct {
	Plan     string
	Messages int
	Currency Currency
	Price    int64
}

// LookupCurrency finds a currency by code, case insensitive.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range Currencies {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}

// LookupPlan finds a plan by name, case insensitive.
func LookupPlan(name string) (Plan, bool) {
	for _, p := range Plans {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Plan{}, false
}

// PriceQuote prices plan at the given message allowance. Zero messages picks
// the smallest allowance. Fixed plans ignore messages and include 2,000.
func PriceQuote(plan, currency string, messages int) (Quote, error) {
	p, ok := LookupPlan(plan)
	if !ok {
		return Quote{}, fmt.Errorf("unknown plan %q", plan)
	}
	cur, ok := LookupCurrency(currency)
	if !ok {
		return Quote{}, fmt.Errorf("unknown currency %q", currency)
	}

	base := p.BasePrice
	allowance := 2000
	if p.Customizable {
		tier := p.Messages[0]
		if messages > 0 {
			found := false
			for _, t := range p.Messages {
				if t.Messages == messages {
					tier, found = t, true
					break
				}
			}
			if !found {
				return Quote{}, fmt.Errorf("plan %s has no %d message tier", p.Name, messages)
			}
		}
		base = tier.Price
		allowance = tier.Messages
	}

	return Quote{
		Plan:     p.Name,
		Messages: allowance,
		Currency: cur,
		Price:    int64(math.Round(float64(base) * cur.Rate)),
	}, nil
}

package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-sql/civil"
	"github.com/relloyd/hotelpipe/constants"
)

// Natural keys are comparable value types. Build them with the New* constructors only, so that the
// dimension builder and the key mapper apply the same normalization.

// HotelKey identifies a dim_hotels row.
type HotelKey struct {
	Name                string
	MarketSegment       string
	DistributionChannel string
}

func NewHotelKey(name, marketSegment, distributionChannel string) HotelKey {
	return HotelKey{
		Name:                strings.TrimSpace(name),
		MarketSegment:       strings.TrimSpace(marketSegment),
		DistributionChannel: strings.TrimSpace(distributionChannel),
	}
}

func (k HotelKey) String() string {
	return fmt.Sprintf("(%v, %v, %v)", k.Name, k.MarketSegment, k.DistributionChannel)
}

// DateKey identifies a dim_dates row by calendar day.
type DateKey struct {
	Date civil.Date
}

func NewDateKey(d civil.Date) DateKey {
	return DateKey{Date: d}
}

func (k DateKey) String() string {
	return k.Date.String()
}

// CustomerKey identifies a dim_customers row.
type CustomerKey struct {
	Adults       int
	Children     int
	Babies       int
	CustomerType string
	Country      string
}

func NewCustomerKey(adults, children, babies int, customerType, country string) CustomerKey {
	return CustomerKey{
		Adults:       adults,
		Children:     children,
		Babies:       babies,
		CustomerType: strings.TrimSpace(customerType),
		Country:      strings.TrimSpace(country),
	}
}

func (k CustomerKey) String() string {
	return fmt.Sprintf("(%d, %d, %d, %v, %v)", k.Adults, k.Children, k.Babies, k.CustomerType, k.Country)
}

// AgentKey identifies a dim_agents row by its normalized name.
type AgentKey struct {
	Name string
}

// NewAgentKey renders the agent number as a decimal string, or the Unknown sentinel when absent.
func NewAgentKey(agent NullInt) AgentKey {
	if !agent.Valid {
		return AgentKey{Name: constants.UnknownSentinel}
	}
	return AgentKey{Name: strconv.Itoa(agent.Int)}
}

// AgentKeyFromName normalizes an agent_name read back from a store.
// Integral numeric text such as "9.0" becomes "9"; blank becomes the Unknown sentinel.
func AgentKeyFromName(name string) AgentKey {
	name = strings.TrimSpace(name)
	if name == "" {
		return AgentKey{Name: constants.UnknownSentinel}
	}
	if f, err := strconv.ParseFloat(name, 64); err == nil && f == float64(int64(f)) {
		return AgentKey{Name: strconv.FormatInt(int64(f), 10)}
	}
	return AgentKey{Name: name}
}

// IsUnknown reports whether the key is the sentinel used for absent agents.
func (k AgentKey) IsUnknown() bool {
	return k.Name == constants.UnknownSentinel
}

func (k AgentKey) String() string {
	return k.Name
}

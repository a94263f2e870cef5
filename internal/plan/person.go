package plan

import (
	"time"

	"github.com/rotisserie/eris"
)

// Region is a UK tax jurisdiction. Only England is fully modelled;
// Scottish bands are an extension point in the rate tables.
type Region int

const (
	RegionEngland Region = iota
	RegionScotland
	RegionWales
	RegionNorthernIreland
)

func (r Region) String() string {
	switch r {
	case RegionEngland:
		return "england"
	case RegionScotland:
		return "scotland"
	case RegionWales:
		return "wales"
	case RegionNorthernIreland:
		return "northern_ireland"
	default:
		return "unknown"
	}
}

// ParseRegion maps a config string to a Region.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "", "england":
		return RegionEngland, nil
	case "scotland":
		return RegionScotland, nil
	case "wales":
		return RegionWales, nil
	case "northern_ireland":
		return RegionNorthernIreland, nil
	default:
		return RegionEngland, eris.Errorf("plan: unknown tax region %q", s)
	}
}

// Person is an immutable household member referenced by accounts,
// pensions and incomes.
type Person struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	Region          Region    `json:"region"`
	InDrawdown      bool      `json:"in_drawdown"`
	Blind           bool      `json:"blind"`
	StatePensionAge int       `json:"state_pension_age"`
}

// AgeAt returns the person's age in whole years on the given date.
func (p *Person) AgeAt(d time.Time) int {
	return WholeYearsBetween(p.DateOfBirth, d)
}

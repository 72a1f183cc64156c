package vrc

import "fmt"

// Region is where VRChat hosts a world instance.
// The zero value is RegionOther.
type Region uint8

const (
	RegionOther Region = iota
	RegionUSWest
	RegionUS
	RegionUSEast
	RegionEurope
	RegionJapan
)

var regionNames = [...]string{
	RegionOther:  "other",
	RegionUSWest: "uswest",
	RegionUS:     "us",
	RegionUSEast: "useast",
	RegionEurope: "europe",
	RegionJapan:  "japan",
}

// regionTokens maps case-folded tokens, including the short forms VRChat
// and VRCX have used over time, to their region.
var regionTokens = map[string]Region{
	"other": RegionOther,

	"uswest": RegionUSWest,
	"usw":    RegionUSWest,
	"us w":   RegionUSWest,
	"us_w":   RegionUSWest,
	"uw":     RegionUSWest,

	"us": RegionUS,

	"useast": RegionUSEast,
	"use":    RegionUSEast,
	"us e":   RegionUSEast,
	"us_e":   RegionUSEast,
	"ue":     RegionUSEast,

	"europe": RegionEurope,
	"eu":     RegionEurope,

	"japan": RegionJapan,
	"jp":    RegionJapan,
}

// NormalizeRegion maps token to a Region, ignoring case.
// An unknown token yields RegionOther and an *UnrecognizedTokenError.
func NormalizeRegion(token string) (Region, error) {
	return lookup(KindRegion, regionTokens, RegionOther, token)
}

// Regions returns every region in declaration order.
func Regions() []Region {
	return []Region{RegionOther, RegionUSWest, RegionUS, RegionUSEast, RegionEurope, RegionJapan}
}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return fmt.Sprintf("Region(%d)", uint8(r))
}

func (r Region) MarshalText() ([]byte, error) {
	if int(r) >= len(regionNames) {
		return nil, fmt.Errorf("invalid region %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText is strict: unknown tokens are an error.
func (r *Region) UnmarshalText(text []byte) error {
	v, err := NormalizeRegion(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

package domain

import "strings"

// LaneRole represents the lane a champion's statistics were gathered for
type LaneRole string

const (
	LaneTop     LaneRole = "Top"
	LaneJungle  LaneRole = "Jungle"
	LaneMid     LaneRole = "Mid"
	LaneAdc     LaneRole = "Adc"
	LaneSupport LaneRole = "Support"
	LaneUnknown LaneRole = "Unknown"
)

// String returns the string representation of the role
func (r LaneRole) String() string {
	return string(r)
}

// DisplayName returns a user-friendly display name for the role
func (r LaneRole) DisplayName() string {
	switch r {
	case LaneAdc:
		return "ADC"
	case LaneUnknown, "":
		return "-"
	default:
		return string(r)
	}
}

// ParseLaneRole maps the position names used by stats providers
// (TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY, ...) to a LaneRole.
func ParseLaneRole(s string) LaneRole {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TOP":
		return LaneTop
	case "JUNGLE", "JGL":
		return LaneJungle
	case "MID", "MIDDLE":
		return LaneMid
	case "ADC", "BOTTOM", "BOT", "CARRY":
		return LaneAdc
	case "SUPPORT", "UTILITY", "SUP":
		return LaneSupport
	default:
		return LaneUnknown
	}
}

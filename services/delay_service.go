package services

import (
	"strconv"
	"strings"
	"time"
)

// Transit delay tiers. The delay is a coarse heuristic on how far apart
// two countries are, not a distance computation.
const (
	DelaySameCountry = 30 * time.Minute
	DelaySameRegion  = 6 * time.Hour
	DelayLongHaul    = 24 * time.Hour
)

// Human-readable estimates shown next to an in-transit letter.
const (
	EstimateSameCountry = "about 30 minutes"
	EstimateSameRegion  = "about 6 hours"
	EstimateLongHaul    = "about a day"
)

// countryRegions classifies countries into broad regions. Pairs within
// the same region get the mid tier; anything unrecognized falls through
// to the long-haul tier so transit is never under-estimated.
var countryRegions = map[string]string{
	// Asia
	"japan":       "asia",
	"china":       "asia",
	"south korea": "asia",
	"taiwan":      "asia",
	"india":       "asia",
	"indonesia":   "asia",
	"thailand":    "asia",
	"vietnam":     "asia",
	"philippines": "asia",
	"malaysia":    "asia",
	"singapore":   "asia",

	// Europe
	"france":         "europe",
	"germany":        "europe",
	"italy":          "europe",
	"spain":          "europe",
	"portugal":       "europe",
	"netherlands":    "europe",
	"belgium":        "europe",
	"austria":        "europe",
	"switzerland":    "europe",
	"poland":         "europe",
	"czech republic": "europe",
	"sweden":         "europe",
	"norway":         "europe",
	"denmark":        "europe",
	"finland":        "europe",
	"ireland":        "europe",
	"united kingdom": "europe",
	"greece":         "europe",
	"ukraine":        "europe",
	"romania":        "europe",
	"hungary":        "europe",

	// North America
	"united states": "north_america",
	"canada":        "north_america",
	"mexico":        "north_america",

	// South America
	"brazil":    "south_america",
	"argentina": "south_america",
	"chile":     "south_america",
	"colombia":  "south_america",
	"peru":      "south_america",
	"uruguay":   "south_america",

	// Africa
	"south africa": "africa",
	"egypt":        "africa",
	"nigeria":      "africa",
	"kenya":        "africa",
	"morocco":      "africa",
	"ghana":        "africa",

	// Middle East
	"turkey":               "middle_east",
	"israel":               "middle_east",
	"saudi arabia":         "middle_east",
	"united arab emirates": "middle_east",
	"jordan":               "middle_east",

	// Oceania
	"australia":   "oceania",
	"new zealand": "oceania",
	"fiji":        "oceania",
}

// DelayService computes simulated transit delays. Pure and deterministic:
// the same inputs always produce the same delay, so tests can assert exact
// scheduled timestamps.
type DelayService struct{}

// Estimate returns the transit delay and a human-readable description for
// a letter between two countries. A non-zero override is used verbatim.
func (DelayService) Estimate(senderCountry, recipientCountry string, override time.Duration) (time.Duration, string) {
	if override > 0 {
		return override, humanDuration(override)
	}

	sender := normalizeCountry(senderCountry)
	recipient := normalizeCountry(recipientCountry)

	if sender != "" && sender == recipient {
		return DelaySameCountry, EstimateSameCountry
	}

	senderRegion, senderKnown := countryRegions[sender]
	recipientRegion, recipientKnown := countryRegions[recipient]
	if senderKnown && recipientKnown && senderRegion == recipientRegion {
		return DelaySameRegion, EstimateSameRegion
	}

	return DelayLongHaul, EstimateLongHaul
}

func normalizeCountry(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

func humanDuration(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "about " + pluralize(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return "about " + pluralize(int(d.Hours()), "hour")
	case d < 48*time.Hour:
		return "about a day"
	default:
		return "about " + pluralize(int(d.Hours()/24), "day")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

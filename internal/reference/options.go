// Package reference holds the static picklists of the declaration form and a
// loader for the dynamic picklists served by the health registry.
package reference

// Option is one labeled choice in a picklist.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Sexes lists the accepted sex codes.
var Sexes = []Option{
	{Label: "Female", Value: "FEMALE"},
	{Label: "Male", Value: "MALE"},
	{Label: "Other", Value: "OTHER"},
}

// Purposes lists the accepted travel purpose codes.
var Purposes = []Option{
	{Label: "Tourism", Value: "TOURISM"},
	{Label: "Business", Value: "BUSINESS"},
	{Label: "Visiting Family/Friends", Value: "VISITING_FAMILY_FRIENDS"},
	{Label: "Resident", Value: "RESIDENT"},
	{Label: "Transit < 8h", Value: "TRANSIT_LT_8H"},
	{Label: "Layover > 8h", Value: "LAYOVER_GT_8H"},
	{Label: "Medical", Value: "MEDICAL"},
	{Label: "Education", Value: "EDUCATION"},
	{Label: "Official/Diplomatic", Value: "OFFICIAL_DIPLOMATIC"},
	{Label: "Religious/Pilgrimage", Value: "RELIGIOUS_PILGRIMAGE"},
	{Label: "Other", Value: "OTHER"},
}

// AirlineOther is the sentinel code for airlines not in the picklist.
const AirlineOther = "OTHER"

// Airlines lists carriers serving Bole International Airport by IATA code.
var Airlines = []Option{
	{Label: "Air Arabia", Value: "G9"},
	{Label: "Air Austral", Value: "UU"},
	{Label: "Air Botswana", Value: "BP"},
	{Label: "Air Canada", Value: "AC"},
	{Label: "Air China", Value: "CA"},
	{Label: "Air France", Value: "AF"},
	{Label: "Air India", Value: "AI"},
	{Label: "Air Algerie", Value: "AH"},
	{Label: "Aegean Airlines", Value: "A3"},
	{Label: "Alaska Airlines", Value: "AS"},
	{Label: "American Airlines", Value: "AA"},
	{Label: "ASKY Airlines", Value: "KP"},
	{Label: "Badr Airlines", Value: "J4"},
	{Label: "British Airways", Value: "BA"},
	{Label: "China Eastern Airlines", Value: "MU"},
	{Label: "China Southern Airlines", Value: "CZ"},
	{Label: "Delta Air Lines", Value: "DL"},
	{Label: "EgyptAir", Value: "MS"},
	{Label: "Emirates", Value: "EK"},
	{Label: "Ethiopian Airlines", Value: "ET"},
	{Label: "Flydubai", Value: "FZ"},
	{Label: "Flynas", Value: "XY"},
	{Label: "Gulf Air", Value: "GF"},
	{Label: "Iberia", Value: "IB"},
	{Label: "IndiGo", Value: "6E"},
	{Label: "ITA Airways", Value: "AZ"},
	{Label: "Japan Airlines", Value: "JL"},
	{Label: "Jazeera Airways", Value: "J9"},
	{Label: "JetBlue Airways", Value: "B6"},
	{Label: "Kenya Airways", Value: "KQ"},
	{Label: "KLM", Value: "KL"},
	{Label: "Korean Air", Value: "KE"},
	{Label: "Kuwait Airways", Value: "KU"},
	{Label: "LATAM Airlines Group SA", Value: "LA"},
	{Label: "Lufthansa", Value: "LH"},
	{Label: "National Airways Ethiopia", Value: "9Y"},
	{Label: "Pakistan International Airlines", Value: "PK"},
	{Label: "Qantas", Value: "QF"},
	{Label: "Qatar Airways", Value: "QR"},
	{Label: "Saudia", Value: "SV"},
	{Label: "Shenzhen Airlines", Value: "ZH"},
	{Label: "Singapore Airlines", Value: "SQ"},
	{Label: "SriLankan Airlines", Value: "UL"},
	{Label: "Turkish Airlines", Value: "TK"},
	{Label: "Other", Value: AirlineOther},
}

// KnownAirline reports whether code is a carrier in the picklist.
// The OTHER sentinel does not count as a known carrier.
func KnownAirline(code string) bool {
	if code == AirlineOther {
		return false
	}
	for _, a := range Airlines {
		if a.Value == code {
			return true
		}
	}
	return false
}

// ValidOption reports whether value appears in the given picklist.
func ValidOption(list []Option, value string) bool {
	for _, o := range list {
		if o.Value == value {
			return true
		}
	}
	return false
}

// CountryByLabel returns the ISO code for a country name, if known.
func CountryByLabel(label string) (string, bool) {
	for _, c := range Countries {
		if c.Label == label {
			return c.Value, true
		}
	}
	return "", false
}

// CountryByCode reports whether code is a known ISO country code.
func CountryByCode(code string) bool {
	for _, c := range Countries {
		if c.Value == code {
			return true
		}
	}
	return false
}

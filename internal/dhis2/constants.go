package dhis2

// Identifiers of the traveler declaration program on the health registry.
// These are fixed per deployment and match the staging EPHI instance.
const (
	ProgramID           = "pam2gg32GIX"
	TravelStageID       = "ECqXBCJdIJW"
	ClinicalStageID     = "nqE0Yrh0XvW"
	OrgUnitID           = "P9dOOh865eF" // Bole International Airport
	TrackedEntityTypeID = "NfwwxcCXeKS"
)

// Tracked entity attribute identifiers.
const (
	AttrFirstName   = "ur1JM6CZeSb"
	AttrMiddleName  = "wS7QQnuWCtc"
	AttrLastName    = "vUacdogzWI6"
	AttrDateOfBirth = "Rv8WM2mTuS5"
	AttrSex         = "S0laL1aHf6i"
	AttrPhone       = "Vr0lFuBkaaV"
	AttrNationality = "GWQC1qQdw8Y"
	AttrPassport    = "kDWurLVuVZw"
)

// Travel stage data element identifiers.
const (
	ElemAirlineAndFlight = "dP5GhQYdMMf"
	ElemPurpose          = "BXGTya98TLD"
	ElemAirline          = "EvJTARXbuPj"
	ElemOtherAirline     = "ozBn9o48C7F"
	ElemFlightNumber     = "R775EQee9sB"
	ElemSeatNumber       = "Q20Pk08bg5U"
	ElemDepartureCountry = "BoQdGhFv7te"
	ElemDepartureCity    = "ebDNzAopp9K"
)

// VisitedCountryElems holds the travel stage slots for countries visited in
// the last 21 days, in assignment order.
var VisitedCountryElems = [5]string{
	"AXpyzUwlcxY",
	"g4la792LVkV",
	"k9KUAc7EUvk",
	"f5H0rOaVBzu",
	"aUfY6AbcnH0",
}

// ElemClassification is the health status flag on the clinical stage. It is
// written server side by program rules and never sent in an upsert.
const ElemClassification = "cGSuTAbYhkM"

// RiskCountryOptionGroupID is the option group listing countries that
// trigger enhanced screening.
const RiskCountryOptionGroupID = "m0EgeLz1Jzc"

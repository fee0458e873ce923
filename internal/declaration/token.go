package declaration

import (
	"encoding/json"
	"net/url"
	"strings"

	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

// Declaration tokens join the three identifiers a verification or edit needs.
// Registry identifiers never contain dashes, so a dash join is unambiguous.

const tokenSeparator = "-"

// Token is a parsed declaration token.
type Token struct {
	TrackedEntity string
	Enrollment    string
	ClinicalEvent string
}

// EncodeToken builds the printable declaration token.
func EncodeToken(trackedEntity, enrollment, clinicalEvent string) string {
	return trackedEntity + tokenSeparator + enrollment + tokenSeparator + clinicalEvent
}

// DecodeToken parses a declaration token back into its identifiers.
func DecodeToken(raw string) (Token, error) {
	parts := strings.Split(strings.TrimSpace(raw), tokenSeparator)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Token{}, dErrors.New(dErrors.CodeValidation, "malformed declaration token")
	}
	return Token{
		TrackedEntity: parts[0],
		Enrollment:    parts[1],
		ClinicalEvent: parts[2],
	}, nil
}

// qrEndpoint renders the declaration receipt as a scannable image.
const qrEndpoint = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="

// qrPayload is the JSON embedded in the receipt QR code. Border officers scan
// it offline, so it carries just enough identity to match a passport.
type qrPayload struct {
	Token          string `json:"token"`
	Classification string `json:"classification"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Passport       string `json:"passport"`
	MiddleName     string `json:"middleName,omitempty"`
}

// QRCodeURL builds the image URL for a submission receipt.
func QRCodeURL(token, classification string, p Personal) string {
	payload := qrPayload{
		Token:          token,
		Classification: classification,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Passport:       p.Passport,
		MiddleName:     p.MiddleName,
	}
	data, _ := json.Marshal(payload) //nolint:errcheck
	return qrEndpoint + url.QueryEscape(string(data))
}

package e2e

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the declaration service is running$`, tc.serviceIsRunning)

	// Wizard steps
	ctx.Step(`^I start a new declaration$`, tc.startDeclaration)
	ctx.Step(`^I submit personal details:$`, tc.submitPersonalDetails)
	ctx.Step(`^I submit travel details:$`, tc.submitTravelDetails)
	ctx.Step(`^I answer the clinical questions:$`, tc.answerClinicalQuestions)
	ctx.Step(`^I go back one step$`, tc.goBackOneStep)
	ctx.Step(`^I cancel the declaration$`, tc.cancelDeclaration)
	ctx.Step(`^I fetch the declaration session$`, tc.fetchDeclarationSession)
	ctx.Step(`^I submit the declaration$`, tc.submitDeclaration)
	ctx.Step(`^I submit the declaration without consent$`, tc.submitDeclarationWithoutConsent)
	ctx.Step(`^I save the declaration token$`, tc.saveDeclarationToken)

	// Edit and verification steps
	ctx.Step(`^I look up the saved declaration token$`, tc.lookupSavedToken)
	ctx.Step(`^I look up the token "([^"]*)"$`, tc.lookupToken)
	ctx.Step(`^I look up the passport "([^"]*)"$`, tc.lookupPassport)
	ctx.Step(`^I verify last name "([^"]*)" with passport "([^"]*)"$`, tc.verifyTraveler)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the session step should be "([^"]*)"$`, tc.sessionStepShouldBe)
	ctx.Step(`^the field "([^"]*)" should have a validation message$`, tc.fieldShouldHaveValidationMessage)
	ctx.Step(`^the declaration classification should be "([^"]*)"$`, tc.classificationShouldBe)
	ctx.Step(`^the verification classification should be "([^"]*)"$`, tc.verificationClassificationShouldBe)
	ctx.Step(`^the receipt should include a QR code link$`, tc.receiptIncludesQRLink)
}

func (tc *TestContext) serviceIsRunning() error {
	if err := tc.GET("/health/live"); err != nil {
		return fmt.Errorf("declaration service is not reachable: %w", err)
	}
	if tc.GetLastResponseStatus() != 200 {
		return fmt.Errorf("expected healthy service, got status %d", tc.GetLastResponseStatus())
	}
	return nil
}

func (tc *TestContext) startDeclaration() error {
	if err := tc.POST("/api/declarations", nil); err != nil {
		return err
	}
	if tc.GetLastResponseStatus() != 201 {
		return fmt.Errorf("expected 201, got %d: %s", tc.GetLastResponseStatus(), tc.LastResponseBody)
	}
	id, err := tc.GetResponseField("id")
	if err != nil {
		return err
	}
	tc.SessionID = id.(string)
	return nil
}

// tableToMap flattens a two-column table into field/value pairs.
func tableToMap(table *godog.Table) map[string]string {
	out := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			continue
		}
		out[row.Cells[0].Value] = row.Cells[1].Value
	}
	return out
}

func (tc *TestContext) submitPersonalDetails(table *godog.Table) error {
	return tc.PUT("/api/declarations/"+tc.SessionID+"/personal", tableToMap(table))
}

func (tc *TestContext) submitTravelDetails(table *godog.Table) error {
	fields := tableToMap(table)
	body := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k == "visitedCountries" {
			body[k] = strings.Split(v, ",")
			continue
		}
		body[k] = v
	}
	return tc.PUT("/api/declarations/"+tc.SessionID+"/travel", body)
}

func (tc *TestContext) answerClinicalQuestions(table *godog.Table) error {
	answers := make(map[string]interface{})
	for _, row := range table.Rows {
		if len(row.Cells) != 3 {
			return fmt.Errorf("clinical answer rows need question, kind and value")
		}
		question := row.Cells[0].Value
		kind := row.Cells[1].Value
		raw := row.Cells[2].Value

		var value interface{} = raw
		if kind == "BOOLEAN" {
			value = raw == "true"
		}
		answers[question] = map[string]interface{}{"kind": kind, "value": value}
	}
	return tc.PUT("/api/declarations/"+tc.SessionID+"/clinical", map[string]interface{}{"answers": answers})
}

func (tc *TestContext) goBackOneStep() error {
	return tc.POST("/api/declarations/"+tc.SessionID+"/back", nil)
}

func (tc *TestContext) cancelDeclaration() error {
	return tc.DELETE("/api/declarations/" + tc.SessionID)
}

func (tc *TestContext) fetchDeclarationSession() error {
	return tc.GET("/api/declarations/" + tc.SessionID)
}

func (tc *TestContext) submitDeclaration() error {
	return tc.POST("/api/declarations/"+tc.SessionID+"/submit", map[string]bool{"consent": true})
}

func (tc *TestContext) submitDeclarationWithoutConsent() error {
	return tc.POST("/api/declarations/"+tc.SessionID+"/submit", nil)
}

func (tc *TestContext) saveDeclarationToken() error {
	result, err := tc.GetResponseField("result")
	if err != nil {
		return err
	}
	fields, ok := result.(map[string]interface{})
	if !ok {
		return fmt.Errorf("result is not an object: %v", result)
	}
	token, ok := fields["token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("result carries no token: %v", fields)
	}
	tc.Token = token
	return nil
}

func (tc *TestContext) lookupSavedToken() error {
	return tc.lookupToken(tc.Token)
}

func (tc *TestContext) lookupToken(token string) error {
	if err := tc.POST("/api/declarations/lookup", map[string]string{"token": token}); err != nil {
		return err
	}
	if tc.GetLastResponseStatus() == 201 {
		id, err := tc.GetResponseField("id")
		if err != nil {
			return err
		}
		tc.SessionID = id.(string)
	}
	return nil
}

func (tc *TestContext) lookupPassport(passport string) error {
	if err := tc.POST("/api/declarations/lookup", map[string]string{"passport": passport}); err != nil {
		return err
	}
	if tc.GetLastResponseStatus() == 201 {
		id, err := tc.GetResponseField("id")
		if err != nil {
			return err
		}
		tc.SessionID = id.(string)
	}
	return nil
}

func (tc *TestContext) verifyTraveler(lastName, passport string) error {
	return tc.POST("/api/verifications", map[string]string{
		"lastName": lastName,
		"passport": passport,
	})
}

func (tc *TestContext) responseStatusShouldBe(expected int) error {
	if tc.GetLastResponseStatus() != expected {
		return fmt.Errorf("expected status %d, got %d: %s",
			expected, tc.GetLastResponseStatus(), tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) responseShouldContain(text string) error {
	if !tc.ResponseContains(text) {
		return fmt.Errorf("response does not contain %q: %s", text, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) sessionStepShouldBe(step string) error {
	got, err := tc.GetResponseField("step")
	if err != nil {
		return err
	}
	if got != step {
		return fmt.Errorf("expected step %q, got %v", step, got)
	}
	return nil
}

func (tc *TestContext) fieldShouldHaveValidationMessage(field string) error {
	raw, err := tc.GetResponseField("fields")
	if err != nil {
		return err
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return fmt.Errorf("fields is not an object: %v", raw)
	}
	if msg, ok := fields[field].(string); !ok || msg == "" {
		return fmt.Errorf("no validation message for field %q: %v", field, fields)
	}
	return nil
}

func (tc *TestContext) classificationShouldBe(expected string) error {
	result, err := tc.GetResponseField("result")
	if err != nil {
		return err
	}
	fields, ok := result.(map[string]interface{})
	if !ok {
		return fmt.Errorf("result is not an object: %v", result)
	}
	if fields["classification"] != expected {
		return fmt.Errorf("expected classification %q, got %v", expected, fields["classification"])
	}
	return nil
}

func (tc *TestContext) verificationClassificationShouldBe(expected string) error {
	got, err := tc.GetResponseField("classification")
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected classification %q, got %v", expected, got)
	}
	return nil
}

func (tc *TestContext) receiptIncludesQRLink() error {
	result, err := tc.GetResponseField("result")
	if err != nil {
		return err
	}
	fields, ok := result.(map[string]interface{})
	if !ok {
		return fmt.Errorf("result is not an object: %v", result)
	}
	qr, ok := fields["qrUrl"].(string)
	if !ok || !strings.HasPrefix(qr, "https://") {
		return fmt.Errorf("result carries no QR link: %v", fields)
	}
	return nil
}

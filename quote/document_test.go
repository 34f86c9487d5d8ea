package quote

import (
	"strings"
	"testing"
	"time"
)

var testOpportunityJSON = `{
	"Id": "006XXXXXXXXXXXXXXX",
	"Name": "Acme Renewal",
	"Amount": 25000.5,
	"StageName": "Proposal",
	"CloseDate": "2026-09-30",
	"Account": {"Name": "Acme Pty Ltd", "Phone": "0293744000", "BillingCountry": "AU"}
}`

var testQuoteLineItems = []QuoteLineItem{
	{Description: "Implementation", Quantity: 10, UnitPrice: 100, TotalPrice: 1000},
	{Description: "Support", Quantity: 1, UnitPrice: 150.5, TotalPrice: 150.5},
}

var testQuoteTime = time.Date(2026, 8, 23, 10, 15, 0, 0, time.UTC)

func TestBuildQuoteDocument(t *testing.T) {
	settings := QuoteSettings{DefaultPhoneRegion: "AU"}
	doc, err := BuildQuoteDocument(ParseOpportunity(testOpportunityJSON), testQuoteLineItems, settings, testQuoteTime)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Title != "Quote - Acme Renewal" {
		t.Errorf("Expected title: Quote - Acme Renewal but have: %s", doc.Title)
	}
	expectedPath := "quote_acme_renewal_20260823_101500.pdf"
	if doc.PathOnClient != expectedPath {
		t.Errorf("Expected path: %s but have: %s", expectedPath, doc.PathOnClient)
	}
	if doc.Description != "Auto-generated quote PDF for Opportunity: Acme Renewal" {
		t.Errorf("Unexpected description: %s", doc.Description)
	}

	for _, expected := range []string{
		"Quote for Acme Renewal",
		"006XXXXXXXXXXXXXXX",
		"Acme Pty Ltd",
		"Proposal",
		"2026-09-30",
		"$25,000.50",      // opportunity amount
		"$1,150.50",       // line items total
		"Australia",       // billing country expanded from AU
		"August 23, 2026", // quote date
		"Implementation",
		"Support",
	} {
		if !strings.Contains(doc.HTML, expected) {
			t.Errorf("Expected rendered quote to contain %q", expected)
		}
	}
	if !strings.Contains(doc.HTML, DefaultBrandColor) {
		t.Errorf("Expected rendered quote to use the default brand colour %s", DefaultBrandColor)
	}
}

func TestBuildQuoteDocument_NoLineItems(t *testing.T) {
	doc, err := BuildQuoteDocument(ParseOpportunity(testOpportunityJSON), nil, QuoteSettings{}, testQuoteTime)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.HTML, "No line items found") {
		t.Error("Expected rendered quote to report missing line items")
	}
	if strings.Contains(doc.HTML, "Total:") {
		t.Error("Expected no total row without line items")
	}
}

func TestBuildQuoteDocument_MissingFields(t *testing.T) {
	doc, err := BuildQuoteDocument(ParseOpportunity(`{"Id": "006XXXXXXXXXXXXXXX"}`), nil, QuoteSettings{}, testQuoteTime)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.HTML, "Quote for N/A") {
		t.Error("Expected missing opportunity name to fall back to N/A")
	}
	if doc.Title != "Quote - N/A" {
		t.Errorf("Expected title: Quote - N/A but have: %s", doc.Title)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:         "0.00",
		5:         "5.00",
		999.99:    "999.99",
		1000:      "1,000.00",
		25000.5:   "25,000.50",
		1234567.8: "1,234,567.80",
		-1234.5:   "-1,234.50",
	}
	for amount, expected := range cases {
		if have := formatMoney(amount); have != expected {
			t.Errorf("Expected %s for %v but have: %s", expected, amount, have)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	if have := formatPhone("0293744000", "AU"); !strings.HasPrefix(have, "+61") {
		t.Errorf("Expected an international AU number but have: %s", have)
	}
	// unparseable numbers fall back to the original value
	if have := formatPhone("not-a-number", "AU"); have != "not-a-number" {
		t.Errorf("Expected original value but have: %s", have)
	}
}

func TestCountryName(t *testing.T) {
	cases := map[string]string{
		"AU":        "Australia",
		"FRA":       "France",
		"Australia": "Australia",
		"Atlantis":  "Atlantis", // unknown values pass through
	}
	for value, expected := range cases {
		if have := countryName(value); have != expected {
			t.Errorf("Expected %s for %s but have: %s", expected, value, have)
		}
	}
}

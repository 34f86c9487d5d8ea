package quote

import (
	"strings"
	"testing"
)

const testConfigYAML = `
api:
  keys:
    salesforce: ${SALESFORCE_API_KEY:""}
    pdfservice: ${PDF_SERVICE_API_KEY:""}
  endpoints:
    salesforce: https://example.my.salesforce.com
    pdfservice: https://quotegen.example.com
quote:
  defaultPhoneRegion: AU
`

func TestLoadConfig(t *testing.T) {
	t.Setenv("QUOTEGEN_TEST_CONFIG", `{"SALESFORCE_API_KEY":"sf-secret","PDF_SERVICE_API_KEY":"pdf-secret"}`)

	config, err := LoadConfig("QUOTEGEN_TEST_CONFIG", strings.NewReader(testConfigYAML))
	if err != nil {
		t.Fatal(err)
	}

	if config.API.Keys.Salesforce != "sf-secret" {
		t.Errorf("Expected salesforce key: sf-secret but have: %s", config.API.Keys.Salesforce)
	}
	if config.API.Keys.PDFService != "pdf-secret" {
		t.Errorf("Expected pdf service key: pdf-secret but have: %s", config.API.Keys.PDFService)
	}
	if config.API.Endpoints.Salesforce != "https://example.my.salesforce.com" {
		t.Errorf("Unexpected salesforce endpoint: %s", config.API.Endpoints.Salesforce)
	}
	if config.Quote.DefaultPhoneRegion != "AU" {
		t.Errorf("Expected default phone region: AU but have: %s", config.Quote.DefaultPhoneRegion)
	}
	if config.Quote.BrandColor != DefaultBrandColor {
		t.Errorf("Expected default brand colour: %s but have: %s", DefaultBrandColor, config.Quote.BrandColor)
	}
}

func TestLoadConfig_BrandColorOverride(t *testing.T) {
	yaml := testConfigYAML + "  brandColor: \"#003366\"\n"
	config, err := LoadConfig("QUOTEGEN_TEST_CONFIG", strings.NewReader(yaml))
	if err != nil {
		t.Fatal(err)
	}
	if config.Quote.BrandColor != "#003366" {
		t.Errorf("Expected brand colour: #003366 but have: %s", config.Quote.BrandColor)
	}
}

func TestJSONCompositeEnvVar(t *testing.T) {
	t.Setenv("QUOTEGEN_TEST_CONFIG", `{"SALESFORCE_API_KEY":"sf-secret"}`)

	compev := JSONCompositeEnvVar{Parent: "QUOTEGEN_TEST_CONFIG"}
	if v, exists := compev.LookupEnv("SALESFORCE_API_KEY"); !exists || v != "sf-secret" {
		t.Errorf("Expected sf-secret but have: %q (exists: %t)", v, exists)
	}
	if _, exists := compev.LookupEnv("MISSING"); exists {
		t.Error("Expected missing child to not exist")
	}

	empty := JSONCompositeEnvVar{}
	if _, exists := empty.LookupEnv("SALESFORCE_API_KEY"); exists {
		t.Error("Expected lookup without a parent env var to not exist")
	}
}

package quote

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/biter777/countries"
	"github.com/iancoleman/strcase"
	"github.com/ttacon/libphonenumber"
)

const (
	QuoteDateFormat     = "January 2, 2006"
	QuoteFileNameFormat = "20060102_150405"
)

// QuoteDocument is a rendered quote ready to be converted to PDF and
// uploaded against the opportunity.
type QuoteDocument struct {
	Title        string
	PathOnClient string
	Description  string
	HTML         string
}

type quoteTemplateLine struct {
	Description string
	Quantity    float64
	UnitPrice   string
	TotalPrice  string
}

type quoteTemplateData struct {
	BrandColor      template.CSS
	OpportunityName string
	OpportunityID   string
	AccountName     string
	AccountPhone    string
	AccountCountry  string
	Stage           string
	CloseDate       string
	Amount          string
	QuoteDate       string
	Lines           []quoteTemplateLine
	Total           string
}

var quoteTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Quote for {{.OpportunityName}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; padding: 40px; color: #333; }
.header { margin-bottom: 30px; }
.header h1 { color: {{.BrandColor}}; margin-bottom: 10px; }
.meta-info { margin-bottom: 20px; }
.meta-info p { margin: 5px 0; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
th { background-color: {{.BrandColor}}; color: white; font-weight: 600; }
tbody tr:nth-child(even) { background-color: #f9f9f9; }
.total-row { font-weight: bold; background-color: #e9ecef !important; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #ddd; }
@page { size: A4; margin: 2cm; }
</style>
</head>
<body>
<div class="header">
<h1>Quote for {{.OpportunityName}}</h1>
<p><strong>Quote Date:</strong> {{.QuoteDate}}</p>
</div>
<div class="meta-info">
<p><strong>Opportunity ID:</strong> {{.OpportunityID}}</p>
<p><strong>Account:</strong> {{.AccountName}}</p>
{{if .AccountPhone}}<p><strong>Phone:</strong> {{.AccountPhone}}</p>
{{end}}{{if .AccountCountry}}<p><strong>Country:</strong> {{.AccountCountry}}</p>
{{end}}<p><strong>Stage:</strong> {{.Stage}}</p>
<p><strong>Expected Close Date:</strong> {{.CloseDate}}</p>
<p><strong>Opportunity Amount:</strong> ${{.Amount}}</p>
</div>
<h2>Quote Line Items</h2>
<table>
<thead>
<tr>
<th>Description</th>
<th style="text-align: center;">Quantity</th>
<th style="text-align: right;">Unit Price</th>
<th style="text-align: right;">Total</th>
</tr>
</thead>
<tbody>
{{range .Lines}}<tr>
<td>{{.Description}}</td>
<td style="text-align: center;">{{.Quantity}}</td>
<td style="text-align: right;">${{.UnitPrice}}</td>
<td style="text-align: right;">${{.TotalPrice}}</td>
</tr>
{{else}}<tr><td colspan="4" style="text-align: center; color: #666;">No line items found</td></tr>
{{end}}{{if .Lines}}<tr class="total-row">
<td colspan="3" style="text-align: right;"><strong>Total:</strong></td>
<td style="text-align: right;"><strong>${{.Total}}</strong></td>
</tr>
{{end}}</tbody>
</table>
<div class="footer">
<p>Generated on {{.QuoteDate}}</p>
</div>
</body>
</html>
`))

// BuildQuoteDocument renders the quote HTML for an opportunity and its
// line items and derives the document title and file name.
func BuildQuoteDocument(opp Opportunity, lines []QuoteLineItem, settings QuoteSettings, now time.Time) (QuoteDocument, error) {
	var result QuoteDocument

	data := quoteTemplateData{
		BrandColor:      template.CSS(settings.BrandColor),
		OpportunityName: stringOrNA(opp.Source, "Name"),
		OpportunityID:   stringOrNA(opp.Source, "Id"),
		AccountName:     stringOrNA(opp.Source, "Account.Name"),
		Stage:           stringOrNA(opp.Source, "StageName"),
		CloseDate:       stringOrNA(opp.Source, "CloseDate"),
		QuoteDate:       now.Format(QuoteDateFormat),
	}
	if data.BrandColor == "" {
		data.BrandColor = template.CSS(DefaultBrandColor)
	}

	amount, _ := opp.Source.FloatForPath("Amount")
	data.Amount = formatMoney(amount)

	if phone, exists := opp.Source.StringForPath("Account.Phone"); exists && phone != "" {
		data.AccountPhone = formatPhone(phone, settings.DefaultPhoneRegion)
	}
	if country, exists := opp.Source.StringForPath("Account.BillingCountry"); exists && country != "" {
		data.AccountCountry = countryName(country)
	}

	var total float64
	for _, line := range lines {
		description := line.Description
		if description == "" {
			description = "N/A"
		}
		total += line.TotalPrice
		data.Lines = append(data.Lines, quoteTemplateLine{
			Description: description,
			Quantity:    line.Quantity,
			UnitPrice:   formatMoney(line.UnitPrice),
			TotalPrice:  formatMoney(line.TotalPrice),
		})
	}
	data.Total = formatMoney(total)

	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, data); err != nil {
		return result, fmt.Errorf("failed to render quote template %w", err)
	}

	result.HTML = buf.String()
	result.Title = fmt.Sprintf("Quote - %s", data.OpportunityName)
	result.PathOnClient = fmt.Sprintf("%s_%s.pdf",
		strcase.ToSnake(fmt.Sprintf("Quote %s", data.OpportunityName)),
		now.Format(QuoteFileNameFormat))
	result.Description = fmt.Sprintf("Auto-generated quote PDF for Opportunity: %s", data.OpportunityName)
	return result, nil
}

func stringOrNA(source Source, path string) string {
	if result, exists := source.StringForPath(path); exists && result != "" {
		return result
	}
	return "N/A"
}

// formatMoney formats an amount as a decimal with two places and
// thousands separators, e.g. 1234567.8 -> "1,234,567.80".
func formatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	whole := s[:len(s)-3]
	cents := s[len(s)-3:]
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)
	result := strings.Join(groups, ",") + cents
	if negative {
		result = "-" + result
	}
	return result
}

// formatPhone normalises a phone number to international format using
// the configured default region for numbers without a country prefix.
func formatPhone(raw string, defaultregion string) string {
	num, err := libphonenumber.Parse(raw, defaultregion)
	if err != nil {
		log.Printf("Warning: failed to parse phone number %q with region %q: %v (using original value)", raw, defaultregion, err)
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.INTERNATIONAL)
}

// countryName expands a country code or name to the full country name.
func countryName(value string) string {
	c := countries.ByName(value) // will match on Alpha-2 / Alpha-3 / Name
	if countries.Unknown == c {
		return value
	}
	return c.String()
}

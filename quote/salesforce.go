package quote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DataAPIVersion is the Salesforce REST data API version used for all requests.
const DataAPIVersion = "v58.0"

// ErrOpportunityNotFound is returned when the opportunity query matches no records.
var ErrOpportunityNotFound = errors.New("opportunity not found")

type SalesforceError []map[string]interface{}

// Opportunity wraps the raw Salesforce record so that fields can be read
// by path without committing to a fixed schema.
type Opportunity struct {
	Source Source
}

type Source struct {
	data gjson.Result
}

func (s Source) StringForPath(path string) (string, bool) {
	result := s.data.Get(path)
	return result.String(), result.Exists() && (result.Value() != nil)
}

func (s Source) FloatForPath(path string) (float64, bool) {
	result := s.data.Get(path)
	return result.Float(), result.Exists() && (result.Value() != nil)
}

func (s Source) Data() map[string]interface{} {
	if v := s.data.Value(); v != nil {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	return nil
}

// ParseOpportunity builds an Opportunity from a raw Salesforce record JSON.
func ParseOpportunity(json string) Opportunity {
	return Opportunity{Source: Source{data: gjson.Parse(json)}}
}

type QuoteLineItems struct {
	Records []QuoteLineItem `json:"records"`
}

type QuoteLineItem struct {
	Description string  `json:"Description"`
	Quantity    float64 `json:"Quantity"`
	UnitPrice   float64 `json:"UnitPrice"`
	TotalPrice  float64 `json:"TotalPrice"`
}

// UploadResult identifies the document created for a generated quote.
type UploadResult struct {
	ContentVersionID  string
	ContentDocumentID string
}

// SalesforceFetcherAndUpdater handles all Salesforce data API operations.
// It embeds *GenerationContext for shared generation configuration.
type SalesforceFetcherAndUpdater struct {
	*GenerationContext
}

// SalesforceAPIBuilder returns a new requests.Builder configured for the
// Salesforce data API.
func (s SalesforceFetcherAndUpdater) SalesforceAPIBuilder() *requests.Builder {
	result := requests.
		URL(s.Config.API.Endpoints.Salesforce).
		Client(&http.Client{Timeout: HTTPRequestTimeout})
	if s.RecordRequests {
		result = result.Transport(requests.Record(nil, "quote/testdata/.requests/salesforce"))
	}
	return result
}

// escapeSOQL escapes a value for interpolation into a SOQL string literal.
func escapeSOQL(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}

// FetchOpportunity queries Salesforce for the opportunity fields needed
// on the quote. Returns ErrOpportunityNotFound if the id matches nothing.
func (s SalesforceFetcherAndUpdater) FetchOpportunity(opportunityid string, ctx context.Context) (Opportunity, error) {
	var opp Opportunity
	salesforceError := SalesforceError{}
	soql := fmt.Sprintf(
		"SELECT Id, Name, Amount, StageName, CloseDate, Account.Name, Account.Phone, Account.BillingCountry FROM Opportunity WHERE Id = '%s' LIMIT 1",
		escapeSOQL(opportunityid))
	var json string
	err := s.SalesforceAPIBuilder().
		Pathf("/services/data/%s/query", DataAPIVersion).
		Param("q", soql).
		Bearer(s.Config.API.Keys.Salesforce).
		ToString(&json).
		ErrorJSON(&salesforceError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Salesforce Error: %+v", salesforceError)
		return opp, err
	}
	if !gjson.Valid(json) {
		log.Printf("Invalid Salesforce Response:\n%s", json)
		return opp, errors.New("invalid json response")
	}
	records := gjson.Parse(json).Get("records")
	if !records.Exists() || len(records.Array()) == 0 {
		return opp, ErrOpportunityNotFound
	}
	opp.Source = Source{data: records.Array()[0]}
	return opp, nil
}

// FetchQuoteLineItems queries Salesforce for the line items of any quote
// belonging to the opportunity.
func (s SalesforceFetcherAndUpdater) FetchQuoteLineItems(opportunityid string, ctx context.Context) ([]QuoteLineItem, error) {
	salesforceError := SalesforceError{}
	soql := fmt.Sprintf(
		"SELECT Id, Description, Quantity, UnitPrice, TotalPrice FROM QuoteLineItem WHERE Quote.OpportunityId = '%s'",
		escapeSOQL(opportunityid))
	var lines QuoteLineItems
	err := s.SalesforceAPIBuilder().
		Pathf("/services/data/%s/query", DataAPIVersion).
		Param("q", soql).
		Bearer(s.Config.API.Keys.Salesforce).
		ToJSON(&lines).
		ErrorJSON(&salesforceError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Salesforce Error: %+v", salesforceError)
		return nil, err
	}
	return lines.Records, nil
}

type createRecordResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// UploadQuoteDocument uploads the rendered PDF as a ContentVersion and
// links the resulting document to the opportunity so it appears in the
// record's Files list.
func (s SalesforceFetcherAndUpdater) UploadQuoteDocument(doc QuoteDocument, pdf []byte, opportunityid string, ctx context.Context) (UploadResult, error) {
	var result UploadResult

	contentVersionJSON, err := s.contentVersionJSON(doc, pdf)
	if err != nil {
		return result, fmt.Errorf("failed to build content version request %w", err)
	}

	salesforceError := SalesforceError{}
	var contentVersion createRecordResponse
	err = s.SalesforceAPIBuilder().
		Pathf("/services/data/%s/sobjects/ContentVersion", DataAPIVersion).
		Bearer(s.Config.API.Keys.Salesforce).
		BodyBytes([]byte(contentVersionJSON)).
		ContentType("application/json").
		ToJSON(&contentVersion).
		ErrorJSON(&salesforceError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Salesforce Error: %+v", salesforceError)
		return result, err
	}
	result.ContentVersionID = contentVersion.ID

	result.ContentDocumentID, err = s.fetchContentDocumentID(contentVersion.ID, ctx)
	if err != nil {
		return result, err
	}

	linkJSON := `{"ShareType":"V","Visibility":"AllUsers"}`
	linkJSON, err = sjson.Set(linkJSON, "ContentDocumentId", result.ContentDocumentID)
	if err == nil {
		linkJSON, err = sjson.Set(linkJSON, "LinkedEntityId", opportunityid)
	}
	if err != nil {
		return result, fmt.Errorf("failed to build content document link request %w", err)
	}

	salesforceError = SalesforceError{}
	err = s.SalesforceAPIBuilder().
		Pathf("/services/data/%s/sobjects/ContentDocumentLink", DataAPIVersion).
		Bearer(s.Config.API.Keys.Salesforce).
		BodyBytes([]byte(linkJSON)).
		ContentType("application/json").
		ErrorJSON(&salesforceError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Salesforce Error: %+v", salesforceError)
		return result, err
	}

	return result, nil
}

func (s SalesforceFetcherAndUpdater) contentVersionJSON(doc QuoteDocument, pdf []byte) (string, error) {
	result := `{}`
	var err error
	result, err = sjson.Set(result, "Title", doc.Title)
	if err == nil {
		result, err = sjson.Set(result, "PathOnClient", doc.PathOnClient)
	}
	if err == nil {
		description := doc.Description
		if s.Source != "" {
			description = fmt.Sprintf("%s (source: %s)", description, s.Source)
		}
		result, err = sjson.Set(result, "Description", description)
	}
	if err == nil {
		result, err = sjson.Set(result, "VersionData", base64.StdEncoding.EncodeToString(pdf))
	}
	return result, err
}

func (s SalesforceFetcherAndUpdater) fetchContentDocumentID(contentversionid string, ctx context.Context) (string, error) {
	salesforceError := SalesforceError{}
	soql := fmt.Sprintf("SELECT ContentDocumentId FROM ContentVersion WHERE Id = '%s'", escapeSOQL(contentversionid))
	var json string
	err := s.SalesforceAPIBuilder().
		Pathf("/services/data/%s/query", DataAPIVersion).
		Param("q", soql).
		Bearer(s.Config.API.Keys.Salesforce).
		ToString(&json).
		ErrorJSON(&salesforceError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Salesforce Error: %+v", salesforceError)
		return "", err
	}
	contentDocumentID := gjson.Parse(json).Get("records.0.ContentDocumentId")
	if !contentDocumentID.Exists() || contentDocumentID.String() == "" {
		return "", fmt.Errorf("failed to resolve ContentDocumentId for ContentVersion %s", contentversionid)
	}
	return contentDocumentID.String(), nil
}

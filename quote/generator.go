package quote

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GenerateQuotePDFResult identifies the Salesforce document created for
// a generated quote.
type GenerateQuotePDFResult struct {
	ContentDocumentID string
	ContentVersionID  string
}

// QuoteGenerator runs the full quote pipeline: fetch opportunity data,
// render the quote, print it to PDF and attach it to the opportunity.
// It implements RecordProcessor so a TriggerController can invoke it
// directly, in place of the HTTP PDFServiceClient.
type QuoteGenerator struct {
	Salesforce SalesforceFetcherAndUpdater
	Renderer   PDFRenderer
}

func (g QuoteGenerator) GenerateQuotePDF(opportunityid string, ctx context.Context) (GenerateQuotePDFResult, error) {
	var result GenerateQuotePDFResult

	opp, err := g.Salesforce.FetchOpportunity(opportunityid, ctx)
	if err != nil {
		return result, err
	}

	lines, err := g.Salesforce.FetchQuoteLineItems(opportunityid, ctx)
	if err != nil {
		return result, err
	}

	doc, err := BuildQuoteDocument(opp, lines, g.Salesforce.Config.Quote, time.Now())
	if err != nil {
		return result, err
	}

	pdf, err := g.Renderer.RenderPDF(doc.HTML, ctx)
	if err != nil {
		return result, err
	}

	upload, err := g.Salesforce.UploadQuoteDocument(doc, pdf, opportunityid, ctx)
	if err != nil {
		return result, err
	}

	result.ContentDocumentID = upload.ContentDocumentID
	result.ContentVersionID = upload.ContentVersionID
	return result, nil
}

// ProcessRecord generates and attaches a quote PDF for the opportunity,
// converting pipeline failures into RemoteOperationFailure values so the
// trigger controller can surface a meaningful message.
func (g QuoteGenerator) ProcessRecord(recordid string, ctx context.Context) error {
	_, err := g.GenerateQuotePDF(recordid, ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOpportunityNotFound) {
		return &RemoteOperationFailure{Message: "Opportunity not found", Err: err}
	}
	return &RemoteOperationFailure{Err: fmt.Errorf("failed to generate quote pdf %w", err)}
}

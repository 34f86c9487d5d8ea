package quote

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/carlmjohnson/requests"
)

// RecordProcessor performs the actual record transformation for a
// trigger cycle. Implementations must treat the record identifier as
// opaque - it is meaningful only to the processing operation itself.
type RecordProcessor interface {
	ProcessRecord(recordid string, ctx context.Context) error
}

// RemoteOperationFailure is the single error kind returned across the
// remote-operation boundary. Message carries the optional human-readable
// text supplied by the server, decided here rather than inspected ad hoc
// by callers.
type RemoteOperationFailure struct {
	Message string
	Err     error
}

func (f *RemoteOperationFailure) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("remote operation failed: %s", f.Message)
	}
	if f.Err != nil {
		return fmt.Sprintf("remote operation failed: %v", f.Err)
	}
	return "remote operation failed"
}

func (f *RemoteOperationFailure) Unwrap() error {
	return f.Err
}

type PDFServiceError map[string]interface{}

// MessageText returns the human-readable message from a PDF service
// error envelope, or an empty string if the envelope carries none.
func (e PDFServiceError) MessageText() string {
	if s, ok := e["message"].(string); ok {
		return s
	}
	return ""
}

type generateQuotePDFRequest struct {
	OpportunityID string `json:"opportunityId"`
}

// PDFServiceClient is a RecordProcessor that delegates processing to the
// quote PDF service over HTTP. It embeds *GenerationContext for shared
// configuration.
type PDFServiceClient struct {
	*GenerationContext
}

// PDFServiceAPIBuilder returns a new requests.Builder configured for the
// quote PDF service.
func (c PDFServiceClient) PDFServiceAPIBuilder() *requests.Builder {
	result := requests.
		URL(c.Config.API.Endpoints.PDFService).
		Client(&http.Client{Timeout: HTTPRequestTimeout})
	if c.RecordRequests {
		result = result.Transport(requests.Record(nil, "quote/testdata/.requests/pdf-service"))
	}
	return result
}

// ProcessRecord asks the quote PDF service to generate and attach a
// quote for the opportunity. Any non-2xx response is converted into a
// RemoteOperationFailure carrying the message from the service's error
// envelope when one is present.
func (c PDFServiceClient) ProcessRecord(recordid string, ctx context.Context) error {
	serviceError := PDFServiceError{}
	req := generateQuotePDFRequest{OpportunityID: recordid}
	err := c.PDFServiceAPIBuilder().
		Path("/generate-quote-pdf").
		Bearer(c.Config.API.Keys.PDFService).
		BodyJSON(&req).
		ErrorJSON(&serviceError).
		Fetch(ctx)
	if err != nil {
		log.Printf("PDF Service Error: %+v", serviceError)
		return &RemoteOperationFailure{Message: serviceError.MessageText(), Err: err}
	}
	return nil
}

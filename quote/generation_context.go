package quote

// GenerationContext holds shared generation configuration.
// It is immutable after construction.
type GenerationContext struct {
	Config         Config
	RecordRequests bool

	// Source identifies what initiated the generation (e.g. the server
	// or a host UI trigger) and is recorded on uploaded documents.
	Source string
}

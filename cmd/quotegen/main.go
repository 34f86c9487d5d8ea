package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/homemade/quotegen/quote"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "quotegen.yaml", "path to yaml config")
	configEnvVar := flag.String("config-env", "QUOTEGEN_CONFIG", "env var holding the JSON config object for ${VAR} expansion")
	recordRequests := flag.Bool("record-requests", false, "record outbound API requests as test fixtures")
	flag.Parse()

	f, err := os.Open(*configPath)
	if err != nil {
		log.Fatalf("failed to open config file %q: %v", *configPath, err)
	}
	defer f.Close()

	cfg, err := quote.LoadConfig(*configEnvVar, f)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	generationContext := &quote.GenerationContext{
		Config:         cfg,
		RecordRequests: *recordRequests,
		Source:         "quotegen-server",
	}
	generator := quote.QuoteGenerator{
		Salesforce: quote.SalesforceFetcherAndUpdater{GenerationContext: generationContext},
		Renderer:   quote.ChromePDFRenderer{},
	}

	log.Printf("quotegen %s listening on %s", quote.ServiceVersion, *addr)
	log.Fatal(http.ListenAndServe(*addr, quote.NewRouter(generator)))
}

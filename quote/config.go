package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/config"
)

type Config struct {
	API   APISettings
	Quote QuoteSettings
}

type APISettings struct {
	Keys struct {
		Salesforce string
		PDFService string
	}
	Endpoints struct {
		Salesforce string
		PDFService string
	}
}

// QuoteSettings controls how the quote document is rendered.
type QuoteSettings struct {
	// DefaultPhoneRegion is the ISO region used to parse account phone
	// numbers without an international prefix (e.g. "AU", "GB").
	DefaultPhoneRegion string `yaml:"defaultPhoneRegion"`
	// BrandColor is the accent colour of the quote header and table.
	BrandColor string `yaml:"brandColor"`
}

// DefaultBrandColor is used when no brand colour is configured.
const DefaultBrandColor = "#1798c1"

type ConfigUnmarshaler interface {
	Unmarshal(compev CompositeEnvVar, sources ...io.Reader) (Config, error)
}

type CompositeEnvVar interface {
	LookupEnv(child string) (string, bool)
}

// JSONCompositeEnvVar resolves child values from a single parent env var
// holding a JSON object, so that all deployment secrets can be supplied
// through one env var (e.g. QUOTEGEN_CONFIG).
type JSONCompositeEnvVar struct {
	Parent string
}

func (c JSONCompositeEnvVar) LookupEnv(child string) (string, bool) {
	if c.Parent != "" {
		s := os.Getenv(c.Parent)
		if s != "" {
			m := make(map[string]string)
			err := json.Unmarshal([]byte(s), &m)
			if err == nil {
				v, exists := m[child]
				return v, exists
			}
		}
	}
	return "", false
}

type YAMLConfigUnmarshaler struct{}

func (u YAMLConfigUnmarshaler) Unmarshal(compev CompositeEnvVar, sources ...io.Reader) (Config, error) {
	var result Config
	var options []config.YAMLOption
	for _, s := range sources {
		options = append(options, config.Source(s))
	}
	options = append(options, config.Expand(compev.LookupEnv))
	yaml, err := config.NewYAML(options...)
	if err != nil {
		return result, fmt.Errorf("failed to read yaml config %w", err)
	}
	readError := func(key string, cause error) error {
		return fmt.Errorf("failed to read '%s' from yaml config %w", key, cause)
	}
	key := "api"
	err = yaml.Get(key).Populate(&result.API)
	if err != nil {
		return result, readError(key, err)
	}
	key = "quote"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.Quote)
		if err != nil {
			return result, readError(key, err)
		}
	}

	if result.Quote.BrandColor == "" {
		result.Quote.BrandColor = DefaultBrandColor
	}

	return result, nil
}

// LoadConfig loads configuration from the given YAML sources, expanding
// ${VAR} references against the JSON object held in the envvarname env var.
func LoadConfig(envvarname string, sources ...io.Reader) (Config, error) {
	compositeEnvVar := JSONCompositeEnvVar{Parent: envvarname}
	yamlConfigUnmarshaler := YAMLConfigUnmarshaler{}
	result, err := yamlConfigUnmarshaler.Unmarshal(compositeEnvVar, sources...)
	if err != nil {
		return result, fmt.Errorf("failed to load config %w", err)
	}
	return result, nil
}

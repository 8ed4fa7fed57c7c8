package enhancer

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/vzahanych/climate-outlook/internal/climate"
)

// ReportSchema is the JSON schema the model is asked to follow.
var ReportSchema = generateSchema[EnhancedReport]()

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// ParseReport decodes a model reply strictly: a single JSON object, no
// unknown keys, no trailing content. The confidence rating and weather
// block are then replaced with values derived from summary, so only the
// score and the free-text lists come from the model.
func ParseReport(reply string, summary *climate.SeasonalSummary) (*EnhancedReport, error) {
	text := strings.TrimSpace(reply)
	if text == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrEnhancement)
	}

	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: reply is not a single JSON document", ErrEnhancement)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var report EnhancedReport
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: reply is not a valid report: %v", ErrEnhancement, err)
	}

	if report.SuitabilityScore < 1 || report.SuitabilityScore > 100 {
		return nil, fmt.Errorf("%w: suitability_score %d outside 1-100", ErrEnhancement, report.SuitabilityScore)
	}
	if report.Recommendations == nil {
		return nil, fmt.Errorf("%w: recommendations missing", ErrEnhancement)
	}
	if report.RiskFactors == nil {
		return nil, fmt.Errorf("%w: risk_factors missing", ErrEnhancement)
	}

	report.ConfidenceRating = ConfidenceRating(summary.YearsAnalyzed)
	report.WeatherConditions = ConditionsFromSummary(summary)

	return &report, nil
}

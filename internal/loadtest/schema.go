package loadtest

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed plan.schema.json
var planSchemaJSON string

var planSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(planSchemaJSON))
})

// ValidatePlanJSON checks a serialized plan against the plan schema and
// reports every violation at once.
func ValidatePlanJSON(data []byte) error {
	schema, err := planSchema()
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidatePlan serializes a plan and validates it against the schema.
func ValidatePlan(plan *LoadTestPlan) error {
	data, err := marshalJSON(plan, 0)
	if err != nil {
		return err
	}
	return ValidatePlanJSON(data)
}

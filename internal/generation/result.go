package generation

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schema/insight.json
var schemaFS embed.FS

var insightSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	data, err := schemaFS.ReadFile("schema/insight.json")
	if err != nil {
		panic(fmt.Sprintf("read insight schema: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(data)
	if err != nil {
		panic(fmt.Sprintf("compile insight schema: %v", err))
	}
	return schema
}

// Result is the tagged outcome of parsing a generation response.
// Either Parsed is set (the response validated against the insight schema)
// or Raw holds the verbatim text for fallback handling. Callers branch on
// IsFallback, never on a decode error.
type Result struct {
	Parsed *StructuredInsight
	Raw    string
}

// IsFallback reports whether the response failed to parse as a
// StructuredInsight and only the raw text is available.
func (r Result) IsFallback() bool {
	return r.Parsed == nil
}

// ParseResult decodes a generation response body. Responses that are not
// JSON, or are JSON of the wrong shape, come back as a fallback Result
// carrying the raw text; the response is never dropped.
func ParseResult(body []byte) Result {
	var generic map[string]interface{}
	if err := json.Unmarshal(body, &generic); err != nil {
		return Result{Raw: string(body)}
	}

	if valid := insightSchema.Validate(generic); !valid.IsValid() {
		return Result{Raw: string(body)}
	}

	var insight StructuredInsight
	if err := json.Unmarshal(body, &insight); err != nil {
		return Result{Raw: string(body)}
	}

	// Normalize nil sections so persisted JSON always has arrays.
	if insight.Themes == nil {
		insight.Themes = []Theme{}
	}
	if insight.NotableMoments == nil {
		insight.NotableMoments = []Moment{}
	}
	if insight.Suggestions == nil {
		insight.Suggestions = []string{}
	}

	return Result{Parsed: &insight}
}

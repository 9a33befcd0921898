package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
)

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("parser: bad schema: %v", err))
	}
	return s
}

// decode validates the fenced-or-bare JSON in raw against schema and
// unmarshals it into out.
func decode(raw string, schema *gojsonschema.Schema, out interface{}) error {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return apperr.Malformed("empty response", nil)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return apperr.Malformed("response is not JSON", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperr.Malformed(fmt.Sprintf("response failed validation: %v", errs), nil)
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return apperr.Malformed("response could not be decoded", err)
	}
	return nil
}

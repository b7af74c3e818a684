package quizgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const quizSchemaURL = "quizforge://quiz.schema.json"

//go:embed schema/quiz.schema.json
var quizSchemaJSON []byte

var compileQuizSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(quizSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse quiz schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(quizSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(quizSchemaURL)
})

// ValidateDocument checks data against the quiz export document schema.
func ValidateDocument(data []byte) error {
	schema, err := compileQuizSchema()
	if err != nil {
		return fmt.Errorf("compile quiz schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// QuizSchema returns the raw JSON Schema of the export document.
func QuizSchema() []byte {
	return bytes.Clone(quizSchemaJSON)
}

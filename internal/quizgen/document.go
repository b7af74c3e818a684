package quizgen

import (
	"bytes"
	"encoding/json"
	"errors"

	"quizforge/internal/domain"
)

// ExportDocument serializes q verbatim as an indented JSON document. The
// output is checked against the export schema before it is returned.
func ExportDocument(q *domain.Quiz) ([]byte, error) {
	if q == nil {
		return nil, domain.NewInputError("quiz is required")
	}
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return nil, domain.NewInternalError("marshal quiz", err)
	}
	if err := ValidateDocument(data); err != nil {
		return nil, domain.NewValidationError("quiz does not satisfy export schema").WithDetail("cause", err.Error())
	}
	return append(data, '\n'), nil
}

// ImportDocument reads a user-supplied quiz document through the same
// validation and recovery as generated quizzes. A fresh id and creation
// time are assigned.
func ImportDocument(data []byte, fb Fallbacks) (*Result, error) {
	return NewGenerator(nil, nil).Import(data, fb)
}

// Import is ImportDocument using the generator's clock, id source and logger.
func (g *Generator) Import(data []byte, fb Fallbacks) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, domain.NewInputError("document is empty")
	}

	// Well-formed documents skip the repair stage so apostrophes survive.
	if root, err := DecodeJSONValue(trimmed); err == nil {
		return g.build(g.logger, root, fb)
	}

	result, err := g.process(g.logger, string(trimmed), fb)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("import document", err)
	}
	return result, nil
}

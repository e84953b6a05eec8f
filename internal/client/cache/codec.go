package cache

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "tasktracker://cache/schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add cache schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// encode serializes the list. A nil list is stored as an empty array.
func encode(tasks []domain.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// decode parses a stored entry. The payload is checked against the embedded
// schema first so a hand-edited or truncated entry is rejected as a whole.
func decode(data []byte) ([]domain.Task, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cached tasks: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(raw); err != nil {
		return nil, fmt.Errorf("cached tasks do not match schema: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode cached tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

const schemaDraft = "http://json-schema.org/draft-07/schema#"

// Schema returns the JSON schema of a worker record file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&timesheet.WorkerTimesheet{})
	s.Version = schemaDraft
	s.Title = "pontaj worker record"
	s.Description = "Raw shift rows for one worker."

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	return data, nil
}

// Validate checks a worker record document against Schema and returns
// one message per violation.
func Validate(doc []byte) ([]string, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating record: %w", err)
	}
	var problems []string
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return problems, nil
}

// ValidateAll validates every record in the directory, keyed by file name.
// Files without problems are omitted.
func (d *Dir) ValidateAll() (map[string][]string, error) {
	files, err := d.Files()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filepath.Base(f), err)
		}
		problems, err := Validate(data)
		if err != nil {
			problems = []string{err.Error()}
		}
		if len(problems) > 0 {
			out[filepath.Base(f)] = problems
		}
	}
	return out, nil
}

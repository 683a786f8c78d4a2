package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	createTaskSchema = "task_create.json"
	updateTaskSchema = "task_update.json"
)

// maxBodyBytes caps request bodies read by the task handler.
const maxBodyBytes = 1 << 20

var (
	errInvalidJSON  = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// SchemaError lists every violation found while validating a request body.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return strings.Join(e.Violations, "; ")
}

type requestValidator struct {
	create *jsonschema.Schema
	update *jsonschema.Schema
}

func newRequestValidator() (*requestValidator, error) {
	compiler := jsonschema.NewCompiler()

	for _, name := range []string{createTaskSchema, updateTaskSchema} {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
		}
	}

	create, err := compiler.Compile(createTaskSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", createTaskSchema, err)
	}
	update, err := compiler.Compile(updateTaskSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", updateTaskSchema, err)
	}

	return &requestValidator{create: create, update: update}, nil
}

// decode reads the request body, validates it against schema and unmarshals
// it into dst. Malformed JSON yields errInvalidJSON, a body over maxBodyBytes
// yields errBodyTooLarge and schema violations yield *SchemaError.
func decode(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errBodyTooLarge
		}
		return errInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errInvalidJSON
	}
	if dec.More() {
		return errInvalidJSON
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("failed to validate request: %w", err)
		}
		se := &SchemaError{}
		collectSchemaErrors(se, ve)
		return se
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return errInvalidJSON
	}
	return nil
}

func collectSchemaErrors(se *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		se.Violations = append(se.Violations, fmt.Sprintf("%s: %s", pointerToField(err.InstanceLocation), err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(se, cause)
	}
}

// pointerToField turns a JSON pointer such as "/tags/0" into "tags[0]".
func pointerToField(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return "body"
	}

	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

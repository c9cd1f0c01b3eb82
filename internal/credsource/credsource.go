// Package credsource reads the batch of new credential values to rotate.
//
// The batch file is YAML (JSON parses too, via flow syntax):
//
//	issuers:
//	  - issuer: Acme
//	    credentials:
//	      - name: API Key
//	        value: secretXYZ
//
// Iteration order is the file order; nothing is reordered for matching.
package credsource

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	operrors "github.com/systmms/oprotate/internal/errors"
	"github.com/systmms/oprotate/internal/secure"
)

// Batch is the ordered list of issuer groups, consumed once per run.
type Batch struct {
	Issuers []IssuerGroup
}

// IssuerGroup holds the ordered credentials of one issuer. A group may
// legally be empty; the run loop simply yields nothing for it.
type IssuerGroup struct {
	Issuer      string
	Credentials []Credential
}

// Credential is one new secret value. The plaintext is sealed into a
// protected enclave at parse time and only revealed when applied.
type Credential struct {
	Name  string
	Value *secure.Value
}

const batchSchema = `{
  "type": "object",
  "required": ["issuers"],
  "properties": {
    "issuers": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["issuer", "credentials"],
        "properties": {
          "issuer": {"type": "string"},
          "credentials": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "value"],
              "properties": {
                "name": {"type": "string"},
                "value": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

type wireBatch struct {
	Issuers []wireIssuer `yaml:"issuers"`
}

type wireIssuer struct {
	Issuer      string           `yaml:"issuer"`
	Credentials []wireCredential `yaml:"credentials"`
}

type wireCredential struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Load reads and parses the credentials batch file. Any failure here is
// fatal to the run.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, operrors.UserError{
			Message:    fmt.Sprintf("Failed to read credentials file '%s'", path),
			Suggestion: "Check that the file exists and is readable",
			Err:        err,
		}
	}
	return Parse(data)
}

// Parse decodes and validates a credentials batch document.
func Parse(data []byte) (*Batch, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, operrors.UserError{
			Message:    "Failed to parse credentials file",
			Suggestion: "The file must be a YAML document with an 'issuers' list",
			Err:        err,
		}
	}

	if err := validate(doc); err != nil {
		return nil, err
	}

	var wire wireBatch
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, operrors.UserError{
			Message: "Failed to parse credentials file",
			Err:     err,
		}
	}

	batch := &Batch{Issuers: make([]IssuerGroup, 0, len(wire.Issuers))}
	for _, iss := range wire.Issuers {
		group := IssuerGroup{
			Issuer:      iss.Issuer,
			Credentials: make([]Credential, 0, len(iss.Credentials)),
		}
		for _, cred := range iss.Credentials {
			group.Credentials = append(group.Credentials, Credential{
				Name:  cred.Name,
				Value: secure.Seal(cred.Value),
			})
		}
		batch.Issuers = append(batch.Issuers, group)
	}

	return batch, nil
}

// validate checks the decoded document against the batch schema.
// gojsonschema consumes JSON, so the YAML document tree is re-marshaled first.
func validate(doc interface{}) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(batchSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return operrors.UserError{
			Message:    "Credentials file is malformed",
			Details:    strings.Join(messages, "; "),
			Suggestion: "Each issuer needs an 'issuer' name and a 'credentials' list of {name, value} pairs",
		}
	}

	return nil
}

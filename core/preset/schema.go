package preset

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/swaggest/jsonschema-go"
)

const schemaTitle = "annocfg material preset"

// Schema returns the JSON schema of a preset document.
var Schema = sync.OnceValues(func() ([]byte, error) {
	r := jsonschema.Reflector{}
	s, err := r.Reflect(Preset{})
	if err != nil {
		return nil, fmt.Errorf("reflect preset schema: %w", err)
	}
	s.WithTitle(schemaTitle)
	j, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal preset schema: %w", err)
	}
	return j, nil
})

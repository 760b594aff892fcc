package ingest

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type schemas struct {
	kill     *jsonschema.Schema
	presence *jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	c.AssertFormat = true

	compile := func(name string) (*jsonschema.Schema, error) {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		url := "mem://ingest/" + name
		if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		s, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		return s, nil
	}

	kill, err := compile("kill.schema.json")
	if err != nil {
		return nil, err
	}
	presence, err := compile("presence.schema.json")
	if err != nil {
		return nil, err
	}
	return &schemas{kill: kill, presence: presence}, nil
}

// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/envictus/cel"
	"github.com/stacklok/envictus/env"
	"github.com/stacklok/envictus/envfile"
	"github.com/stacklok/envictus/logging"
	"github.com/stacklok/envictus/schema"
	"github.com/stacklok/envictus/schema/fields"
	"github.com/stacklok/envictus/schema/jsonschema"
)

// envFilesKey is the bucket key that lists env files instead of a variable.
const envFilesKey = "envFiles"

type document struct {
	Discriminator string         `yaml:"discriminator"`
	Schema        schemaDocument `yaml:"schema"`
	Defaults      yaml.Node      `yaml:"defaults"`
}

type schemaDocument struct {
	Fields     yaml.Node  `yaml:"fields"`
	JSONSchema yaml.Node  `yaml:"jsonSchema"`
	Rules      []cel.Rule `yaml:"rules"`
}

type fieldDocument struct {
	Type        string   `yaml:"type"`
	Default     any      `yaml:"default"`
	Optional    bool     `yaml:"optional"`
	Values      []string `yaml:"values"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	MinLength   *int     `yaml:"minLength"`
	MaxLength   *int     `yaml:"maxLength"`
	Pattern     string   `yaml:"pattern"`
	Schemes     []string `yaml:"schemes"`
	Separator   string   `yaml:"separator"`
	Description string   `yaml:"description"`
}

type envFileDocument struct {
	Path            string `yaml:"path"`
	Decrypt         string `yaml:"decrypt"`
	OnMissing       string `yaml:"onMissing"`
	AgeIdentityFile string `yaml:"ageIdentityFile"`
}

type loader struct {
	env    env.Reader
	logger *slog.Logger
	dir    string
}

// Option configures Load.
type Option func(*loader)

// WithEnv sets the environment consulted while loading env files.
func WithEnv(r env.Reader) Option {
	return func(l *loader) {
		l.env = r
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

// Load reads the configuration file at path. Files ending in .json or .jsonc
// are read as JSON with comments; anything else is read as YAML.
func Load(ctx context.Context, path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	l := &loader{env: &env.OSReader{}, dir: filepath.Dir(abs)}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.OrDefault(l.logger)

	cfg, err := l.parse(ctx, data, isJSON(path))
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Path = abs
	l.logger.Debug("loaded config", "path", abs, "buckets", cfg.Defaults.Len())
	return cfg, nil
}

// Parse builds a configuration from an in-memory document. Relative paths
// are resolved against dir.
func Parse(ctx context.Context, data []byte, asJSON bool, dir string, opts ...Option) (*Config, error) {
	l := &loader{env: &env.OSReader{}, dir: dir}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.OrDefault(l.logger)
	return l.parse(ctx, data, asJSON)
}

func isJSON(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || ext == ".jsonc"
}

func (l *loader) parse(ctx context.Context, data []byte, asJSON bool) (*Config, error) {
	if asJSON {
		// Tabs are only whitespace in valid JSON, and YAML rejects them as indentation.
		data = []byte(strings.ReplaceAll(string(jsonc.ToJSON(data)), "\t", " "))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}

	cfg := &Config{Discriminator: doc.Discriminator}

	s, err := l.schema(doc.Schema)
	if err != nil {
		return nil, err
	}
	cfg.Schema = s

	defaults, files, err := l.defaults(ctx, &doc.Defaults)
	if err != nil {
		return nil, err
	}
	cfg.Defaults = defaults
	cfg.EnvFiles = files

	return cfg, nil
}

func (l *loader) schema(doc schemaDocument) (schema.Schema, error) {
	hasFields := !isEmpty(&doc.Fields)
	hasJSON := !isEmpty(&doc.JSONSchema)

	var (
		s   schema.Schema
		err error
	)
	switch {
	case hasFields && hasJSON:
		return nil, fieldErrorf("schema", "only one of fields or jsonSchema may be set")
	case hasFields:
		s, err = l.fieldSchema(&doc.Fields)
	case hasJSON:
		s, err = l.jsonSchema(&doc.JSONSchema)
	default:
		return nil, fieldErrorf("schema", "one of fields or jsonSchema is required")
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Rules) == 0 {
		return s, nil
	}
	rules, err := cel.NewRules(s, doc.Rules...)
	if err != nil {
		return nil, &FieldError{Field: "schema.rules", Err: err}
	}
	return rules, nil
}

func (*loader) fieldSchema(node *yaml.Node) (schema.Schema, error) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return nil, fieldErrorf("schema.fields", "must be a mapping of variable name to field")
	}

	list := make([]fields.Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var fd fieldDocument
		if v := resolve(node.Content[i+1]); !isNull(v) {
			if err := v.Decode(&fd); err != nil {
				return nil, &FieldError{Field: "schema.fields." + name, Err: err}
			}
		}
		list = append(list, fields.Field{
			Name:        name,
			Type:        fields.Type(fd.Type),
			Default:     fd.Default,
			Optional:    fd.Optional,
			Values:      fd.Values,
			Min:         fd.Min,
			Max:         fd.Max,
			MinLength:   fd.MinLength,
			MaxLength:   fd.MaxLength,
			Pattern:     fd.Pattern,
			Schemes:     fd.Schemes,
			Separator:   fd.Separator,
			Description: fd.Description,
		})
	}

	s, err := fields.New(list...)
	if err != nil {
		return nil, &FieldError{Field: "schema.fields", Err: err}
	}
	return s, nil
}

func (l *loader) jsonSchema(node *yaml.Node) (schema.Schema, error) {
	node = resolve(node)

	if node.Kind == yaml.ScalarNode {
		path := l.abs(node.Value)
		s, err := jsonschema.NewFromFile(path)
		if err != nil {
			return nil, &FieldError{Field: "schema.jsonSchema", Err: err}
		}
		return s, nil
	}

	var inline any
	if err := node.Decode(&inline); err != nil {
		return nil, &FieldError{Field: "schema.jsonSchema", Err: err}
	}
	raw, err := json.Marshal(inline)
	if err != nil {
		return nil, &FieldError{Field: "schema.jsonSchema", Err: err}
	}
	s, err := jsonschema.New(raw)
	if err != nil {
		return nil, &FieldError{Field: "schema.jsonSchema", Err: err}
	}
	return s, nil
}

// defaults decodes the defaults mapping in declaration order. Values from a
// bucket's envFiles are layered first, so inline values win.
func (l *loader) defaults(ctx context.Context, node *yaml.Node) (*Defaults, []string, error) {
	out := NewDefaults()
	node = resolve(node)
	if isNull(node) {
		return out, nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, fieldErrorf("defaults", "must be a mapping of discriminator value to defaults")
	}

	var files []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		mode := node.Content[i].Value
		field := "defaults." + mode

		bucketNode := resolve(node.Content[i+1])
		if isNull(bucketNode) {
			out.Set(mode, nil)
			continue
		}
		if bucketNode.Kind != yaml.MappingNode {
			return nil, nil, fieldErrorf(field, "must be a mapping of variable name to value")
		}

		bucket := make(map[string]any)
		inline := make(map[string]any)
		for j := 0; j+1 < len(bucketNode.Content); j += 2 {
			key := bucketNode.Content[j].Value
			valueNode := bucketNode.Content[j+1]

			if key == envFilesKey {
				var refs []envFileDocument
				if err := valueNode.Decode(&refs); err != nil {
					return nil, nil, &FieldError{Field: field + "." + envFilesKey, Err: err}
				}
				for k, ref := range refs {
					vars, path, err := l.envFile(ctx, ref)
					if err != nil {
						return nil, nil, &FieldError{Field: fmt.Sprintf("%s.%s[%d]", field, envFilesKey, k), Err: err}
					}
					files = append(files, path)
					for name, v := range vars {
						bucket[name] = v
					}
				}
				continue
			}

			var v any
			if err := valueNode.Decode(&v); err != nil {
				return nil, nil, &FieldError{Field: field + "." + key, Err: err}
			}
			inline[key] = v
		}

		for k, v := range inline {
			bucket[k] = v
		}
		out.Set(mode, bucket)
	}

	return out, files, nil
}

func (l *loader) envFile(ctx context.Context, ref envFileDocument) (map[string]string, string, error) {
	if ref.Path == "" {
		return nil, "", errors.New("path is required")
	}
	path := l.abs(ref.Path)
	opts := envfile.Options{
		OnMissing: envfile.MissingPolicy(ref.OnMissing),
		Decrypt:   envfile.Decryption(ref.Decrypt),
		Env:       l.env,
		Logger:    l.logger,
	}
	if ref.AgeIdentityFile != "" {
		opts.AgeIdentityFile = l.abs(ref.AgeIdentityFile)
	}
	vars, err := envfile.Parse(ctx, path, opts)
	if err != nil {
		return nil, "", err
	}
	return vars, path, nil
}

func (l *loader) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.dir, path)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func isEmpty(n *yaml.Node) bool {
	return isNull(resolve(n))
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRoles []byte

type KeywordRule struct {
	Match  []string `yaml:"match"`
	Titles []string `yaml:"titles"`
}

// Roles holds the supported role set and the matcher tables. It is built once
// by LoadRoles and only read afterwards.
type Roles struct {
	Supported []string          `yaml:"roles"`
	Aliases   map[string]string `yaml:"aliases"`
	Keywords  []KeywordRule     `yaml:"keywords"`

	index map[string]string
}

// LoadRoles reads the role tables from path, or the embedded defaults when
// path is empty.
func LoadRoles(path string) (*Roles, error) {
	data := defaultRoles
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read roles file: %w", err)
		}
		data = raw
	}
	return ParseRoles(data)
}

func ParseRoles(data []byte) (*Roles, error) {
	var r Roles
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roles: %w", err)
	}
	if len(r.Supported) == 0 {
		return nil, errors.New("roles: supported role set is empty")
	}

	r.index = make(map[string]string, len(r.Supported))
	for _, role := range r.Supported {
		role = strings.TrimSpace(role)
		if role == "" {
			return nil, errors.New("roles: empty role name")
		}
		key := strings.ToLower(role)
		if _, dup := r.index[key]; dup {
			return nil, fmt.Errorf("roles: duplicate role %q", role)
		}
		r.index[key] = role
	}

	aliases := make(map[string]string, len(r.Aliases))
	for from, to := range r.Aliases {
		from = strings.ToLower(strings.TrimSpace(from))
		to = strings.ToLower(strings.TrimSpace(to))
		if from == "" || to == "" {
			return nil, errors.New("roles: alias entries must not be empty")
		}
		aliases[from] = to
	}
	r.Aliases = aliases

	for i, rule := range r.Keywords {
		if len(rule.Match) == 0 || len(rule.Titles) == 0 {
			return nil, fmt.Errorf("roles: keyword rule %d needs match and titles", i)
		}
		r.Keywords[i] = KeywordRule{Match: lowerAll(rule.Match), Titles: lowerAll(rule.Titles)}
	}

	return &r, nil
}

// Canonical returns the role set spelling of title, ignoring case and
// surrounding whitespace.
func (r *Roles) Canonical(title string) (string, bool) {
	role, ok := r.index[strings.ToLower(strings.TrimSpace(title))]
	return role, ok
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

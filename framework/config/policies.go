package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy declares how a named service's instances are invalidated.
//
//	# lifetimes.yaml
//	api-token:
//	  kind: timed
//	  ttl: 90s
//	redis-cache:
//	  kind: conditional
type Policy struct {
	Kind string   `yaml:"kind"` // timed | conditional
	TTL  Duration `yaml:"ttl"`
}

// Policies maps service names to their declared policy.
type Policies map[string]Policy

// LoadPolicies reads a YAML policy file. An empty path or a missing file
// yields an empty (but usable) Policies map; a malformed file is an error.
func LoadPolicies(path string) (Policies, error) {
	if path == "" {
		return Policies{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Policies{}, nil
		}
		return nil, fmt.Errorf("read lifetime policies: %w", err)
	}

	var p Policies
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse lifetime policies: %w", err)
	}
	if p == nil {
		p = Policies{}
	}
	return p, nil
}

// TTL returns the declared interval for name, or fallback when the service
// has no policy or no ttl.
func (p Policies) TTL(name string, fallback time.Duration) time.Duration {
	pol, ok := p[name]
	if !ok || pol.TTL == 0 {
		return fallback
	}
	return time.Duration(pol.TTL)
}

// Kind returns the declared policy kind for name, or fallback.
func (p Policies) Kind(name, fallback string) string {
	pol, ok := p[name]
	if !ok || pol.Kind == "" {
		return fallback
	}
	return pol.Kind
}

// Duration is a time.Duration that unmarshals from YAML strings like "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

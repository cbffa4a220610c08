package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourcesFile is the structure of the MLS registry file.
//
//	sources:
//	  - code: "MRED"
//	    name: "Midwest Real Estate Data"
//	    rets_url: "https://rets.example.com/login"
//	    business_url: "https://www.mredllc.com"
type SourcesFile struct {
	Sources []MLSSource `yaml:"sources"`
}

// MLSSource is one configured listing feed.
type MLSSource struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	RetsURL     string `yaml:"rets_url"`
	BusinessURL string `yaml:"business_url"`
}

// LoadSources reads the MLS registry at path. A missing file yields an empty
// list rather than an error.
func LoadSources(path string) ([]MLSSource, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sources file %q: %w", path, err)
	}
	return ParseSources(data)
}

// ParseSources decodes and validates registry YAML.
func ParseSources(data []byte) ([]MLSSource, error) {
	var f SourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Sources))
	out := make([]MLSSource, 0, len(f.Sources))
	for i, s := range f.Sources {
		s.Code = strings.TrimSpace(s.Code)
		s.Name = strings.TrimSpace(s.Name)
		if s.Code == "" {
			return nil, fmt.Errorf("source %d: code is required", i+1)
		}
		if s.Name == "" {
			s.Name = s.Code
		}
		if _, dup := seen[s.Code]; dup {
			return nil, fmt.Errorf("source %d: duplicate code %q", i+1, s.Code)
		}
		seen[s.Code] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

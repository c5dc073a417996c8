//nolint:testpackage // Testing private functions like mergeExcludes, inferType
package config

import (
	"reflect"
	"slices"
	"testing"
)

func TestMergeExcludes(t *testing.T) {
	tests := []struct {
		name   string
		global []string
		source []string
		want   []string
	}{
		{
			name:   "both empty",
			global: []string{},
			source: []string{},
			want:   nil,
		},
		{
			name:   "only global",
			global: []string{"*.png", "*.jpg"},
			source: []string{},
			want:   []string{"*.jpg", "*.png"},
		},
		{
			name:   "only source",
			global: []string{},
			source: []string{"custom/**"},
			want:   []string{"custom/**"},
		},
		{
			name:   "no duplicates",
			global: []string{"*.png", "node_modules/**"},
			source: []string{"*.jpg", "dist/**"},
			want:   []string{"*.jpg", "*.png", "dist/**", "node_modules/**"},
		},
		{
			name:   "with duplicates",
			global: []string{"*.png", "node_modules/**"},
			source: []string{"*.png", "dist/**"},
			want:   []string{"*.png", "dist/**", "node_modules/**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeExcludes(tt.global, tt.source)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeExcludes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyDefaultsMergesGlobalExcludes(t *testing.T) {
	cfg := &Config{
		Output:   ".mathspan",
		Excludes: []string{"*.png", "node_modules/**"},
		Sources: map[string]Source{
			"dir-source": {
				Type:    "dir",
				Path:    "docs",
				Exclude: []string{"*.jpg", "*.png"}, // *.png is duplicate
			},
			"url-source": {
				Type:    "url",
				URL:     "https://example.com/doc.md",
				Exclude: []string{"*.pdf"},
			},
		},
		ConfigDir: "/tmp",
	}

	cfg.ApplyDefaults()

	dirExcludes := cfg.Sources["dir-source"].Exclude
	expectedDir := []string{"*.jpg", "*.png", "node_modules/**"}
	if !reflect.DeepEqual(dirExcludes, expectedDir) {
		t.Errorf("dir source excludes = %v, want %v", dirExcludes, expectedDir)
	}

	// URL source should be unchanged (global excludes don't apply)
	urlExcludes := cfg.Sources["url-source"].Exclude
	expectedURL := []string{"*.pdf"}
	if !reflect.DeepEqual(urlExcludes, expectedURL) {
		t.Errorf("URL source excludes = %v, want %v", urlExcludes, expectedURL)
	}
}

func TestDefaultExcludes(t *testing.T) {
	defaults := DefaultExcludes()

	if len(defaults) == 0 {
		t.Error("DefaultExcludes() should return non-empty slice")
	}

	requiredPatterns := []string{
		".vitepress/**",
		"node_modules/**",
		"**/*.png",
		"dist/**",
	}

	for _, required := range requiredPatterns {
		if !slices.Contains(defaults, required) {
			t.Errorf("DefaultExcludes() missing required pattern: %s", required)
		}
	}
}

func TestApplyDefaultsTypeInference(t *testing.T) {
	tests := []struct {
		name     string
		source   Source
		wantType string
	}{
		{
			name:     "infer dir from path",
			source:   Source{Path: "docs"},
			wantType: "dir",
		},
		{
			name:     "infer url from url field",
			source:   Source{URL: "https://example.com/doc.txt"},
			wantType: "url",
		},
		{
			name:     "url wins over path",
			source:   Source{Path: "docs", URL: "https://example.com/doc.txt"},
			wantType: "url",
		},
		{
			name:     "explicit type kept",
			source:   Source{Type: "custom", Path: "docs"},
			wantType: "custom",
		},
		{
			name:     "nothing to infer from",
			source:   Source{},
			wantType: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Sources: map[string]Source{
					"test": tt.source,
				},
			}

			cfg.ApplyDefaults()

			if got := cfg.Sources["test"].Type; got != tt.wantType {
				t.Errorf("Type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestApplyDefaultsPatterns(t *testing.T) {
	cfg := &Config{
		Sources: map[string]Source{
			"with-patterns": {
				Type:     "dir",
				Path:     "docs",
				Patterns: []string{"**/*.rst"},
			},
			"without-patterns": {
				Type: "dir",
				Path: "docs",
			},
			"url-source": {
				Type: "url",
				URL:  "https://example.com/doc.txt",
			},
		},
	}

	cfg.ApplyDefaults()

	withPatterns := cfg.Sources["with-patterns"].Patterns
	if len(withPatterns) != 1 || withPatterns[0] != "**/*.rst" {
		t.Errorf("with-patterns Patterns = %v, want [**/*.rst]", withPatterns)
	}

	withoutPatterns := cfg.Sources["without-patterns"].Patterns
	if !reflect.DeepEqual(withoutPatterns, DefaultPatterns()) {
		t.Errorf("without-patterns Patterns = %v, want %v", withoutPatterns, DefaultPatterns())
	}

	if urlPatterns := cfg.Sources["url-source"].Patterns; urlPatterns != nil {
		t.Errorf("url-source Patterns = %v, want nil", urlPatterns)
	}
}

func TestSourceRoot(t *testing.T) {
	cfg := &Config{ConfigDir: "/tmp/project"}

	if got := cfg.SourceRoot(Source{Path: "docs/guide"}); got != "/tmp/project/docs/guide" {
		t.Errorf("SourceRoot(relative) = %q", got)
	}
	if got := cfg.SourceRoot(Source{Path: "/srv/docs/"}); got != "/srv/docs" {
		t.Errorf("SourceRoot(absolute) = %q", got)
	}
}

func TestSourceNamesSorted(t *testing.T) {
	cfg := &Config{Sources: map[string]Source{"b": {}, "a": {}, "c": {}}}
	if got := cfg.SourceNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SourceNames() = %v", got)
	}
}

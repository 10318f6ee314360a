package jyaml

import (
	"encoding/json"
	"strings"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

var testJYAML = "# service\n\"name\": \"BenchmarkTest\"\n\"version\": \"1.0\"\n\"enabled\": true\n\"count\": 42\n\"tags\": [\"a\", \"b\",]"

// testYAML is the same document in plain YAML for yaml.v3.
var testYAML = "# service\nname: BenchmarkTest\nversion: \"1.0\"\nenabled: true\ncount: 42\ntags: [a, b]"

var testJSON = `{"name":"BenchmarkTest","version":"1.0","enabled":true,"count":42,"tags":["a","b"]}`

type BenchConfig struct {
	Name    string   `jyaml:"name" yaml:"name" json:"name"`
	Version string   `jyaml:"version" yaml:"version" json:"version"`
	Enabled bool     `jyaml:"enabled" yaml:"enabled" json:"enabled"`
	Count   int      `jyaml:"count" yaml:"count" json:"count"`
	Tags    []string `jyaml:"tags" yaml:"tags" json:"tags"`
}

func benchConfig() BenchConfig {
	return BenchConfig{Name: "test", Version: "1.0", Enabled: true, Count: 42, Tags: []string{"a", "b"}}
}

// ============================================================================
// shape-jyaml
// ============================================================================

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(testJYAML); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_JSON(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(testJSON); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseReader(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ParseReader(strings.NewReader(testJYAML)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := Validate(testJYAML); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSerialize(b *testing.B) {
	v, err := Parse(testJYAML)
	if err != nil {
		b.Fatal(err)
	}
	for _, preset := range []string{"compact", "pretty", "block"} {
		opts, _ := SerializeOptionsFromPreset(preset)
		b.Run(preset, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := SerializeWithOptions(v, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	data := []byte(testJYAML)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg BenchConfig
		if err := Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal(b *testing.B) {
	cfg := benchConfig()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Marshal(cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	cfg := benchConfig()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, err := Marshal(cfg)
		if err != nil {
			b.Fatal(err)
		}
		var result BenchConfig
		if err := Unmarshal(data, &result); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// gopkg.in/yaml.v3 and encoding/json for comparison
// ============================================================================

func BenchmarkYAMLv3_Unmarshal(b *testing.B) {
	data := []byte(testYAML)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg BenchConfig
		if err := yamlv3.Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkYAMLv3_Marshal(b *testing.B) {
	cfg := benchConfig()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := yamlv3.Marshal(cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJSON_Unmarshal(b *testing.B) {
	data := []byte(testJSON)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg BenchConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

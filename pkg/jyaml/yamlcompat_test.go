package jyaml

import (
	"errors"
	"strings"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/shapestone/shape-jyaml/pkg/value"
)

func TestFromYAML(t *testing.T) {
	input := `name: api
ports: [80, 443]
ratio: 0.5
enabled: true
nothing: ~
when: 2024-01-01
base: &base
  host: db
  port: 5432
copy: *base
script: |
  echo one
`
	v, err := FromYAML([]byte(input))
	if err != nil {
		t.Fatalf("FromYAML error: %v", err)
	}

	want, err := Parse(`{
  "name": "api",
  "ports": [80, 443],
  "ratio": 0.5,
  "enabled": true,
  "nothing": null,
  "when": "2024-01-01",
  "base": {"host": "db", "port": 5432},
  "copy": {"host": "db", "port": 5432},
  "script": "echo one\n",
}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !v.Equal(want) {
		t.Errorf("FromYAML mismatch:\n got %s\nwant %s", v, want)
	}

	obj, _ := v.AsObject()
	if keys := obj.Keys(); keys[0] != "name" || keys[len(keys)-1] != "script" {
		t.Errorf("Key order not preserved: %v", keys)
	}
}

func TestFromYAML_Edges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    value.Value
		wantErr bool
	}{
		{name: "empty document", input: "", want: value.Null()},
		{name: "comment only", input: "# nothing\n", want: value.Null()},
		{name: "scalar root", input: "42", want: value.Int(42)},
		{name: "custom tag is a string", input: "!thing abc", want: value.String("abc")},
		{name: "sequence key", input: "? [a, b]\n: 1\n", wantErr: true},
		{name: "nan", input: "x: .nan", wantErr: true},
		{name: "infinity", input: "[.inf]", wantErr: true},
		{name: "invalid yaml", input: "a: [1, 2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromYAML([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrDeserialization) {
					t.Errorf("Expected Deserialization error, got %v (%s)", err, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromYAML error: %v", err)
			}
			if !v.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, v)
			}
		})
	}
}

func TestToYAML(t *testing.T) {
	data, err := ToYAML(sample())
	if err != nil {
		t.Fatalf("ToYAML error: %v", err)
	}
	expected := `name: api
ports:
    - 80
    - 443
meta:
    a: true
empty: {}
`
	if string(data) != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, data)
	}

	if _, err := ToYAML(value.Array(value.Float(1), value.String("true"))); err != nil {
		t.Errorf("ToYAML error: %v", err)
	}
}

// TestToYAML_RoundTrip converts through yaml.v3 and back.
func TestToYAML_RoundTrip(t *testing.T) {
	for i, v := range roundTripValues() {
		data, err := ToYAML(v)
		if err != nil {
			t.Fatalf("case %d: ToYAML error: %v", i, err)
		}
		back, err := FromYAML(data)
		if err != nil {
			t.Fatalf("case %d: FromYAML error: %v\n%s", i, err, data)
		}
		if !back.Equal(v) {
			t.Errorf("case %d: round trip mismatch:\n got %s\nwant %s\n%s", i, back, v, data)
		}
	}
}

// TestBlockOutputIsYAML checks that double-quoted output is read by a YAML
// parser as the same data.
func TestBlockOutputIsYAML(t *testing.T) {
	presets := []string{"compact", "pretty", "block", "debug"}
	for _, preset := range presets {
		opts, _ := SerializeOptionsFromPreset(preset)
		t.Run(preset, func(t *testing.T) {
			for i, v := range roundTripValues() {
				text, err := SerializeWithOptions(v, opts)
				if err != nil {
					t.Fatalf("case %d: Serialize error: %v", i, err)
				}
				back, err := FromYAML([]byte(text))
				if err != nil {
					t.Fatalf("case %d: yaml.v3 rejected output: %v\n%s", i, err, text)
				}
				if !back.Equal(v) {
					t.Errorf("case %d: yaml.v3 read different data:\n got %s\nwant %s\n%s", i, back, v, text)
				}
			}
		})
	}
}

func TestYAMLUnmarshalOfBlockOutput(t *testing.T) {
	type service struct {
		Name  string   `yaml:"name" jyaml:"name"`
		Ports []int    `yaml:"ports" jyaml:"ports"`
		Tags  []string `yaml:"tags" jyaml:"tags"`
	}
	in := service{Name: "web: frontend", Ports: []int{80, 443}, Tags: []string{"#1", "- x"}}

	data, err := MarshalWithOptions(in, BlockSerializeOptions())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var out service
	if err := yamlv3.Unmarshal(data, &out); err != nil {
		t.Fatalf("yaml.v3 Unmarshal error: %v\n%s", err, data)
	}
	if out.Name != in.Name || len(out.Ports) != 2 || strings.Join(out.Tags, "|") != "#1|- x" {
		t.Errorf("yaml.v3 read %+v", out)
	}
}

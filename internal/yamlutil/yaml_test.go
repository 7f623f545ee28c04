package yamlutil

import (
	"bytes"
	"errors"
	"testing"
)

type sample struct {
	Addr    string `yaml:"addr"`
	Workers int    `yaml:"workers"`
}

func TestUnmarshal(t *testing.T) {
	var s sample
	if err := Unmarshal([]byte("addr: \":9090\"\nworkers: 4\n"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Addr != ":9090" || s.Workers != 4 {
		t.Errorf("got %+v", s)
	}
}

func TestUnmarshalValidation(t *testing.T) {
	var s sample

	if err := Unmarshal(nil, &s); !errors.Is(err, ErrNilData) {
		t.Errorf("nil data error = %v, want ErrNilData", err)
	}
	if err := Unmarshal([]byte("addr: x"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("nil dest error = %v, want ErrNilDestination", err)
	}

	big := bytes.Repeat([]byte("a"), MaxInputSize+1)
	if err := Unmarshal(big, &s); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("oversized error = %v, want ErrInputTooLarge", err)
	}
}

func TestUnmarshalStrictRejectsUnknownFields(t *testing.T) {
	var s sample
	err := UnmarshalStrict([]byte("addr: \":1\"\nbogus: true\n"), &s)
	if err == nil {
		t.Fatal("UnmarshalStrict() error = nil, want unknown-field failure")
	}

	// Non-strict accepts the same input.
	if err := Unmarshal([]byte("addr: \":1\"\nbogus: true\n"), &s); err != nil {
		t.Errorf("Unmarshal() error = %v", err)
	}
}

func TestUnmarshalInvalidYAML(t *testing.T) {
	var s sample
	if err := Unmarshal([]byte(":\n\t- broken"), &s); err == nil {
		t.Fatal("Unmarshal() error = nil, want parse failure")
	}
}

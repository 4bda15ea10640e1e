package model

import (
	"encoding/json"
	"strings"
	"testing"

	G "gorgonia.org/gorgonia"
)

// fakeModel is a minimal Model for exercising the registry.
type fakeModel struct {
	g      *G.ExprGraph
	closed bool
}

func (f *fakeModel) Graph() *G.ExprGraph { return f.g }
func (f *fakeModel) Learnables() G.Nodes { return nil }
func (f *fakeModel) Close() error        { f.closed = true; return nil }

func fakeBuilder(json.RawMessage) (Model, error) {
	return &fakeModel{g: G.NewGraph()}, nil
}

func TestRegisterAndNew(t *testing.T) {
	Register("registry_test_fake", fakeBuilder)

	m, err := New("registry_test_fake", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if m.Graph() == nil {
		t.Fatal("new: built model should carry a graph")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("registry_test_duplicate", fakeBuilder)

	defer func() {
		if recover() == nil {
			t.Fatal("registering a duplicate name should panic")
		}
	}()
	Register("registry_test_duplicate", fakeBuilder)
}

func TestNewUnknownModel(t *testing.T) {
	_, err := New("registry_test_unknown", nil)
	if err == nil {
		t.Fatal("new: expected an error for an unregistered name")
	}
	if !strings.Contains(err.Error(), "unknown model") {
		t.Fatalf("new: error should name the unknown model, got %q", err)
	}
}

func TestRegisteredSorted(t *testing.T) {
	Register("registry_test_b", fakeBuilder)
	Register("registry_test_a", fakeBuilder)

	names := Registered()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("registered names out of order: %v", names)
		}
	}
}

package wire

import "testing"

func TestCompileResolvesEveryMessageAndTheService(t *testing.T) {
	s, err := Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if s.Service == nil {
		t.Fatal("Service descriptor is nil")
	}
	methods := s.Service.GetMethods()
	if len(methods) != 1 || methods[0].GetName() != "Translate" {
		t.Errorf("got methods %v, want exactly one named Translate", methods)
	}
	if s.ElaboratedProgram == nil || s.Program == nil {
		t.Fatal("request/response message descriptors are nil")
	}
}

func TestDefaultSchemaIsUsableWithoutRecompiling(t *testing.T) {
	if defaultSchema == nil {
		t.Fatal("defaultSchema is nil")
	}
	if defaultSchema.Term == nil {
		t.Fatal("defaultSchema.Term is nil")
	}
}

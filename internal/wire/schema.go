// Package wire is the elaborator/translator transport boundary (§1: the
// ModelLang parser and elaborator are an external collaborator, not
// re-specified here). It defines the wire format for an elaborated
// program and for the emitted transition system, and a gRPC service that
// lets an out-of-process elaborator hand a program to this translator.
//
// Rather than requiring a protoc-generated stub pair, the schema is
// compiled at runtime with protoparse and manipulated through
// jhump/protoreflect's dynamic.Message — the same pattern the teacher
// uses for its own `grpcLoadProto`/`protoEncode`/`protoDecode` builtins
// (internal/evaluator/builtins_grpc.go).
package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

const schemaFileName = "smtts.proto"

const schemaSource = `
syntax = "proto3";
package smtts;

message Term {
  oneof kind {
    string var = 1;
    bool bool_lit = 2;
    int64 int_lit = 3;
    double real_lit = 4;
    App app = 5;
  }
}

message App {
  string op = 1;
  repeated Term args = 2;
}

message LetBinding {
  string var = 1;
  Term expr = 2;
}

message StateVar {
  string name = 1;
  int32 type = 2;
  bool input = 3;
}

message StateType {
  string name = 1;
  repeated StateVar vars = 2;
}

message InitialState {
  string name = 1;
  string state_type_name = 2;
  Term pred = 3;
}

message Transition {
  string name = 1;
  string state_type_name = 2;
  repeated LetBinding lets = 3;
  Term pred = 4;
}

message System {
  string name = 1;
  string state_type_name = 2;
  string initial_state_name = 3;
  string master_transition = 4;
}

message Program {
  StateType state_type = 1;
  InitialState init = 2;
  repeated Transition transitions = 3;
  System system = 4;
  Term assumptions = 5;
}

message Const {
  int32 type = 1;
  bool b = 2;
  int64 i = 3;
  double r = 4;
}

message GroupNode { repeated StateNode children = 1; }
message VarNode { Const init = 1; }
message ChanNode { int32 elem_type = 1; int32 id = 2; }

message StateNode {
  string segment = 1;
  oneof kind {
    GroupNode group = 2;
    VarNode var = 3;
    ChanNode chan = 4;
  }
}

message ExprNode {
  int32 kind = 1;
  string var_name = 2;
  int32 chan_id = 3;
  Const lit = 4;
  repeated uint32 args = 5;
  string fn_name = 6;
}

message ChannelDescriptor {
  int32 id = 1;
  string name = 2;
  int32 elem_type = 3;
  string writer_node = 4;
  string reader_node = 5;
}

message Assignment { string target = 1; uint32 value = 2; }
message ChannelWrite { int32 channel_id = 1; uint32 value = 2; }

message Rule {
  int32 id = 1;
  string node_name = 2;
  bool has_guard = 3;
  uint32 guard = 4;
  repeated Assignment assigns = 5;
  repeated ChannelWrite writes = 6;
  repeated uint32 used = 7;
}

message ExprEntry {
  uint32 hash = 1;
  ExprNode node = 2;
}

message ElaboratedProgram {
  string system = 1;
  StateNode hierarchy = 2;
  repeated ExprEntry exprs = 3;
  repeated Rule rules = 4;
  repeated ChannelDescriptor channels = 5;
}

service TranslationService {
  rpc Translate(ElaboratedProgram) returns (Program);
}
`

// Schema holds the compiled descriptors for every message the wire format
// uses, looked up once at package init and reused by every encode/decode
// call.
type Schema struct {
	file *desc.FileDescriptor

	Term              *desc.MessageDescriptor
	App               *desc.MessageDescriptor
	LetBinding        *desc.MessageDescriptor
	StateVar          *desc.MessageDescriptor
	StateType         *desc.MessageDescriptor
	InitialState      *desc.MessageDescriptor
	Transition        *desc.MessageDescriptor
	System            *desc.MessageDescriptor
	Program           *desc.MessageDescriptor
	Const             *desc.MessageDescriptor
	GroupNode         *desc.MessageDescriptor
	VarNode           *desc.MessageDescriptor
	ChanNode          *desc.MessageDescriptor
	StateNode         *desc.MessageDescriptor
	ExprNode          *desc.MessageDescriptor
	ExprEntry         *desc.MessageDescriptor
	ChannelDescriptor *desc.MessageDescriptor
	Assignment        *desc.MessageDescriptor
	ChannelWrite      *desc.MessageDescriptor
	Rule              *desc.MessageDescriptor
	ElaboratedProgram *desc.MessageDescriptor

	Service *desc.ServiceDescriptor
}

// Compile parses the embedded schema and resolves every message
// descriptor the encoders need.
func Compile() (*Schema, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{schemaFileName: schemaSource}),
	}
	fds, err := parser.ParseFiles(schemaFileName)
	if err != nil {
		return nil, fmt.Errorf("compiling wire schema: %w", err)
	}
	fd := fds[0]

	msg := func(name string) *desc.MessageDescriptor {
		m := fd.FindMessage("smtts." + name)
		return m
	}

	s := &Schema{
		file:              fd,
		Term:              msg("Term"),
		App:               msg("App"),
		LetBinding:        msg("LetBinding"),
		StateVar:          msg("StateVar"),
		StateType:         msg("StateType"),
		InitialState:      msg("InitialState"),
		Transition:        msg("Transition"),
		System:            msg("System"),
		Program:           msg("Program"),
		Const:             msg("Const"),
		GroupNode:         msg("GroupNode"),
		VarNode:           msg("VarNode"),
		ChanNode:          msg("ChanNode"),
		StateNode:         msg("StateNode"),
		ExprNode:          msg("ExprNode"),
		ExprEntry:         msg("ExprEntry"),
		ChannelDescriptor: msg("ChannelDescriptor"),
		Assignment:        msg("Assignment"),
		ChannelWrite:      msg("ChannelWrite"),
		Rule:              msg("Rule"),
		ElaboratedProgram: msg("ElaboratedProgram"),
		Service:           fd.FindService("smtts.TranslationService"),
	}

	for name, m := range map[string]*desc.MessageDescriptor{
		"Term": s.Term, "App": s.App, "LetBinding": s.LetBinding, "StateVar": s.StateVar,
		"StateType": s.StateType, "InitialState": s.InitialState, "Transition": s.Transition,
		"System": s.System, "Program": s.Program, "Const": s.Const, "GroupNode": s.GroupNode,
		"VarNode": s.VarNode, "ChanNode": s.ChanNode, "StateNode": s.StateNode,
		"ExprNode": s.ExprNode, "ExprEntry": s.ExprEntry, "ChannelDescriptor": s.ChannelDescriptor,
		"Assignment": s.Assignment, "ChannelWrite": s.ChannelWrite, "Rule": s.Rule,
		"ElaboratedProgram": s.ElaboratedProgram,
	} {
		if m == nil {
			return nil, fmt.Errorf("compiling wire schema: message %q not found", name)
		}
	}

	return s, nil
}

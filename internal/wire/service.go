package wire

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/pipeline"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// ProgramCache is the subset of internal/cache.Cache the server needs. It
// is declared here, rather than importing internal/cache directly, because
// the cache package itself uses this package's encoding to serialize
// entries — importing the concrete type back would make an import cycle.
type ProgramCache interface {
	Put(ctx context.Context, contentHash string, prog *smtts.Program) error
}

// TranslationServer implements the TranslationService gRPC service: it
// accepts an elaborated program over the wire and returns the translated
// smtts.Program, running it through the same internal/pipeline an
// in-process caller would use. This is the out-of-process half of §1's
// elaborator/translator boundary — grounded in the teacher's
// grpcRegister/FunxyGrpcHandler pattern (internal/evaluator/builtins_grpc.go),
// adapted from a dynamically-typed handler dispatch to a single fixed RPC.
type TranslationServer struct {
	Schema *Schema
	Faults ir.FaultConfig
	Cache  ProgramCache // optional; nil disables caching
}

// NewTranslationServer builds a server against the package's compiled
// schema. c may be a *cache.Cache, or nil to disable caching.
func NewTranslationServer(faults ir.FaultConfig, c ProgramCache) *TranslationServer {
	return &TranslationServer{Schema: defaultSchema, Faults: faults, Cache: c}
}

// Translate runs one elaborated program through the pipeline. Each
// request gets a correlation id, included in the text of any error it
// returns, so a translation failure can be traced back through an
// operator's logs without threading a request id through every layer.
func (s *TranslationServer) Translate(ctx context.Context, req *ir.Elaborated) (*pipeline.PipelineContext, error) {
	correlationID := uuid.New()
	pc := pipeline.Standard().Run(&pipeline.PipelineContext{Program: req, FaultConfig: s.Faults})
	if len(pc.Errors) > 0 {
		return pc, fmt.Errorf("translation %s failed: %s", correlationID, pc.Errors[0])
	}
	if s.Cache != nil {
		hash := ContentHash(req)
		if err := s.Cache.Put(ctx, hash, pc.Result); err != nil {
			return pc, fmt.Errorf("translation %s: caching result: %w", correlationID, err)
		}
	}
	return pc, nil
}

// ServiceDesc builds the hand-wired grpc.ServiceDesc for TranslationService,
// using the schema's compiled descriptor instead of a protoc-generated
// stub — the same tradeoff the teacher's grpcRegister builtin makes to let
// a service be registered from a descriptor loaded at runtime.
func (s *TranslationServer) ServiceDesc() *grpc.ServiceDesc {
	sd := s.Schema.Service
	desc := &grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    "smtts.proto",
	}
	for _, method := range sd.GetMethods() {
		m := method
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.GetName(),
			Handler:    translateHandler(s.Schema, m),
		})
	}
	return desc
}

func translateHandler(schema *Schema, md *desc.MethodDescriptor) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		server := srv.(*TranslationServer)

		reqMsg := dynamic.NewMessage(schema.ElaboratedProgram)
		if err := dec(reqMsg); err != nil {
			return nil, err
		}
		elaborated, err := schema.decodeElaborated(reqMsg)
		if err != nil {
			return nil, fmt.Errorf("decoding request: %w", err)
		}

		if interceptor == nil {
			return server.handle(ctx, elaborated)
		}
		info := &grpc.UnaryServerInfo{Server: server, FullMethod: "/" + md.GetService().GetFullyQualifiedName() + "/" + md.GetName()}
		return interceptor(ctx, elaborated, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return server.handle(ctx, req.(*ir.Elaborated))
		})
	}
}

func (s *TranslationServer) handle(ctx context.Context, req *ir.Elaborated) (interface{}, error) {
	pc, err := s.Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Schema.encodeProgram(pc.Result)
}

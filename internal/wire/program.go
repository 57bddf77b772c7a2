package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

var defaultSchema = mustCompile()

func mustCompile() *Schema {
	s, err := Compile()
	if err != nil {
		panic(err)
	}
	return s
}

// EncodeProgram serializes a translated smtts.Program to wire bytes, using
// the package-level compiled schema. This is both the gRPC response wire
// format (TranslationService.Translate) and the format internal/cache
// persists, so the two always agree on what a cached/transmitted
// translation looks like.
func EncodeProgram(p *smtts.Program) ([]byte, error) {
	msg, err := defaultSchema.encodeProgram(p)
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// DecodeProgram is EncodeProgram's inverse.
func DecodeProgram(data []byte) (*smtts.Program, error) {
	msg := dynamic.NewMessage(defaultSchema.Program)
	if err := msg.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	return defaultSchema.decodeProgram(msg)
}

func (s *Schema) encodeStateVar(v smtts.StateVar) *dynamic.Message {
	m := dynamic.NewMessage(s.StateVar)
	m.SetFieldByName("name", string(v.Name))
	m.SetFieldByName("type", int32(v.Type))
	m.SetFieldByName("input", v.Input)
	return m
}

func (s *Schema) decodeStateVar(m *dynamic.Message) smtts.StateVar {
	return smtts.StateVar{
		Name:  names.Name(m.GetFieldByName("name").(string)),
		Type:  smtts.Type(m.GetFieldByName("type").(int32)),
		Input: m.GetFieldByName("input").(bool),
	}
}

func (s *Schema) encodeStateType(st smtts.StateType) *dynamic.Message {
	m := dynamic.NewMessage(s.StateType)
	m.SetFieldByName("name", string(st.Name))
	vars := make([]interface{}, 0, len(st.Vars))
	for _, v := range st.Vars {
		vars = append(vars, s.encodeStateVar(v))
	}
	m.SetFieldByName("vars", vars)
	return m
}

func (s *Schema) decodeStateType(m *dynamic.Message) smtts.StateType {
	raw, _ := m.GetFieldByName("vars").([]interface{})
	vars := make([]smtts.StateVar, 0, len(raw))
	for _, r := range raw {
		vars = append(vars, s.decodeStateVar(r.(*dynamic.Message)))
	}
	return smtts.StateType{
		Name: names.Name(m.GetFieldByName("name").(string)),
		Vars: vars,
	}
}

func (s *Schema) encodeLetBinding(lb smtts.LetBinding) (*dynamic.Message, error) {
	m := dynamic.NewMessage(s.LetBinding)
	m.SetFieldByName("var", lb.Var)
	expr, err := s.encodeTerm(lb.Expr)
	if err != nil {
		return nil, err
	}
	m.SetFieldByName("expr", expr)
	return m, nil
}

func (s *Schema) decodeLetBinding(m *dynamic.Message) (smtts.LetBinding, error) {
	expr, ok := m.GetFieldByName("expr").(*dynamic.Message)
	if !ok {
		return smtts.LetBinding{}, fmt.Errorf("decoding let binding: missing expr")
	}
	term, err := s.decodeTerm(expr)
	if err != nil {
		return smtts.LetBinding{}, err
	}
	return smtts.LetBinding{Var: m.GetFieldByName("var").(string), Expr: term}, nil
}

func (s *Schema) encodeInitialState(init smtts.InitialState) (*dynamic.Message, error) {
	m := dynamic.NewMessage(s.InitialState)
	m.SetFieldByName("name", string(init.Name))
	m.SetFieldByName("state_type_name", string(init.StateTypeName))
	pred, err := s.encodeTerm(init.Pred)
	if err != nil {
		return nil, err
	}
	m.SetFieldByName("pred", pred)
	return m, nil
}

func (s *Schema) decodeInitialState(m *dynamic.Message) (smtts.InitialState, error) {
	pred, ok := m.GetFieldByName("pred").(*dynamic.Message)
	if !ok {
		return smtts.InitialState{}, fmt.Errorf("decoding initial state: missing pred")
	}
	term, err := s.decodeTerm(pred)
	if err != nil {
		return smtts.InitialState{}, err
	}
	return smtts.InitialState{
		Name:          names.Name(m.GetFieldByName("name").(string)),
		StateTypeName: names.Name(m.GetFieldByName("state_type_name").(string)),
		Pred:          term,
	}, nil
}

func (s *Schema) encodeTransition(t smtts.Transition) (*dynamic.Message, error) {
	m := dynamic.NewMessage(s.Transition)
	m.SetFieldByName("name", string(t.Name))
	m.SetFieldByName("state_type_name", string(t.StateTypeName))
	lets := make([]interface{}, 0, len(t.Lets))
	for _, lb := range t.Lets {
		lm, err := s.encodeLetBinding(lb)
		if err != nil {
			return nil, err
		}
		lets = append(lets, lm)
	}
	m.SetFieldByName("lets", lets)
	pred, err := s.encodeTerm(t.Pred)
	if err != nil {
		return nil, err
	}
	m.SetFieldByName("pred", pred)
	return m, nil
}

func (s *Schema) decodeTransition(m *dynamic.Message) (smtts.Transition, error) {
	raw, _ := m.GetFieldByName("lets").([]interface{})
	lets := make([]smtts.LetBinding, 0, len(raw))
	for _, r := range raw {
		lb, err := s.decodeLetBinding(r.(*dynamic.Message))
		if err != nil {
			return smtts.Transition{}, err
		}
		lets = append(lets, lb)
	}
	pred, ok := m.GetFieldByName("pred").(*dynamic.Message)
	if !ok {
		return smtts.Transition{}, fmt.Errorf("decoding transition: missing pred")
	}
	term, err := s.decodeTerm(pred)
	if err != nil {
		return smtts.Transition{}, err
	}
	return smtts.Transition{
		Name:          names.Name(m.GetFieldByName("name").(string)),
		StateTypeName: names.Name(m.GetFieldByName("state_type_name").(string)),
		Lets:          lets,
		Pred:          term,
	}, nil
}

func (s *Schema) encodeSystem(sys smtts.System) *dynamic.Message {
	m := dynamic.NewMessage(s.System)
	m.SetFieldByName("name", string(sys.Name))
	m.SetFieldByName("state_type_name", string(sys.StateTypeName))
	m.SetFieldByName("initial_state_name", string(sys.InitialStateName))
	m.SetFieldByName("master_transition", string(sys.MasterTransition))
	return m
}

func (s *Schema) decodeSystem(m *dynamic.Message) smtts.System {
	return smtts.System{
		Name:             names.Name(m.GetFieldByName("name").(string)),
		StateTypeName:    names.Name(m.GetFieldByName("state_type_name").(string)),
		InitialStateName: names.Name(m.GetFieldByName("initial_state_name").(string)),
		MasterTransition: names.Name(m.GetFieldByName("master_transition").(string)),
	}
}

func (s *Schema) encodeProgram(p *smtts.Program) (*dynamic.Message, error) {
	m := dynamic.NewMessage(s.Program)
	m.SetFieldByName("state_type", s.encodeStateType(p.StateType))

	init, err := s.encodeInitialState(p.Init)
	if err != nil {
		return nil, err
	}
	m.SetFieldByName("init", init)

	transitions := make([]interface{}, 0, len(p.Transitions))
	for _, t := range p.Transitions {
		tm, err := s.encodeTransition(t)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, tm)
	}
	m.SetFieldByName("transitions", transitions)
	m.SetFieldByName("system", s.encodeSystem(p.System))

	assumptions, err := s.encodeTerm(p.Assumptions)
	if err != nil {
		return nil, err
	}
	m.SetFieldByName("assumptions", assumptions)
	return m, nil
}

func (s *Schema) decodeProgram(m *dynamic.Message) (*smtts.Program, error) {
	stMsg, ok := m.GetFieldByName("state_type").(*dynamic.Message)
	if !ok {
		return nil, fmt.Errorf("decoding program: missing state_type")
	}
	initMsg, ok := m.GetFieldByName("init").(*dynamic.Message)
	if !ok {
		return nil, fmt.Errorf("decoding program: missing init")
	}
	init, err := s.decodeInitialState(initMsg)
	if err != nil {
		return nil, err
	}

	rawTransitions, _ := m.GetFieldByName("transitions").([]interface{})
	transitions := make([]smtts.Transition, 0, len(rawTransitions))
	for _, r := range rawTransitions {
		t, err := s.decodeTransition(r.(*dynamic.Message))
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}

	sysMsg, ok := m.GetFieldByName("system").(*dynamic.Message)
	if !ok {
		return nil, fmt.Errorf("decoding program: missing system")
	}

	assumptionsMsg, ok := m.GetFieldByName("assumptions").(*dynamic.Message)
	if !ok {
		return nil, fmt.Errorf("decoding program: missing assumptions")
	}
	assumptions, err := s.decodeTerm(assumptionsMsg)
	if err != nil {
		return nil, err
	}

	return &smtts.Program{
		StateType:   s.decodeStateType(stMsg),
		Init:        init,
		Transitions: transitions,
		System:      s.decodeSystem(sysMsg),
		Assumptions: assumptions,
	}, nil
}

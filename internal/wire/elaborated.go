package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
)

// EncodeElaboratedProgram serializes an ir.Program to wire bytes — the
// request side of TranslationService.Translate, and the format an
// out-of-process elaborator would actually speak.
func EncodeElaboratedProgram(p ir.Program) ([]byte, error) {
	msg, err := defaultSchema.encodeElaborated(p)
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// DecodeElaboratedProgram is EncodeElaboratedProgram's inverse. The result
// is a plain *ir.Elaborated, safe to feed straight into translate.Translate
// or internal/pipeline.
func DecodeElaboratedProgram(data []byte) (*ir.Elaborated, error) {
	msg := dynamic.NewMessage(defaultSchema.ElaboratedProgram)
	if err := msg.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("decoding elaborated program: %w", err)
	}
	return defaultSchema.decodeElaborated(msg)
}

func (s *Schema) encodeConst(c ir.Const) *dynamic.Message {
	m := dynamic.NewMessage(s.Const)
	m.SetFieldByName("type", int32(c.Type))
	m.SetFieldByName("b", c.B)
	m.SetFieldByName("i", c.I)
	m.SetFieldByName("r", c.R)
	return m
}

func (s *Schema) decodeConst(m *dynamic.Message) ir.Const {
	return ir.Const{
		Type: ir.PrimType(m.GetFieldByName("type").(int32)),
		B:    m.GetFieldByName("b").(bool),
		I:    m.GetFieldByName("i").(int64),
		R:    m.GetFieldByName("r").(float64),
	}
}

func (s *Schema) encodeStateNode(n ir.StateNode) (*dynamic.Message, error) {
	m := dynamic.NewMessage(s.StateNode)
	m.SetFieldByName("segment", n.Segment())
	switch v := n.(type) {
	case *ir.Group:
		gm := dynamic.NewMessage(s.GroupNode)
		children := make([]interface{}, 0, len(v.Children))
		for _, c := range v.Children {
			cm, err := s.encodeStateNode(c)
			if err != nil {
				return nil, err
			}
			children = append(children, cm)
		}
		gm.SetFieldByName("children", children)
		m.SetFieldByName("group", gm)
	case *ir.Var:
		vm := dynamic.NewMessage(s.VarNode)
		vm.SetFieldByName("init", s.encodeConst(v.Init))
		m.SetFieldByName("var", vm)
	case *ir.Chan:
		cm := dynamic.NewMessage(s.ChanNode)
		cm.SetFieldByName("elem_type", int32(v.ElemType))
		cm.SetFieldByName("id", int32(v.ID))
		m.SetFieldByName("chan", cm)
	default:
		return nil, fmt.Errorf("encoding state node: unknown StateNode implementation %T", n)
	}
	return m, nil
}

func (s *Schema) decodeStateNode(m *dynamic.Message) (ir.StateNode, error) {
	seg, _ := m.GetFieldByName("segment").(string)
	switch m.WhichOneof(s.StateNode.GetOneOfs()[0]) {
	case "group":
		gm, ok := m.GetFieldByName("group").(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding state node: malformed group")
		}
		raw, _ := gm.GetFieldByName("children").([]interface{})
		children := make([]ir.StateNode, 0, len(raw))
		for _, r := range raw {
			c, err := s.decodeStateNode(r.(*dynamic.Message))
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		return &ir.Group{Seg: seg, Children: children}, nil
	case "var":
		vm, ok := m.GetFieldByName("var").(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding state node: malformed var")
		}
		initMsg, ok := vm.GetFieldByName("init").(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding state node: missing var.init")
		}
		return &ir.Var{Seg: seg, Init: s.decodeConst(initMsg)}, nil
	case "chan":
		cm, ok := m.GetFieldByName("chan").(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding state node: malformed chan")
		}
		return &ir.Chan{
			Seg:      seg,
			ElemType: ir.PrimType(cm.GetFieldByName("elem_type").(int32)),
			ID:       int(cm.GetFieldByName("id").(int32)),
		}, nil
	default:
		return nil, fmt.Errorf("decoding state node: empty oneof (no kind set)")
	}
}

func (s *Schema) encodeExprNode(n ir.Node) *dynamic.Message {
	m := dynamic.NewMessage(s.ExprNode)
	m.SetFieldByName("kind", int32(n.Kind))
	m.SetFieldByName("var_name", string(n.VarName))
	m.SetFieldByName("chan_id", int32(n.ChanID))
	m.SetFieldByName("lit", s.encodeConst(n.Lit))
	args := make([]interface{}, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, uint32(a))
	}
	m.SetFieldByName("args", args)
	m.SetFieldByName("fn_name", n.FnName)
	return m
}

func (s *Schema) decodeExprNode(m *dynamic.Message) (ir.Node, error) {
	litMsg, ok := m.GetFieldByName("lit").(*dynamic.Message)
	if !ok {
		return ir.Node{}, fmt.Errorf("decoding expr node: missing lit")
	}
	rawArgs, _ := m.GetFieldByName("args").([]interface{})
	args := make([]ir.Hash, 0, len(rawArgs))
	for _, a := range rawArgs {
		args = append(args, ir.Hash(a.(uint32)))
	}
	return ir.Node{
		Kind:    ir.NodeKind(m.GetFieldByName("kind").(int32)),
		VarName: names.Name(m.GetFieldByName("var_name").(string)),
		ChanID:  int(m.GetFieldByName("chan_id").(int32)),
		Lit:     s.decodeConst(litMsg),
		Args:    args,
		FnName:  m.GetFieldByName("fn_name").(string),
	}, nil
}

func (s *Schema) encodeChannelDescriptor(c ir.ChannelDescriptor) *dynamic.Message {
	m := dynamic.NewMessage(s.ChannelDescriptor)
	m.SetFieldByName("id", int32(c.ID))
	m.SetFieldByName("name", string(c.Name))
	m.SetFieldByName("elem_type", int32(c.ElemType))
	m.SetFieldByName("writer_node", string(c.WriterNode))
	m.SetFieldByName("reader_node", string(c.ReaderNode))
	return m
}

func (s *Schema) decodeChannelDescriptor(m *dynamic.Message) ir.ChannelDescriptor {
	return ir.ChannelDescriptor{
		ID:         int(m.GetFieldByName("id").(int32)),
		Name:       names.Name(m.GetFieldByName("name").(string)),
		ElemType:   ir.PrimType(m.GetFieldByName("elem_type").(int32)),
		WriterNode: names.Name(m.GetFieldByName("writer_node").(string)),
		ReaderNode: names.Name(m.GetFieldByName("reader_node").(string)),
	}
}

func (s *Schema) encodeRule(r ir.Rule) *dynamic.Message {
	m := dynamic.NewMessage(s.Rule)
	m.SetFieldByName("id", int32(r.ID))
	m.SetFieldByName("node_name", string(r.NodeName))
	m.SetFieldByName("has_guard", r.HasGuard)
	m.SetFieldByName("guard", uint32(r.Guard))

	assigns := make([]interface{}, 0, len(r.Assigns))
	for _, a := range r.Assigns {
		am := dynamic.NewMessage(s.Assignment)
		am.SetFieldByName("target", string(a.Target))
		am.SetFieldByName("value", uint32(a.Value))
		assigns = append(assigns, am)
	}
	m.SetFieldByName("assigns", assigns)

	writes := make([]interface{}, 0, len(r.Writes))
	for _, w := range r.Writes {
		wm := dynamic.NewMessage(s.ChannelWrite)
		wm.SetFieldByName("channel_id", int32(w.ChannelID))
		wm.SetFieldByName("value", uint32(w.Value))
		writes = append(writes, wm)
	}
	m.SetFieldByName("writes", writes)

	used := make([]interface{}, 0, len(r.Used))
	for _, h := range r.Used {
		used = append(used, uint32(h))
	}
	m.SetFieldByName("used", used)
	return m
}

func (s *Schema) decodeRule(m *dynamic.Message) (ir.Rule, error) {
	rawAssigns, _ := m.GetFieldByName("assigns").([]interface{})
	assigns := make([]ir.Assignment, 0, len(rawAssigns))
	for _, r := range rawAssigns {
		am, ok := r.(*dynamic.Message)
		if !ok {
			return ir.Rule{}, fmt.Errorf("decoding rule: malformed assignment")
		}
		assigns = append(assigns, ir.Assignment{
			Target: names.Name(am.GetFieldByName("target").(string)),
			Value:  ir.Hash(am.GetFieldByName("value").(uint32)),
		})
	}

	rawWrites, _ := m.GetFieldByName("writes").([]interface{})
	writes := make([]ir.ChannelWrite, 0, len(rawWrites))
	for _, r := range rawWrites {
		wm, ok := r.(*dynamic.Message)
		if !ok {
			return ir.Rule{}, fmt.Errorf("decoding rule: malformed channel write")
		}
		writes = append(writes, ir.ChannelWrite{
			ChannelID: int(wm.GetFieldByName("channel_id").(int32)),
			Value:     ir.Hash(wm.GetFieldByName("value").(uint32)),
		})
	}

	rawUsed, _ := m.GetFieldByName("used").([]interface{})
	used := make([]ir.Hash, 0, len(rawUsed))
	for _, h := range rawUsed {
		used = append(used, ir.Hash(h.(uint32)))
	}

	return ir.Rule{
		ID:       int(m.GetFieldByName("id").(int32)),
		NodeName: names.Name(m.GetFieldByName("node_name").(string)),
		HasGuard: m.GetFieldByName("has_guard").(bool),
		Guard:    ir.Hash(m.GetFieldByName("guard").(uint32)),
		Assigns:  assigns,
		Writes:   writes,
		Used:     used,
	}, nil
}

func (s *Schema) encodeElaborated(p ir.Program) (*dynamic.Message, error) {
	m := dynamic.NewMessage(s.ElaboratedProgram)
	m.SetFieldByName("system", string(p.System()))

	hierarchy, err := s.encodeStateNode(p.Hierarchy())
	if err != nil {
		return nil, err
	}
	m.SetFieldByName("hierarchy", hierarchy)

	all, err := p.Expressions().Closure(allRoots(p))
	if err != nil {
		return nil, fmt.Errorf("encoding elaborated program: %w", err)
	}
	entries := make([]interface{}, 0, len(all))
	for _, h := range all {
		n, ok := p.Expressions().Lookup(h)
		if !ok {
			continue
		}
		em := dynamic.NewMessage(s.ExprEntry)
		em.SetFieldByName("hash", uint32(h))
		em.SetFieldByName("node", s.encodeExprNode(n))
		entries = append(entries, em)
	}
	m.SetFieldByName("exprs", entries)

	rules := make([]interface{}, 0, len(p.Rules()))
	for _, r := range p.Rules() {
		rules = append(rules, s.encodeRule(r))
	}
	m.SetFieldByName("rules", rules)

	channels := make([]interface{}, 0, len(p.Channels()))
	for _, c := range p.Channels() {
		channels = append(channels, s.encodeChannelDescriptor(c))
	}
	m.SetFieldByName("channels", channels)
	return m, nil
}

func (s *Schema) decodeElaborated(m *dynamic.Message) (*ir.Elaborated, error) {
	hierarchyMsg, ok := m.GetFieldByName("hierarchy").(*dynamic.Message)
	if !ok {
		return nil, fmt.Errorf("decoding elaborated program: missing hierarchy")
	}
	hierarchy, err := s.decodeStateNode(hierarchyMsg)
	if err != nil {
		return nil, err
	}

	exprs := ir.NewUeMap()
	rawEntries, _ := m.GetFieldByName("exprs").([]interface{})
	for _, r := range rawEntries {
		em, ok := r.(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding elaborated program: malformed expr entry")
		}
		nodeMsg, ok := em.GetFieldByName("node").(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding elaborated program: missing expr entry node")
		}
		n, err := s.decodeExprNode(nodeMsg)
		if err != nil {
			return nil, err
		}
		exprs.Insert(ir.Hash(em.GetFieldByName("hash").(uint32)), n)
	}

	rawRules, _ := m.GetFieldByName("rules").([]interface{})
	rules := make([]ir.Rule, 0, len(rawRules))
	for _, r := range rawRules {
		rule, err := s.decodeRule(r.(*dynamic.Message))
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	rawChannels, _ := m.GetFieldByName("channels").([]interface{})
	channels := make([]ir.ChannelDescriptor, 0, len(rawChannels))
	for _, r := range rawChannels {
		channels = append(channels, s.decodeChannelDescriptor(r.(*dynamic.Message)))
	}

	return &ir.Elaborated{
		SystemName:  names.Name(m.GetFieldByName("system").(string)),
		Root:        hierarchy,
		Exprs:       exprs,
		RuleList:    rules,
		ChannelList: channels,
	}, nil
}

// allRoots collects every hash a program's rules reference, as roots for
// the expression-map closure that determines what gets serialized.
func allRoots(p ir.Program) []ir.Hash {
	var roots []ir.Hash
	for _, r := range p.Rules() {
		if r.HasGuard {
			roots = append(roots, r.Guard)
		}
		for _, a := range r.Assigns {
			roots = append(roots, a.Value)
		}
		for _, w := range r.Writes {
			roots = append(roots, w.Value)
		}
		roots = append(roots, r.Used...)
	}
	return roots
}

package bt

import (
	"errors"
	"fmt"

	"github.com/cwbudde/go-rea/pkg/script"
)

// The compiler lowers parsed script trees to IR in two phases.
// Phase one registers every root declaration under a placeholder
// root so declarations may reference each other in any order; phase
// two compiles each body against the then-complete identifier space
// and swaps the placeholder for the compiled root.

type decl struct {
	name     string
	namePos  script.Position
	params   []word
	node     *script.Node
	source   string
	text     string
	isAction bool
	index    int
}

type compiler[C any, E comparable, F any] struct {
	ids   *idSpace[C, E, F]
	decls map[string]*decl
	order []string
}

func newCompiler[C any, E comparable, F any](ids *idSpace[C, E, F]) *compiler[C, E, F] {
	return &compiler[C, E, F]{ids: ids, decls: make(map[string]*decl)}
}

// register runs phase one over one parsed source.
func (c *compiler[C, E, F]) register(tree *script.Tree, text string) error {
	for _, root := range tree.Roots {
		if err := c.registerRoot(tree.Name, text, root); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler[C, E, F]) registerRoot(source, text string, root *script.Node) error {
	errorAt := func(code CompileErrorCode, pos script.Position, message string) error {
		return &CompileError{
			Code:    code,
			Message: message,
			Origin:  Origin{Source: source, Pos: pos},
			source:  text,
		}
	}

	isAction := false
	sigRest, args, ok := matchDirective(root, kwNode)
	if !ok {
		sigRest, args, ok = matchDirective(root, kwAction)
		isAction = true
	}
	if !ok {
		return errorAt(CodeInvalidRootDeclaration, root.Pos, "invalid root declaration")
	}
	if len(sigRest) != 0 {
		return errorAt(CodeDirectiveSignatureArity, root.Pos, fmt.Sprintf(
			"wrong number of signature items for root directive: expected 0, given %d", len(sigRest)))
	}

	name, query, paramItems, ok := matchRef(args)
	if !ok || query {
		return errorAt(CodeInvalidRefDeclaration, root.Pos, "invalid signature declaration")
	}
	params := make([]word, 0, len(paramItems))
	for i := range paramItems {
		v, ok := matchVar(&paramItems[i])
		if !ok {
			return errorAt(CodeInvalidRefDeclaration, paramItems[i].Pos,
				"declaration parameters must be variables")
		}
		params = append(params, v)
	}

	if _, taken := c.ids.kind(name.name); taken {
		err := &CompileError{
			Code:    CodeConflict,
			Message: fmt.Sprintf("conflicting definition of %q", name.name),
			Origin:  Origin{Source: source, Pos: name.pos},
			source:  text,
		}
		if prev, fromScript := c.decls[name.name]; fromScript {
			err.Previous = &Origin{Source: prev.source, Pos: prev.namePos}
		} else {
			err.Predefined = true
		}
		return err
	}

	d := &decl{
		name:     name.name,
		namePos:  name.pos,
		params:   params,
		node:     root,
		source:   source,
		text:     text,
		isAction: isAction,
	}
	if isAction {
		d.index = c.ids.actions.set(d.name, nil, len(params))
	} else {
		d.index = c.ids.nodes.set(d.name, nil, len(params))
	}
	c.decls[d.name] = d
	c.order = append(c.order, d.name)
	return nil
}

// compileAll runs phase two in registration order.
func (c *compiler[C, E, F]) compileAll() error {
	for _, name := range c.order {
		d := c.decls[name]
		if d.isAction {
			root, err := compileActionRoot(c.ids, d)
			if err != nil {
				return err
			}
			c.ids.actions.setNode(d.index, root)
		} else {
			root, err := compileNodeRoot(c.ids, d)
			if err != nil {
				return err
			}
			c.ids.nodes.setNode(d.index, root)
		}
	}
	return nil
}

func compileNodeRoot[C any, E comparable, F any](ids *idSpace[C, E, F], d *decl) (*nodeRoot[E], error) {
	rc := &rootCompiler[C, E, F]{
		env:      newEnv(ids, d.source, d.text),
		declName: d.name,
	}
	for _, param := range d.params {
		if _, err := rc.env.declare(param.name, param.pos); err != nil {
			return nil, err
		}
	}
	body, err := rc.compileBranches(d.node.Children)
	if err != nil {
		return nil, err
	}
	return &nodeRoot[E]{index: d.index, body: body, lexicals: rc.env.maxVars}, nil
}

func compileActionRoot[C any, E comparable, F any](ids *idSpace[C, E, F], d *decl) (*actionRoot[E], error) {
	rc := &rootCompiler[C, E, F]{
		env:      newEnv(ids, d.source, d.text),
		declName: d.name,
	}

	var conditionNodes, effectNodes, discoveryNodes, inheritNodes []*script.Node
	for _, child := range d.node.Children {
		matched := false
		for _, part := range []struct {
			keyword    string
			collection *[]*script.Node
		}{
			{kwConditions, &conditionNodes},
			{kwEffects, &effectNodes},
			{kwDiscovery, &discoveryNodes},
			{kwInherit, &inheritNodes},
		} {
			ok, err := rc.tryLabel(child, part.keyword)
			if err != nil {
				return nil, err
			}
			if ok {
				*part.collection = append(*part.collection, child.Children...)
				matched = true
				break
			}
		}
		if !matched {
			return nil, rc.env.errorAt(CodeUnrecognizedActionDirective, child.Pos,
				"unrecognized action directive")
		}
	}

	// Discovery binds its own parameters from queries; it compiles
	// outside the parameter scope.
	discovery, err := rc.compileBranches(discoveryNodes)
	if err != nil {
		return nil, err
	}

	for _, param := range d.params {
		if _, err := rc.env.declare(param.name, param.pos); err != nil {
			return nil, err
		}
	}
	conditions, err := rc.compileBranches(conditionNodes)
	if err != nil {
		return nil, err
	}
	effects, err := rc.compileEffects(effectNodes)
	if err != nil {
		return nil, err
	}
	inherit, err := rc.compileBranches(inheritNodes)
	if err != nil {
		return nil, err
	}

	return &actionRoot[E]{
		index:      d.index,
		conditions: conditions,
		effects:    effects,
		inherit:    inherit,
		discovery:  discovery,
		lexicals:   rc.env.maxVars,
	}, nil
}

// rootCompiler lowers the branches of one root declaration.
type rootCompiler[C any, E comparable, F any] struct {
	env         *env[C, E, F]
	declName    string
	randomSites int
}

// tryLabel matches a bare label directive like "do:". A matched
// keyword with stray signature or argument items is an error rather
// than a non-match.
func (rc *rootCompiler[C, E, F]) tryLabel(n *script.Node, keyword string) (bool, error) {
	sigRest, args, ok := matchDirective(n, keyword)
	if !ok {
		return false, nil
	}
	if len(sigRest) != 0 {
		return false, rc.env.errorAt(CodeDirectiveSignatureArity, n.Pos, fmt.Sprintf(
			"wrong number of signature items for %q directive: expected 0, given %d",
			keyword, len(sigRest)))
	}
	if len(args) != 0 {
		return false, rc.env.errorAt(CodeDirectiveArgumentArity, n.Pos, fmt.Sprintf(
			"wrong number of argument items for %q directive: expected 0, given %d",
			keyword, len(args)))
	}
	return true, nil
}

func (rc *rootCompiler[C, E, F]) identifierError(name word, err error) error {
	var idErr *IdError
	if errors.As(err, &idErr) {
		err = idErr.Err
	}
	return rc.env.errorAt(CodeIdentifier, name.pos, fmt.Sprintf("for %q: %v", name.name, err))
}

func (rc *rootCompiler[C, E, F]) compileBranches(nodes []*script.Node) ([]node[E], error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	branches := make([]node[E], 0, len(nodes))
	for _, n := range nodes {
		branch, err := rc.compileBranch(n)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, nil
}

func (rc *rootCompiler[C, E, F]) compileBranch(n *script.Node) (node[E], error) {
	for _, try := range []func(*script.Node) (node[E], bool, error){
		rc.tryCompileDispatch,
		rc.tryCompileMatch,
		rc.tryCompileSwitch,
		rc.tryCompileQuery,
		rc.tryCompileRandom,
		rc.tryCompileCond,
		rc.tryCompileRef,
	} {
		compiled, ok, err := try(n)
		if err != nil {
			return nil, err
		}
		if ok {
			return compiled, nil
		}
	}
	return nil, rc.env.errorAt(CodeUnrecognizedNode, n.Pos, "unrecognized node")
}

func (rc *rootCompiler[C, E, F]) tryCompileDispatch(n *script.Node) (node[E], bool, error) {
	for _, dispatch := range []struct {
		keyword string
		mode    dispatchKind
	}{
		{kwSequence, dispatchSequence},
		{kwSelect, dispatchSelection},
		{kwNone, dispatchNone},
		{kwVisit, dispatchVisit},
	} {
		ok, err := rc.tryLabel(n, dispatch.keyword)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		branches, err := rc.compileBranches(n.Children)
		if err != nil {
			return nil, false, err
		}
		return dispatchNode[E]{mode: dispatch.mode, branches: branches}, true, nil
	}
	return nil, false, nil
}

func (rc *rootCompiler[C, E, F]) tryCompileRef(n *script.Node) (node[E], bool, error) {
	items, ok := n.Statement()
	if !ok {
		return nil, false, nil
	}
	name, query, argItems, ok := matchRef(items)
	if !ok {
		return nil, false, nil
	}
	target, err := rc.env.ids.resolveRef(name.name, len(argItems))
	if err != nil {
		return nil, false, rc.identifierError(name, err)
	}
	args, err := rc.compileValues(argItems)
	if err != nil {
		return nil, false, err
	}
	mode := refInherit
	if query {
		mode = refQuery
	}
	return refNode[E]{target: target, mode: mode, args: args}, true, nil
}

func (rc *rootCompiler[C, E, F]) tryCompileMatch(n *script.Node) (node[E], bool, error) {
	patternItems, targetItems, ok := matchDirective(n, kwMatch)
	if !ok {
		return nil, false, nil
	}
	if len(patternItems) != len(targetItems) {
		return nil, false, rc.env.errorAt(CodePatternArity, n.Pos, fmt.Sprintf(
			"wrong number of patterns for the given targets: expected %d, given %d",
			len(targetItems), len(patternItems)))
	}
	base := rc.env.mark()
	defer rc.env.reset(base)
	targets, err := rc.compileValues(targetItems)
	if err != nil {
		return nil, false, err
	}
	patterns, err := rc.compilePatterns(patternItems, base)
	if err != nil {
		return nil, false, err
	}
	body, err := rc.compileBranches(n.Children)
	if err != nil {
		return nil, false, err
	}
	return matchNode[E]{targets: targets, patterns: patterns, body: body}, true, nil
}

// tryCompileSwitch lowers "switch:" to a selection of matches over
// shared targets.
func (rc *rootCompiler[C, E, F]) tryCompileSwitch(n *script.Node) (node[E], bool, error) {
	sigRest, targetItems, ok := matchDirective(n, kwSwitch)
	if !ok {
		return nil, false, nil
	}
	if len(sigRest) != 0 {
		return nil, false, rc.env.errorAt(CodeDirectiveSignatureArity, n.Pos, fmt.Sprintf(
			"wrong number of signature items for %q directive: expected 0, given %d",
			kwSwitch, len(sigRest)))
	}
	targets, err := rc.compileValues(targetItems)
	if err != nil {
		return nil, false, err
	}
	branches := make([]node[E], 0, len(n.Children))
	for _, child := range n.Children {
		caseSig, patternItems, ok := matchDirective(child, kwCase)
		if !ok || len(caseSig) != 0 {
			return nil, false, rc.env.errorAt(CodeInvalidSwitchCase, child.Pos, "invalid switch case node")
		}
		if len(patternItems) != len(targetItems) {
			return nil, false, rc.env.errorAt(CodePatternArity, child.Pos, fmt.Sprintf(
				"wrong number of patterns for the given targets: expected %d, given %d",
				len(targetItems), len(patternItems)))
		}
		base := rc.env.mark()
		patterns, err := rc.compilePatterns(patternItems, base)
		if err != nil {
			rc.env.reset(base)
			return nil, false, err
		}
		body, err := rc.compileBranches(child.Children)
		rc.env.reset(base)
		if err != nil {
			return nil, false, err
		}
		branches = append(branches, matchNode[E]{targets: targets, patterns: patterns, body: body})
	}
	return dispatchNode[E]{mode: dispatchSelection, branches: branches}, true, nil
}

func (rc *rootCompiler[C, E, F]) tryCompileQuery(n *script.Node) (node[E], bool, error) {
	for _, query := range []struct {
		keyword string
		mode    queryMode
	}{
		{kwForEvery, querySequence},
		{kwForAny, querySelection},
		{kwWithFirst, queryFirst},
		{kwWithLast, queryLast},
		{kwVisitEvery, queryVisit},
	} {
		sigRest, args, ok := matchDirective(n, query.keyword)
		if !ok {
			continue
		}
		if len(sigRest) != 1 {
			return nil, false, rc.env.errorAt(CodeDirectiveSignatureArity, n.Pos, fmt.Sprintf(
				"wrong number of signature items for %q directive: expected 1, given %d",
				query.keyword, len(sigRest)))
		}
		name, isQueryRef, argItems, ok := matchRef(args)
		if !ok || isQueryRef {
			return nil, false, rc.env.errorAt(CodeInvalidQueryRef, n.Pos, "invalid query reference")
		}
		index, err := resolve(rc.env.ids, &rc.env.ids.queries, KindQuery, name.name, len(argItems))
		if err != nil {
			return nil, false, rc.identifierError(name, err)
		}
		base := rc.env.mark()
		defer rc.env.reset(base)
		queryArgs, err := rc.compileValues(argItems)
		if err != nil {
			return nil, false, err
		}
		pat, err := rc.compilePattern(&sigRest[0], base)
		if err != nil {
			return nil, false, err
		}
		body, err := rc.compileBranches(n.Children)
		if err != nil {
			return nil, false, err
		}
		return queryNode[E]{
			pattern: pat,
			query:   index,
			args:    queryArgs,
			mode:    query.mode,
			body:    body,
		}, true, nil
	}
	return nil, false, nil
}

func (rc *rootCompiler[C, E, F]) tryCompileRandom(n *script.Node) (node[E], bool, error) {
	checkAny := false
	sigRest, args, ok := matchDirective(n, kwRandom)
	if !ok {
		sigRest, args, ok = matchDirective(n, kwAnyRandom)
		checkAny = true
	}
	if !ok {
		return nil, false, nil
	}
	keyword := kwRandom
	if checkAny {
		keyword = kwAnyRandom
	}
	if len(sigRest) != 0 {
		return nil, false, rc.env.errorAt(CodeDirectiveSignatureArity, n.Pos, fmt.Sprintf(
			"wrong number of signature items for %q directive: expected 0, given %d",
			keyword, len(sigRest)))
	}
	seedGlobals := make([]int, 0, len(args))
	for i := range args {
		v, ok := matchVar(&args[i])
		if !ok {
			return nil, false, rc.env.errorAt(CodeInvalidSeedRef, args[i].Pos, "invalid seed reference")
		}
		index, err := resolve(rc.env.ids, &rc.env.ids.globals, KindGlobal, v.name, 0)
		if err != nil {
			return nil, false, rc.identifierError(v, err)
		}
		seedGlobals = append(seedGlobals, index)
	}
	branches, err := rc.compileBranches(n.Children)
	if err != nil {
		return nil, false, err
	}
	seed := fnvSeed(fmt.Sprintf("%s:%d", rc.declName, rc.randomSites))
	rc.randomSites++
	return randomNode[E]{
		seed:        seed,
		seedGlobals: seedGlobals,
		branches:    branches,
		checkAny:    checkAny,
	}, true, nil
}

func (rc *rootCompiler[C, E, F]) tryCompileCond(n *script.Node) (node[E], bool, error) {
	ok, err := rc.tryLabel(n, kwCond)
	if err != nil || !ok {
		return nil, false, err
	}
	compiled := condNode[E]{}
	for _, child := range n.Children {
		if whenSig, guardItems, isWhen := matchDirective(child, kwWhen); isWhen {
			if compiled.hasElse {
				return nil, false, rc.env.errorAt(CodeInvalidCondCase, child.Pos,
					"cond case after else branch")
			}
			if len(whenSig) != 0 {
				return nil, false, rc.env.errorAt(CodeDirectiveSignatureArity, child.Pos, fmt.Sprintf(
					"wrong number of signature items for %q directive: expected 0, given %d",
					kwWhen, len(whenSig)))
			}
			// Guards always evaluate inactive, so the '?' suffix is
			// accepted and redundant.
			name, _, argItems, ok := matchRef(guardItems)
			if !ok {
				return nil, false, rc.env.errorAt(CodeInvalidCondCase, child.Pos, "invalid cond guard")
			}
			target, err := rc.env.ids.resolveRef(name.name, len(argItems))
			if err != nil {
				return nil, false, rc.identifierError(name, err)
			}
			guardArgs, err := rc.compileValues(argItems)
			if err != nil {
				return nil, false, err
			}
			body, err := rc.compileBranches(child.Children)
			if err != nil {
				return nil, false, err
			}
			compiled.cases = append(compiled.cases, condCase[E]{
				guard: refNode[E]{target: target, mode: refQuery, args: guardArgs},
				body:  body,
			})
			continue
		}
		isElse, err := rc.tryLabel(child, kwElse)
		if err != nil {
			return nil, false, err
		}
		if !isElse {
			return nil, false, rc.env.errorAt(CodeInvalidCondCase, child.Pos, "invalid cond case node")
		}
		if compiled.hasElse {
			return nil, false, rc.env.errorAt(CodeInvalidCondCase, child.Pos, "multiple else branches")
		}
		compiled.hasElse = true
		compiled.elseBody, err = rc.compileBranches(child.Children)
		if err != nil {
			return nil, false, err
		}
	}
	return compiled, true, nil
}

func (rc *rootCompiler[C, E, F]) compileEffects(nodes []*script.Node) ([]effectRef[E], error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	effects := make([]effectRef[E], 0, len(nodes))
	for _, n := range nodes {
		items, isStatement := n.Statement()
		if !isStatement {
			return nil, rc.env.errorAt(CodeInvalidEffectRef, n.Pos, "invalid effect reference")
		}
		name, query, argItems, ok := matchRef(items)
		if !ok || query {
			return nil, rc.env.errorAt(CodeInvalidEffectRef, n.Pos, "invalid effect reference")
		}
		index, err := resolve(rc.env.ids, &rc.env.ids.effects, KindEffect, name.name, len(argItems))
		if err != nil {
			return nil, rc.identifierError(name, err)
		}
		args, err := rc.compileValues(argItems)
		if err != nil {
			return nil, err
		}
		effects = append(effects, effectRef[E]{effect: index, args: args})
	}
	return effects, nil
}

func (rc *rootCompiler[C, E, F]) compileValue(item *script.Item) (protoValue[E], error) {
	switch item.Kind {
	case script.ItemWord:
		if v, ok := matchVar(item); ok {
			return rc.env.resolve(v.name, v.pos)
		}
		if s, ok := matchSym(item); ok {
			return protoConst[E]{value: symValue[E](s.name)}, nil
		}
		return nil, rc.env.errorAt(CodeUnrecognizedValue, item.Pos, "unrecognized value")
	case script.ItemInt:
		return protoConst[E]{value: intValue[E](item.Int)}, nil
	case script.ItemFloat:
		return protoConst[E]{value: floatValue[E](item.Float)}, nil
	case script.ItemBrackets:
		items, err := rc.compileValues(item.Items)
		if err != nil {
			return nil, err
		}
		return protoList[E]{items: items}, nil
	default:
		return nil, rc.env.errorAt(CodeUnrecognizedValue, item.Pos, "unrecognized value")
	}
}

func (rc *rootCompiler[C, E, F]) compileValues(items []script.Item) ([]protoValue[E], error) {
	if len(items) == 0 {
		return nil, nil
	}
	protos := make([]protoValue[E], 0, len(items))
	for i := range items {
		proto, err := rc.compileValue(&items[i])
		if err != nil {
			return nil, err
		}
		protos = append(protos, proto)
	}
	return protos, nil
}

func (rc *rootCompiler[C, E, F]) compilePattern(item *script.Item, scopeBase int) (pattern[E], error) {
	switch item.Kind {
	case script.ItemWord:
		if item.Word == "$" {
			return patIgnore[E]{}, nil
		}
		if v, ok := matchVar(item); ok {
			return rc.env.resolvePattern(v.name, v.pos, scopeBase)
		}
		if s, ok := matchSym(item); ok {
			return patExact[E]{value: symValue[E](s.name)}, nil
		}
		return nil, rc.env.errorAt(CodeUnrecognizedPattern, item.Pos, "unrecognized pattern")
	case script.ItemInt:
		return patExact[E]{value: intValue[E](item.Int)}, nil
	case script.ItemFloat:
		return patExact[E]{value: floatValue[E](item.Float)}, nil
	case script.ItemBrackets:
		items, err := rc.compilePatterns(item.Items, scopeBase)
		if err != nil {
			return nil, err
		}
		return patList[E]{items: items}, nil
	default:
		return nil, rc.env.errorAt(CodeUnrecognizedPattern, item.Pos, "unrecognized pattern")
	}
}

func (rc *rootCompiler[C, E, F]) compilePatterns(items []script.Item, scopeBase int) ([]pattern[E], error) {
	if len(items) == 0 {
		return nil, nil
	}
	patterns := make([]pattern[E], 0, len(items))
	for i := range items {
		pat, err := rc.compilePattern(&items[i], scopeBase)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pat)
	}
	return patterns, nil
}

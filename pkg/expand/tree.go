package expand

import (
	"math"
	"strconv"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/errors"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// PrepareTrees gives every tree without a chain a canonical chain built from
// its numLevels and lyph template, so that the chain is expanded along with
// the others.
func (c *Context) PrepareTrees() {
	for _, d := range c.Index.Defs(model.ClassTree) {
		if model.Ref(d.Obj, "chain") != "" {
			continue
		}
		numLevels, _ := model.Int(d.Obj, "numLevels")
		tmpl := model.Ref(d.Obj, "lyphTemplate")
		if numLevels <= 0 || tmpl == "" {
			continue
		}
		g := c.groupOrRoot(d)
		chain := c.generate(g, model.ClassChain, model.Object{
			"id":           model.GenID(d.ID(), model.PrefixChain),
			"numLevels":    numLevels,
			"lyphTemplate": model.RefFrom(g.NS, model.FullID(d.NS, tmpl)),
		})
		setRef(d, "chain", chain)
	}
}

// TreeInstances expands every tree, logging trees that exceed the budget.
func (c *Context) TreeInstances() {
	for _, d := range c.Index.Defs(model.ClassTree) {
		if err := c.ExpandTree(d); err != nil {
			c.Diag.Error(diag.MsgTreeBudgetExceeded, d.FullID, err.Error())
		}
	}
}

// treeCount returns the resources generated for one tree instance: a link,
// a node and a lyph per level and branch, where level i is repeated once per
// path through the branching factors of levels 0..i. Any count past limit is
// returned as limit+1, so huge factors never overflow.
func treeCount(factors []int, n, limit int) int {
	total, paths := 0, 1
	for i := 0; i < n; i++ {
		b := branching(factors, i)
		if b > limit/paths {
			return limit + 1
		}
		paths *= b
		if paths > (limit-total)/3 {
			return limit + 1
		}
		total += 3 * paths
	}
	return total
}

// budgetCount is k*per for reporting, saturated at the largest int.
func budgetCount(k, per int) int {
	if k > math.MaxInt/per {
		return math.MaxInt
	}
	return k * per
}

func branching(factors []int, i int) int {
	if i < len(factors) && factors[i] > 1 {
		return factors[i]
	}
	return 1
}

// ExpandTree generates numInstances instance groups of a tree. Each instance
// clones the link, target node and conveying lyph of every level of the
// tree's chain; a level with a branching factor b > 1 is cloned b times and
// every clone continues with its own copy of the remaining levels.
//
// ExpandTree checks the number of resources it would generate against the
// context's budget before creating anything and returns a
// *errors.BudgetError when it is exceeded.
func (c *Context) ExpandTree(d *model.Def) error {
	if model.Bool(d.Obj, markExpanded) {
		return nil
	}
	chain := c.Index.GetOf(model.Ref(d.Obj, "chain"), d.NS, model.ClassChain)
	if chain == nil {
		c.Diag.Warn(diag.MsgTreeNoChain, d.FullID)
		return nil
	}
	c.ExpandChain(chain)
	levels := c.refs(chain, "levels", model.ClassLink)
	n := len(levels)
	if n == 0 {
		c.Diag.Warn(diag.MsgTreeNoChain, d.FullID)
		return nil
	}

	k, ok := model.Int(d.Obj, "numInstances")
	if !ok || k < 1 {
		k = 1
	}
	factors := model.Ints(d.Obj, "branchingFactors")
	limit := c.Opts.MaxGenerated
	perInstance := treeCount(factors, n, limit)
	if perInstance > limit {
		return &errors.BudgetError{Template: d.FullID, Limit: limit, Count: perInstance}
	}
	// every instance adds its group and root node
	if per := perInstance + 2; k > limit/per {
		return &errors.BudgetError{Template: d.FullID, Limit: limit, Count: budgetCount(k, per)}
	}
	d.Obj[markExpanded] = true

	g := c.groupFor(d)
	for i := 1; i <= k; i++ {
		inst := c.Index.AddGroup(g, model.Object{
			"id":         model.GenID(d.ID(), model.PrefixInstance, i),
			"name":       d.ID() + " instance " + strconv.Itoa(i),
			"instanceOf": d.RefFrom(g.NS),
			"generated":  true,
		})
		model.AddRef(d.Obj, "instances", model.RefFrom(d.NS, model.FullID(inst.NS, inst.ID())))
		t := &treeInstance{
			c:       c,
			group:   inst,
			levels:  levels,
			factors: factors,
			prefix:  model.GenID(d.ID(), model.PrefixInstance, i),
		}
		t.branch(0, t.node(model.GenID(t.prefix, model.PrefixNode, 0), levels[0], "source"), "")
	}
	return nil
}

type treeInstance struct {
	c       *Context
	group   *model.Group
	levels  []*model.Def
	factors []int
	prefix  string
}

// branch clones level i and the levels after it, starting at from. path
// records the branch taken at every branching level so far.
func (t *treeInstance) branch(i int, from *model.Def, path string) {
	if i == len(t.levels) {
		return
	}
	c, g := t.c, t.group
	level := t.levels[i]
	b := branching(t.factors, i)
	for br := 0; br < b; br++ {
		p := path
		if b > 1 {
			p += strconv.Itoa(br)
		}
		node := t.node(model.GenID(t.prefix, model.PrefixNode, i+1, p), level, "target")
		link := model.Object{
			"id":      model.GenID(t.prefix, model.PrefixLink, i+1, p),
			"source":  from.RefFrom(g.NS),
			"target":  node.RefFrom(g.NS),
			"cloneOf": level.RefFrom(g.NS),
		}
		if ct := model.String(level.Obj, "conveyingType"); ct != "" {
			link["conveyingType"] = ct
		}
		if y := c.lyph(model.Ref(level.Obj, "conveyingLyph"), level.NS); y != nil {
			lyph := c.cloneLevelLyph(g, y, model.GenID(t.prefix, model.PrefixLyph, i+1, p))
			link["conveyingLyph"] = lyph.RefFrom(g.NS)
			lyph.Obj["conveys"] = link["id"]
		}
		c.generate(g, model.ClassLink, link)
		t.branch(i+1, node, p)
	}
}

// node generates a copy of the node in the relationship key of a level link.
func (t *treeInstance) node(id string, level *model.Def, key string) *model.Def {
	obj := model.Object{"id": id}
	if n := t.c.node(model.Ref(level.Obj, key), level.NS); n != nil {
		obj["cloneOf"] = n.RefFrom(t.group.NS)
	}
	return t.c.generate(t.group, model.ClassNode, obj)
}

// cloneLevelLyph copies a level lyph: a subtype of the same template when the
// lyph has one, a clone of the lyph otherwise.
func (c *Context) cloneLevelLyph(g *model.Group, y *model.Def, id string) *model.Def {
	obj := model.Object{"id": id}
	if name := model.String(y.Obj, "name"); name != "" {
		obj["name"] = name
	}
	if topology := model.String(y.Obj, "topology"); topology != "" {
		obj["topology"] = topology
	}
	if sup := c.lyph(model.Ref(y.Obj, "supertype"), y.NS); sup != nil {
		obj["supertype"] = sup.RefFrom(g.NS)
	} else {
		obj["cloneOf"] = y.RefFrom(g.NS)
	}
	lyph := c.generate(g, model.ClassLyph, obj)
	c.ExpandLyph(lyph)
	return lyph
}

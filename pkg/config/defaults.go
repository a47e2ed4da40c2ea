package config

import (
	"strconv"
	"strings"
)

// ApplyDefaults walks the schema against tree and inserts every declared
// default whose field is absent, returning one Warning per insertion.
// Explicitly present values are never touched, including explicit falsy
// values (false, 0, "").
//
// A default is inserted only when the field's immediate parent mapping
// exists in the document: defaulting fills gaps inside sections the user
// declared, it does not invent whole sections. Whether an absent section
// is acceptable is the validator's call.
func ApplyDefaults(tree *RawValue) []Diagnostic {
	var diags []Diagnostic
	for i := range schema {
		spec := &schema[i]
		if spec.Default == nil {
			continue
		}
		for _, site := range resolveSites(tree, spec.Path) {
			if site.parent.Get(site.key) != nil {
				continue
			}
			if spec.When != nil && !spec.When(site.parent) {
				continue
			}
			site.parent.Set(site.key, spec.Default.Clone())
			diags = append(diags, warnf(CodeDefaultApplied, site.path,
				"field not specified, using default %s", spec.Default.Display()))
		}
	}
	return diags
}

// site is one concrete location a schema path resolves to: the parent
// mapping, the final key, and the full dotted path.
type site struct {
	parent *RawValue
	key    string
	path   string
}

// resolveSites expands a schema path (possibly containing "*" list
// wildcards) against the tree. Only sites whose parent mapping exists
// are returned.
func resolveSites(tree *RawValue, pattern string) []site {
	segs := strings.Split(pattern, ".")
	return resolveSegs(tree, segs, "")
}

func resolveSegs(node *RawValue, segs []string, prefix string) []site {
	if node == nil {
		return nil
	}

	if len(segs) == 1 {
		if node.Kind != KindMapping {
			return nil
		}
		return []site{{parent: node, key: segs[0], path: childPath(prefix, segs[0])}}
	}

	seg := segs[0]
	if seg == "*" {
		if node.Kind != KindList {
			return nil
		}
		var out []site
		for i, item := range node.Items {
			out = append(out, resolveSegs(item, segs[1:], childPath(prefix, strconv.Itoa(i)))...)
		}
		return out
	}

	return resolveSegs(node.Get(seg), segs[1:], childPath(prefix, seg))
}

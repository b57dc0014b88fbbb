package routes

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/knowdesk/pagekit/internal/errors"
)

// hclRouteFile is the top-level structure of a route file.
//
//	locals {
//	  api = "/api/v1"
//	}
//
//	route "project.index" {
//	  url = "/projects"
//	}
//
//	route "projects.destroy" {
//	  pattern = "${local.api}/projects/{id}"
//	}
type hclRouteFile struct {
	Locals []*hclLocalsBlock `hcl:"locals,block"`
	Routes []*hclRouteBlock  `hcl:"route,block"`
}

type hclLocalsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type hclRouteBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclRouteBody struct {
	URL     *string `hcl:"url,optional"`
	Pattern *string `hcl:"pattern,optional"`
}

// LoadHCL reads a route file from disk. See ParseHCL.
func LoadHCL(path string, opts ...Option) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidRouteFile).WithDetail("%s", path).Wrap(err)
	}
	return ParseHCL(src, path, opts...)
}

// ParseHCL builds a Table from HCL source. Locals hold literal values and
// are referenced as local.<name> inside url and pattern expressions. Each
// route sets exactly one of url or pattern, and the result must start
// with "/".
func ParseHCL(src []byte, filename string, opts ...Option) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, invalidRouteFile(filename, diags)
	}

	var parsed hclRouteFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, invalidRouteFile(filename, diags)
	}

	evalCtx, err := localsContext(filename, parsed.Locals)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(parsed.Routes))
	for _, block := range parsed.Routes {
		if _, dup := entries[block.Name]; dup {
			return nil, errors.New(errors.CodeInvalidRouteFile).
				WithDetail("%s: duplicate route %q", filename, block.Name)
		}

		var body hclRouteBody
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
			return nil, invalidRouteFile(filename, diags)
		}

		entry, err := entryFromHCL(block.Name, body)
		if err != nil {
			return nil, errors.New(errors.CodeInvalidRouteFile).WithDetail("%s", filename).Wrap(err)
		}
		entries[block.Name] = entry
	}

	return NewTable(entries, opts...), nil
}

func entryFromHCL(name string, body hclRouteBody) (Entry, error) {
	switch {
	case body.URL != nil && body.Pattern != nil:
		return Entry{}, fmt.Errorf("route %q: set either url or pattern, not both", name)
	case body.URL != nil:
		if !strings.HasPrefix(*body.URL, "/") {
			return Entry{}, fmt.Errorf("route %q: url %q must start with /", name, *body.URL)
		}
		return Fixed(*body.URL), nil
	case body.Pattern != nil:
		if !strings.HasPrefix(*body.Pattern, "/") {
			return Entry{}, fmt.Errorf("route %q: pattern %q must start with /", name, *body.Pattern)
		}
		e, err := ParsePattern(*body.Pattern)
		if err != nil {
			return Entry{}, fmt.Errorf("route %q: %w", name, err)
		}
		return e, nil
	default:
		return Entry{}, fmt.Errorf("route %q: one of url or pattern is required", name)
	}
}

// localsContext evaluates every locals block and exposes the values under
// the "local" variable. Locals may not reference each other.
func localsContext(filename string, blocks []*hclLocalsBlock) (*hcl.EvalContext, error) {
	values := map[string]cty.Value{}
	for _, block := range blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, invalidRouteFile(filename, diags)
		}
		for name, attr := range attrs {
			if _, dup := values[name]; dup {
				return nil, errors.New(errors.CodeInvalidRouteFile).
					WithDetail("%s: duplicate local %q", filename, name)
			}
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, invalidRouteFile(filename, diags)
			}
			values[name] = v
		}
	}

	local := cty.EmptyObjectVal
	if len(values) > 0 {
		local = cty.ObjectVal(values)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": local},
	}, nil
}

func invalidRouteFile(filename string, diags hcl.Diagnostics) error {
	return errors.New(errors.CodeInvalidRouteFile).WithDetail("%s", filename).Wrap(diags)
}

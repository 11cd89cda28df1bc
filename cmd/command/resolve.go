package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/xproxy/cmd/options"
	"github.com/viant/xproxy/factory"
	"github.com/viant/xproxy/typeinfo"
)

// selectRequests resolves selection types into generation requests
func selectRequests(ctx context.Context, selection *options.Selection, mode factory.Mode) ([]*factory.Request, error) {
	kind, err := selection.RequestKind()
	if err != nil {
		return nil, err
	}
	pkg, err := typeinfo.LoadPackage(ctx, selection.Project, selection.Source)
	if err != nil {
		return nil, err
	}
	var target typeinfo.Type
	if selection.Target != "" {
		if target, err = resolveType(pkg, selection.Target); err != nil {
			return nil, err
		}
	}
	var result []*factory.Request
	for _, name := range selection.Types {
		subject, err := resolveType(pkg, name)
		if err != nil {
			return nil, err
		}
		result = append(result, &factory.Request{Kind: kind, Subject: subject, Target: target, Mode: mode})
	}
	return result, nil
}

// resolveType resolves type declared in pkg, closed generic arguments can be basic or pkg types
func resolveType(pkg *typeinfo.Package, expr string) (typeinfo.Type, error) {
	expr = strings.TrimSpace(expr)
	index := strings.IndexByte(expr, '[')
	if index == -1 {
		return lookupType(pkg, expr)
	}
	if !strings.HasSuffix(expr, "]") {
		return nil, fmt.Errorf("invalid type expression: %v", expr)
	}
	var args []typeinfo.Type
	for _, argName := range strings.Split(expr[index+1:len(expr)-1], ",") {
		argName = strings.TrimSpace(argName)
		if basic, ok := typeinfo.BasicType(argName); ok {
			args = append(args, typeinfo.FromReflect(basic))
			continue
		}
		arg, err := lookupType(pkg, argName)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return pkg.Instantiate(expr[:index], args...)
}

func lookupType(pkg *typeinfo.Package, name string) (typeinfo.Type, error) {
	ret, err := pkg.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w, declared types: %v", err, strings.Join(pkg.TypeNames(), ", "))
	}
	return ret, nil
}

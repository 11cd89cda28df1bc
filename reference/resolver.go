package reference

import (
	"runtime/debug"
	"strings"
)

// Resolver maps package path to its module
type Resolver func(pkg string) (string, bool)

// BuildInfoResolver resolves modules from the running binary build info, using the longest module path prefix
func BuildInfoResolver() Resolver {
	return ModuleResolver(BuildModules()...)
}

// BuildModules returns main module and dependencies of the running binary
func BuildModules() []*debug.Module {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return append([]*debug.Module{&info.Main}, info.Deps...)
}

// Versions renders modules as path@version
func Versions(modules []*debug.Module) []string {
	var result []string
	for _, module := range modules {
		if module == nil || module.Path == "" {
			continue
		}
		if module.Replace != nil && module.Replace.Version != "" {
			module = &debug.Module{Path: module.Path, Version: module.Replace.Version}
		}
		if module.Version == "" || module.Version == "(devel)" {
			result = append(result, module.Path)
			continue
		}
		result = append(result, module.Path+"@"+module.Version)
	}
	return result
}

// Diff lists modules present in both path@version lists with different versions, i.e. github.com/viant/afs: v1.29.0 <-> v1.30.0
func Diff(built, running []string) []string {
	versions := map[string]string{}
	for _, module := range running {
		path, version := splitVersion(module)
		versions[path] = version
	}
	var result []string
	for _, module := range built {
		path, version := splitVersion(module)
		runningVersion, ok := versions[path]
		if !ok || runningVersion == version {
			continue
		}
		result = append(result, path+": "+version+" <-> "+runningVersion)
	}
	return result
}

func splitVersion(module string) (string, string) {
	if index := strings.LastIndexByte(module, '@'); index != -1 {
		return module[:index], module[index+1:]
	}
	return module, ""
}

// ModuleResolver resolves modules from the supplied list
func ModuleResolver(modules ...*debug.Module) Resolver {
	return func(pkg string) (string, bool) {
		if IsStandard(pkg) {
			return "", false
		}
		var matched *debug.Module
		for _, module := range modules {
			if module == nil || module.Path == "" {
				continue
			}
			if pkg != module.Path && !strings.HasPrefix(pkg, module.Path+"/") {
				continue
			}
			if matched == nil || len(module.Path) > len(matched.Path) {
				matched = module
			}
		}
		if matched == nil {
			return "", false
		}
		return Versions([]*debug.Module{matched})[0], true
	}
}

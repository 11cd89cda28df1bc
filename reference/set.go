package reference

import (
	"sort"
	"strings"
)

// Set represents packages required to compile generated unit
type Set struct {
	Packages []string
	Types    []string
	index    map[string]bool
}

// Add adds package, returns false if already present
func (s *Set) Add(pkg string) bool {
	if pkg == "" || s.index[pkg] {
		return false
	}
	s.index[pkg] = true
	s.Packages = append(s.Packages, pkg)
	return true
}

// Has returns true if package was collected
func (s *Set) Has(pkg string) bool {
	return s.index[pkg]
}

// Merge returns collected packages merged with platform packages
func (s *Set) Merge(platform []string) []string {
	return Merge(s.Packages, platform)
}

// Modules returns sorted unique modules resolved for collected packages
func (s *Set) Modules(resolver Resolver) []string {
	unique := map[string]bool{}
	var result []string
	for _, pkg := range s.Packages {
		module, ok := resolver(pkg)
		if !ok || unique[module] {
			continue
		}
		unique[module] = true
		result = append(result, module)
	}
	sort.Strings(result)
	return result
}

// Listing returns one package per line
func (s *Set) Listing() string {
	return strings.Join(s.Packages, "\n") + "\n"
}

// Merge merges caller references with platform references; identity is the package path compared case-insensitively
func Merge(caller, platform []string) []string {
	unique := map[string]bool{}
	var result []string
	for _, items := range [][]string{caller, platform} {
		for _, item := range items {
			key := strings.ToLower(item)
			if item == "" || unique[key] {
				continue
			}
			unique[key] = true
			result = append(result, item)
		}
	}
	return result
}

// IsStandard returns true for standard library packages
func IsStandard(pkg string) bool {
	first := pkg
	if index := strings.Index(pkg, "/"); index != -1 {
		first = pkg[:index]
	}
	return !strings.Contains(first, ".")
}

// NewSet creates empty set
func NewSet() *Set {
	return &Set{index: map[string]bool{}}
}

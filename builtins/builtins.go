// Package builtins describes the functions the runtime prelude makes
// available to every Harbor program, grouped into modules for
// documentation and completion.
package builtins

import (
	"sort"
	"strings"
)

// FuncDef describes a prelude function.
type FuncDef struct {
	// Name is the Harbor name (e.g. "len", or "read" inside fs).
	Name string
	// Args names the parameters in order.
	Args []string
	// Variadic, when true, accepts any number of trailing arguments.
	Variadic bool
	Doc      string
}

// Module is a named group of prelude functions. Members of a namespaced
// module are called as <module>.<func>.
type Module struct {
	Name       string
	Doc        string
	Namespaced bool
	Funcs      []FuncDef
}

var registry = make(map[string]*Module)

// Register adds a module to the registry.
func Register(m *Module) {
	registry[m.Name] = m
}

// Get returns a registered module by name.
func Get(name string) (*Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// IsModule returns true if name is a registered module.
func IsModule(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns sorted names of all registered modules.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Globals returns the sorted names a program can refer to directly: every
// function of a plain module and the name of every namespaced one.
func Globals() []string {
	var names []string
	for _, m := range registry {
		if m.Namespaced {
			names = append(names, m.Name)
			continue
		}
		for _, f := range m.Funcs {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

// LookupFunc finds a function by its Harbor name: "len" or "fs.read".
func LookupFunc(name string) (*Module, FuncDef, bool) {
	modName, funcName, dotted := strings.Cut(name, ".")
	for _, m := range registry {
		if dotted && (!m.Namespaced || m.Name != modName) {
			continue
		}
		if !dotted && m.Namespaced {
			continue
		}
		want := name
		if dotted {
			want = funcName
		}
		for _, f := range m.Funcs {
			if f.Name == want {
				return m, f, true
			}
		}
	}
	return nil, FuncDef{}, false
}

// Signature returns the call form of f within m, e.g. "fs.write(path, content)"
// or "max(values...)".
func (m *Module) Signature(f FuncDef) string {
	args := append([]string(nil), f.Args...)
	if f.Variadic && len(args) > 0 {
		args[len(args)-1] += "..."
	}
	name := f.Name
	if m.Namespaced {
		name = m.Name + "." + name
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

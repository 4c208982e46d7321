package doc

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/harborlang/harbor/builtins"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const rule = "--------------------------------"

// FormatText renders fd for terminal display.
func FormatText(fd *FileDoc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Documentation for %s:\n", fd.Path)
	sb.WriteString(rule + "\n")

	if fd.Doc != "" {
		sb.WriteString(fd.Doc)
		sb.WriteString("\n\n")
	}

	for _, d := range fd.Decls {
		formatDecl(&sb, d, "")
	}

	for _, s := range fd.Servers {
		fmt.Fprintf(&sb, "server %s:\n", s.Port)
		for _, r := range s.Routes {
			fmt.Fprintf(&sb, "    %s %s\n", r.Method, r.Path)
			writeDoc(&sb, r.Doc, "        ")
		}
	}

	sb.WriteString(rule + "\n")
	return sb.String()
}

// FormatDecl formats a single declaration, as returned by Lookup.
func FormatDecl(d Decl) string {
	var sb strings.Builder
	formatDecl(&sb, d, "")
	return sb.String()
}

func formatDecl(sb *strings.Builder, d Decl, indent string) {
	sb.WriteString(indent)
	sb.WriteString(Signature(d))
	sb.WriteString("\n")
	writeDoc(sb, d.Doc, indent+"    ")
	for _, m := range d.Methods {
		formatDecl(sb, m, indent+"    ")
	}
}

func writeDoc(sb *strings.Builder, doc, indent string) {
	if doc == "" {
		return
	}
	sb.WriteString(indent)
	sb.WriteString(strings.ReplaceAll(doc, "\n", "\n"+indent))
	sb.WriteString("\n")
}

// Signature returns the declaration line of d, e.g. "export def add(a, b)"
// or "class Dog:".
func Signature(d Decl) string {
	var sig string
	switch d.Kind {
	case Class:
		sig = "class " + d.Name + ":"
	default:
		sig = "def " + d.Name + "(" + strings.Join(d.Params, ", ") + ")"
	}
	if d.Exported {
		sig = "export " + sig
	}
	return sig
}

// FormatMarkdown renders fd as a Markdown document.
func FormatMarkdown(fd *FileDoc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", fd.Path)
	if fd.Doc != "" {
		sb.WriteString(fd.Doc)
		sb.WriteString("\n\n")
	}

	if len(fd.Decls) > 0 {
		sb.WriteString("## Declarations\n\n")
		for _, d := range fd.Decls {
			fmt.Fprintf(&sb, "### `%s`\n\n", Signature(d))
			if d.Doc != "" {
				sb.WriteString(d.Doc)
				sb.WriteString("\n\n")
			}
			for _, m := range d.Methods {
				fmt.Fprintf(&sb, "- `%s`", Signature(m))
				if m.Doc != "" {
					sb.WriteString(": ")
					sb.WriteString(strings.ReplaceAll(m.Doc, "\n", " "))
				}
				sb.WriteString("\n")
			}
			if len(d.Methods) > 0 {
				sb.WriteString("\n")
			}
		}
	}

	for _, s := range fd.Servers {
		fmt.Fprintf(&sb, "## Server on port %s\n\n", s.Port)
		sb.WriteString("| Method | Path | Description |\n")
		sb.WriteString("|--------|------|-------------|\n")
		for _, r := range s.Routes {
			desc := strings.ReplaceAll(r.Doc, "\n", " ")
			desc = strings.ReplaceAll(desc, "|", `\|`)
			path := strings.ReplaceAll(r.Path, "|", `\|`)
			fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", r.Method, path, desc)
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatHTML renders the Markdown form of fd as a standalone HTML page.
func FormatHTML(fd *FileDoc) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(FormatMarkdown(fd)), &body); err != nil {
		return "", fmt.Errorf("rendering %s: %w", fd.Path, err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(fd.Path))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}

// FormatModule formats a prelude module for terminal display.
func FormatModule(m *builtins.Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)
	writeDoc(&sb, m.Doc, "    ")
	sb.WriteString("\n")
	for _, f := range m.Funcs {
		sb.WriteString(m.Signature(f))
		sb.WriteString("\n")
		writeDoc(&sb, f.Doc, "    ")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatAllModules lists the prelude modules available to every program.
func FormatAllModules() string {
	var sb strings.Builder
	sb.WriteString("Builtin modules:\n")
	for _, name := range builtins.Names() {
		m, _ := builtins.Get(name)
		line := fmt.Sprintf("  %-12s", name)
		if m.Doc != "" {
			line += " " + m.Doc
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

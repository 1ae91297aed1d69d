package jsast

import (
	"regexp"
	"strings"
)

// Scan tokenizes content into a Program: top-level import/export
// declarations are parsed into structured form, everything else is kept
// as opaque Raw statement text, and every `import(...)` call anywhere in
// the source (they aren't statement-level) is collected into
// DynamicImports.
//
// fileID names the module being scanned and seeds the fresh-local naming
// scheme (§4.7: "derive from the file stem"); the per-visitor counter it
// also describes is a plain local here, since each Scan call gets its own —
// unlike a package-level counter, this one can't race across the
// concurrently-scanned modules the build driver fans out.
func Scan(content, fileID string) *Program {
	prog := &Program{}
	counter := 0

	cursor := 0
	for cursor < len(content) {
		declStart, declEnd, kind, ok := nextModuleDecl(content, cursor)
		if !ok {
			if strings.TrimSpace(content[cursor:]) != "" {
				prog.Statements = append(prog.Statements, Statement{Kind: StmtOther, Raw: content[cursor:]})
			}
			break
		}
		if declStart > cursor && strings.TrimSpace(content[cursor:declStart]) != "" {
			prog.Statements = append(prog.Statements, Statement{Kind: StmtOther, Raw: content[cursor:declStart]})
		}
		text := content[declStart:declEnd]
		stmt := parseDecl(kind, text, fileID, &counter)
		prog.Statements = append(prog.Statements, stmt)
		cursor = declEnd
	}

	prog.DynamicImports = scanDynamicImports(content)
	return prog
}

// Go's regexp (RE2) doesn't support backreferences, so the single- and
// double-quoted cases are spelled out as separate alternatives instead of
// matching the opening quote back with \1.
var dynamicImportRe = regexp.MustCompile(`\bimport\s*\(\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\s*\)`)

// scanDynamicImports finds every `import('literal')` / `import("literal")`
// call anywhere in the source. Only string-literal arguments are
// resolvable statically; dynamic specifiers (e.g. `import(path)`) are not
// resolvable at bundle time and are skipped, matching how the built-in
// resolver can only act on literal specifiers.
func scanDynamicImports(content string) []string {
	var out []string
	for _, idx := range dynamicImportRe.FindAllStringSubmatchIndex(content, -1) {
		if idx[2] != -1 {
			out = append(out, unescapeJSString(content[idx[2]:idx[3]]))
		} else {
			out = append(out, unescapeJSString(content[idx[4]:idx[5]]))
		}
	}
	return out
}

func unescapeJSString(s string) string {
	return strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`).Replace(s)
}

type declKind int

const (
	kindImport declKind = iota
	kindExportNamed
	kindExportAll
	kindExportDefaultExpr
	kindExportDefaultFunc
	kindExportDefaultClass
	kindExportFunc
	kindExportClass
	kindExportVar
	kindTypeOnly // import type / export type — dropped entirely
)

// nextModuleDecl finds the next top-level import/export declaration at or
// after from, returning its byte range and classified kind. Returns
// ok=false if none remain.
func nextModuleDecl(src string, from int) (start, end int, kind declKind, ok bool) {
	n := len(src)
	i := from
	depth := 0
	atStart := true

	for i < n {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
			continue
		case c == '/' && i+1 < n && src[i+1] == '/':
			j := i
			for j < n && src[j] != '\n' {
				j++
			}
			i = j
			continue
		case c == '/' && i+1 < n && src[i+1] == '*':
			j := i + 2
			for j+1 < n && !(src[j] == '*' && src[j+1] == '/') {
				j++
			}
			i = j + 2
			continue
		}

		if depth == 0 && atStart {
			if word := peekWord(src, i); word == "import" || word == "export" {
				if next := nextSignificant(src, i+len(word)); !(next < n && (src[next] == '(' || src[next] == '.')) {
					k, declEnd := classifyAndFindEnd(src, i)
					return i, declEnd, k, true
				}
			}
		}
		atStart = false

		switch c {
		case '\'', '"':
			i = skipSimpleString(src, i, c)
		case '`':
			i = skipTemplateLiteral(src, i)
		case '{', '(', '[':
			depth++
			i++
		case '}', ')', ']':
			depth--
			i++
			if depth == 0 {
				atStart = true
			}
		case ';':
			i++
			if depth == 0 {
				atStart = true
			}
		default:
			i++
		}
	}
	return 0, 0, 0, false
}

func nextSignificant(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func peekWord(s string, i int) string {
	if i > 0 && isIdentChar(s[i-1]) {
		return ""
	}
	j := i
	for j < len(s) && isIdentChar(s[j]) {
		j++
	}
	return s[i:j]
}

// classifyAndFindEnd determines what kind of declaration starts at i and
// scans forward (depth-aware) to find its end.
func classifyAndFindEnd(src string, start int) (declKind, int) {
	header := headerAfter(src, start)
	k := classifyHeader(header)

	switch k {
	case kindExportDefaultFunc, kindExportDefaultClass, kindExportFunc, kindExportClass:
		return k, scanToBodyClose(src, start)
	default:
		return k, scanToSemicolon(src, start)
	}
}

// headerAfter returns a short forward slice (not respecting any particular
// boundary) used only to sniff which declaration form follows; classifier
// logic only looks at the first few tokens so this never needs to be
// precise about where it ends.
func headerAfter(src string, start int) string {
	end := start + 64
	if end > len(src) {
		end = len(src)
	}
	return src[start:end]
}

func classifyHeader(header string) declKind {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return kindExportVar
	}
	switch fields[0] {
	case "import":
		if len(fields) > 1 && fields[1] == "type" {
			return kindTypeOnly
		}
		return kindImport
	case "export":
		rest := fields[1:]
		if len(rest) == 0 {
			return kindExportVar
		}
		if rest[0] == "type" {
			return kindTypeOnly
		}
		if rest[0] == "default" {
			if len(rest) == 1 {
				return kindExportDefaultExpr
			}
			switch rest[1] {
			case "function", "async":
				return kindExportDefaultFunc
			case "class":
				return kindExportDefaultClass
			default:
				return kindExportDefaultExpr
			}
		}
		switch rest[0] {
		case "function", "async":
			return kindExportFunc
		case "class":
			return kindExportClass
		case "const", "let", "var":
			return kindExportVar
		case "*":
			return kindExportAll
		case "{":
			return kindExportNamed
		default:
			return kindExportVar
		}
	}
	return kindExportVar
}

// scanToSemicolon finds the end of a semicolon-terminated statement
// starting at start: the first ';' at depth 0, or EOF if none.
func scanToSemicolon(src string, start int) int {
	n := len(src)
	depth := 0
	i := start
	for i < n {
		c := src[i]
		switch c {
		case '\'', '"':
			i = skipSimpleString(src, i, c)
			continue
		case '`':
			i = skipTemplateLiteral(src, i)
			continue
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case ';':
			if depth == 0 {
				return i + 1
			}
		case '\n':
			// ASI fallback: a statement with no semicolon ends at a
			// top-level newline provided we aren't still inside an
			// unterminated bracket/paren expression.
			if depth == 0 && i > start && looksStatementComplete(src[start:i]) {
				return i
			}
		}
		i++
	}
	return n
}

// looksStatementComplete is a conservative heuristic used only by the ASI
// fallback in scanToSemicolon: it refuses to stop on a line that ends with
// a trailing operator/comma/open-paren/"from" (an incomplete expression
// that obviously continues on the next line).
func looksStatementComplete(s string) bool {
	s = strings.TrimRight(s, " \t\r")
	if s == "" {
		return false
	}
	if strings.HasSuffix(s, "from") && (len(s) == 4 || !isIdentChar(s[len(s)-5])) {
		return false
	}
	last := s[len(s)-1]
	switch last {
	case ',', '+', '-', '*', '/', '=', '(', '{', '[', '.', '&', '|', ':':
		return false
	}
	return true
}

// scanToBodyClose finds the end of a function/class declaration starting
// at start: the first '}' that returns bracket depth to 0 (the signature's
// own parens/angle-bracket-free generics are already balanced by then, so
// the first depth-0-returning '}' is always the body's own closing brace).
func scanToBodyClose(src string, start int) int {
	n := len(src)
	depth := 0
	seenOpen := false
	i := start
	for i < n {
		c := src[i]
		switch c {
		case '\'', '"':
			i = skipSimpleString(src, i, c)
			continue
		case '`':
			i = skipTemplateLiteral(src, i)
			continue
		case '{', '(', '[':
			depth++
			seenOpen = true
		case '}', ')', ']':
			depth--
			if depth == 0 && seenOpen && c == '}' {
				end := i + 1
				// Swallow a stray trailing semicolon, harmless for a
				// declaration (`export default class {};`).
				if end < n && src[end] == ';' {
					end++
				}
				return end
			}
		}
		i++
	}
	return n
}

func skipSimpleString(src string, i int, quote byte) int {
	n := len(src)
	i++
	for i < n {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1
		}
		i++
	}
	return n
}

func skipTemplateLiteral(src string, i int) int {
	n := len(src)
	i++
	for i < n {
		c := src[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '`' {
			return i + 1
		}
		if c == '$' && i+1 < n && src[i+1] == '{' {
			i += 2
			depth := 1
			for i < n && depth > 0 {
				switch src[i] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						i++
						continue
					}
				case '`':
					i = skipTemplateLiteral(src, i)
					continue
				case '\'', '"':
					i = skipSimpleString(src, i, src[i])
					continue
				}
				i++
			}
			continue
		}
		i++
	}
	return n
}

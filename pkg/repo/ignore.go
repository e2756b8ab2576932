package repo

import (
	"bufio"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// IgnoreFile is the name of the per-repository ignore file.
const IgnoreFile = ".gitletignore"

// IgnoreChecker decides which working-tree paths status treats as
// invisible. Tracked files are never hidden by it.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	glob     string
	negated  bool
	dirOnly  bool
	anchored bool // pattern contains a slash, so match against the full path
	regex    *regexp.Regexp
}

// NewIgnoreChecker creates an IgnoreChecker for the given working tree. The
// repository directory is always ignored; patterns from .gitletignore at the
// root are added when the file exists.
func NewIgnoreChecker(fs afero.Fs, root string) *IgnoreChecker {
	ic := &IgnoreChecker{
		patterns: []ignorePattern{{glob: DirName, dirOnly: true}},
	}

	f, err := fs.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return ic
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p, ok := parseIgnoreLine(scanner.Text()); ok {
			ic.patterns = append(ic.patterns, p)
		}
	}
	return ic
}

// parseIgnoreLine parses a single .gitletignore line. Blank lines and
// comments yield ok=false.
func parseIgnoreLine(line string) (ignorePattern, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return ignorePattern{}, false
	}

	var p ignorePattern
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		p.negated = true
		line = rest
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	rooted := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return ignorePattern{}, false
	}

	p.anchored = rooted || strings.Contains(line, "/")
	p.glob = line
	if strings.Contains(line, "**") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p, true
}

// IsIgnored reports whether the slash-separated, root-relative path is
// ignored. A path is also ignored when any of its parent directories is.
// The last matching pattern wins, so "!" lines can re-include files.
func (ic *IgnoreChecker) IsIgnored(rel string, isDir bool) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" {
		return false
	}

	// Check each ancestor as a directory first.
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if ic.match(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return ic.match(rel, isDir)
}

func (ic *IgnoreChecker) match(rel string, isDir bool) bool {
	ignored := false
	for _, p := range ic.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if p.matches(rel) {
			ignored = !p.negated
		}
	}
	return ignored
}

func (p *ignorePattern) matches(rel string) bool {
	target := rel
	if !p.anchored {
		target = path.Base(rel)
	}
	if p.regex != nil {
		return p.regex.MatchString(target)
	}
	ok, _ := path.Match(p.glob, target)
	return ok
}

// globToRegex translates a glob containing "**" into an anchored regular
// expression. "**/" matches zero or more directories.
func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 2
		case ch == '*' && strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i++
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// Package markdown extracts GitHub repository links from markdown documents.
// Created by dhawalhost (2026-08-27 10:12:41)
//
// The package understands just enough markdown for the task: ATX headings
// delimit sections, fenced code blocks are opaque, and inline links of the
// form [text](https://github.com/owner/repo) identify repositories.
package markdown

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// Repo identifies a GitHub repository by owner and name.
type Repo struct {
	Owner string
	Name  string
}

// FullName returns the owner/name form used by the GitHub API.
func (r Repo) FullName() string { return r.Owner + "/" + r.Name }

// String implements fmt.Stringer.
func (r Repo) String() string { return r.FullName() }

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	linkRe    = regexp.MustCompile(`\[[^\]]*\]\(\s*<?(https?://(?:www\.)?github\.com/[^)\s>]+)>?\s*\)`)
)

// Section returns the body of the first section titled heading: the lines
// between the matching ATX heading and the next heading of equal or higher
// level. The heading text comparison is case-insensitive. The second return
// reports whether the heading was found.
func Section(doc []byte, heading string) ([]byte, bool) {
	want := strings.ToLower(strings.TrimSpace(heading))
	var body bytes.Buffer
	level := 0
	inFence := false
	found := false

	sc := bufio.NewScanner(bytes.NewReader(doc))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if isFence(line) {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindSubmatch(line); m != nil {
				if found && len(m[1]) <= level {
					break
				}
				if !found && strings.ToLower(strings.TrimSpace(string(m[2]))) == want {
					found = true
					level = len(m[1])
					continue
				}
			}
		}
		if found {
			body.Write(line)
			body.WriteByte('\n')
		}
	}
	if !found {
		return nil, false
	}
	return body.Bytes(), true
}

// isFence reports whether a line opens or closes a fenced code block.
func isFence(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " ")
	return bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
}

// Repos extracts the GitHub repositories linked from a markdown fragment, in
// order of first appearance, deduplicated by owner/name. Links inside fenced
// code blocks and links that do not address a repository (profile pages,
// github.com itself) are skipped. Deep links such as /owner/repo/tree/main
// resolve to their repository.
func Repos(section []byte) []Repo {
	var repos []Repo
	seen := make(map[Repo]struct{})
	inFence := false

	sc := bufio.NewScanner(bytes.NewReader(section))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range linkRe.FindAllSubmatch(line, -1) {
			r, ok := parseRepoURL(string(m[1]))
			if !ok {
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			repos = append(repos, r)
		}
	}
	return repos
}

// parseRepoURL resolves a github.com URL to its owner/repo pair.
func parseRepoURL(u string) (Repo, bool) {
	i := strings.Index(u, "github.com/")
	if i < 0 {
		return Repo{}, false
	}
	path := u[i+len("github.com/"):]
	if j := strings.IndexAny(path, "#?"); j >= 0 {
		path = path[:j]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, false
	}
	owner, name := parts[0], strings.TrimSuffix(parts[1], ".git")
	// Non-repository routes that happen to have two path segments.
	switch owner {
	case "orgs", "topics", "sponsors", "collections", "features", "about", "settings", "marketplace", "apps":
		return Repo{}, false
	}
	if name == "" {
		return Repo{}, false
	}
	return Repo{Owner: owner, Name: name}, true
}

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Awesome Things

Intro text with a stray link to [gin](https://github.com/gin-gonic/gin).

## Web Frameworks

- [echo](https://github.com/labstack/echo) - minimalist framework
- [fiber](https://github.com/gofiber/fiber) - express inspired
- [echo again](https://github.com/labstack/echo) - duplicate on purpose

### Middleware

- [cors](https://github.com/rs/cors/tree/main) - deep link

` + "```" + `
[fake](https://github.com/not/extracted) inside a code fence
` + "```" + `

- [profile](https://github.com/torvalds) - not a repository
- [topic](https://github.com/topics/golang) - not a repository

## Databases

- [pgx](https://github.com/jackc/pgx)
`

func TestSection(t *testing.T) {
	body, ok := Section([]byte(sampleDoc), "Web Frameworks")
	require.True(t, ok, "section should be found")
	assert.Contains(t, string(body), "labstack/echo")
	assert.Contains(t, string(body), "rs/cors", "subsection belongs to the section")
	assert.NotContains(t, string(body), "jackc/pgx", "next sibling section is excluded")
	assert.NotContains(t, string(body), "gin-gonic", "intro text is excluded")
}

func TestSectionCaseInsensitive(t *testing.T) {
	_, ok := Section([]byte(sampleDoc), "web frameworks")
	assert.True(t, ok)
}

func TestSectionMissing(t *testing.T) {
	body, ok := Section([]byte(sampleDoc), "Nonexistent")
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestSectionStopsAtHigherLevel(t *testing.T) {
	doc := "## A\ncontent a\n# Top\ncontent top\n"
	body, ok := Section([]byte(doc), "A")
	require.True(t, ok)
	assert.Contains(t, string(body), "content a")
	assert.NotContains(t, string(body), "content top")
}

func TestRepos(t *testing.T) {
	body, ok := Section([]byte(sampleDoc), "Web Frameworks")
	require.True(t, ok)

	repos := Repos(body)
	want := []Repo{
		{Owner: "labstack", Name: "echo"},
		{Owner: "gofiber", Name: "fiber"},
		{Owner: "rs", Name: "cors"},
	}
	assert.Equal(t, want, repos, "ordered, deduplicated, deep links resolved, fences and non-repo links skipped")
}

func TestReposWholeDocument(t *testing.T) {
	repos := Repos([]byte(sampleDoc))
	require.NotEmpty(t, repos)
	assert.Equal(t, Repo{Owner: "gin-gonic", Name: "gin"}, repos[0], "document order is preserved")

	for _, r := range repos {
		assert.NotEqual(t, "topics", r.Owner)
		assert.NotEqual(t, "not", r.Owner, "code fence content must be skipped")
	}
}

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		url  string
		want Repo
		ok   bool
	}{
		{"https://github.com/labstack/echo", Repo{"labstack", "echo"}, true},
		{"https://github.com/labstack/echo/", Repo{"labstack", "echo"}, true},
		{"https://github.com/labstack/echo.git", Repo{"labstack", "echo"}, true},
		{"https://github.com/labstack/echo#readme", Repo{"labstack", "echo"}, true},
		{"https://github.com/labstack/echo?tab=stars", Repo{"labstack", "echo"}, true},
		{"https://github.com/rs/cors/tree/main/examples", Repo{"rs", "cors"}, true},
		{"https://www.github.com/rs/cors", Repo{"rs", "cors"}, true},
		{"https://github.com/torvalds", Repo{}, false},
		{"https://github.com/topics/golang", Repo{}, false},
		{"https://github.com/", Repo{}, false},
	}
	for _, c := range cases {
		got, ok := parseRepoURL(c.url)
		assert.Equal(t, c.ok, ok, c.url)
		if c.ok {
			assert.Equal(t, c.want, got, c.url)
		}
	}
}

func TestRepoFullName(t *testing.T) {
	r := Repo{Owner: "golang", Name: "go"}
	assert.Equal(t, "golang/go", r.FullName())
	assert.Equal(t, "golang/go", r.String())
}

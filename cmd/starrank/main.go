// Command starrank fetches a markdown document, extracts the GitHub
// repositories linked from it (optionally from a single section), and prints
// them ranked by star count.
//
//	starrank --repo avelino/awesome-go --section "Web Frameworks" --top 20
//	starrank --url https://example.com/README.md --output json
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tidwall/sjson"

	"github.com/dhawalhost/starrank/gh"
	"github.com/dhawalhost/starrank/markdown"
	"github.com/dhawalhost/starrank/rank"
)

func main() {
	app := kingpin.New("starrank", "Rank GitHub repositories linked from a markdown document by star count.")
	var (
		docURL   = app.Flag("url", "URL of the markdown document to scan.").String()
		repoSpec = app.Flag("repo", "owner/name whose README.md to scan instead of --url.").String()
		section  = app.Flag("section", "Only scan links under this heading.").String()
		top      = app.Flag("top", "Show only the N most starred repositories (0 = all).").Default("0").Int()
		workers  = app.Flag("workers", "Concurrent star lookups.").Default("8").Int()
		token    = app.Flag("token", "GitHub API token; raises the rate limit.").Envar("GITHUB_TOKEN").String()
		timeout  = app.Flag("timeout", "Overall run timeout.").Default("2m").Duration()
		output   = app.Flag("output", "Output format.").Default("table").Enum("table", "json")
		verbose  = app.Flag("verbose", "Enable debug logging.").Short('v').Bool()
	)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if *verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowWarn())
	}

	if (*docURL == "") == (*repoSpec == "") {
		app.Fatalf("exactly one of --url or --repo is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := gh.New(gh.Config{Token: *token, Timeout: *timeout}, logger)

	doc, err := fetchDoc(ctx, client, *docURL, *repoSpec)
	if err != nil {
		app.Fatalf("fetching document: %v", err)
	}

	scope := doc
	if *section != "" {
		body, ok := markdown.Section(doc, *section)
		if !ok {
			app.Fatalf("section %q not found in document", *section)
		}
		scope = body
	}

	repos := markdown.Repos(scope)
	if len(repos) == 0 {
		app.Fatalf("no GitHub repository links found")
	}
	level.Debug(logger).Log("msg", "extracted repositories", "count", len(repos))

	warnOnRateBudget(ctx, client, logger, *token, len(repos))

	ranker := rank.New(client, rank.Config{
		Workers: *workers,
		Progress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rresolving stars %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	}, logger)

	entries, err := ranker.Rank(ctx, repos)
	if err != nil {
		app.Fatalf("ranking: %v", err)
	}
	entries = rank.Top(entries, *top)

	switch *output {
	case "json":
		fmt.Println(renderJSON(entries))
	default:
		renderTable(entries)
	}
}

// fetchDoc retrieves the markdown to scan from either an explicit URL or a
// repository's default-branch readme.
func fetchDoc(ctx context.Context, client *gh.Client, docURL, repoSpec string) ([]byte, error) {
	if docURL != "" {
		return client.Fetch(ctx, docURL)
	}
	owner, name, ok := strings.Cut(repoSpec, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid --repo %q, want owner/name", repoSpec)
	}
	return client.Readme(ctx, markdown.Repo{Owner: owner, Name: name})
}

// warnOnRateBudget checks the unauthenticated core budget up front so a long
// run does not die halfway through a big list.
func warnOnRateBudget(ctx context.Context, client *gh.Client, logger log.Logger, token string, needed int) {
	if token != "" {
		return
	}
	rate, err := client.RateLimit(ctx)
	if err != nil {
		level.Debug(logger).Log("msg", "rate limit check failed", "err", err)
		return
	}
	if rate.Remaining < int64(needed) {
		level.Warn(logger).Log(
			"msg", "remaining API budget is below the number of lookups; expect failures",
			"remaining", rate.Remaining,
			"needed", needed,
			"reset", humanize.Time(rate.Reset),
		)
	}
}

func renderTable(entries []rank.Entry) {
	stars := color.New(color.FgHiYellow)
	name := color.New(color.Bold)
	pos := 0
	for _, e := range entries {
		if e.Err != nil {
			fmt.Printf("   -  %s  %s\n", e.Repo.FullName(), color.RedString("lookup failed: %v", e.Err))
			continue
		}
		pos++
		fmt.Printf("%4d  %s  %s\n", pos, stars.Sprintf("%10s", humanize.Comma(e.Stars)), name.Sprint(e.Repo.FullName()))
	}
}

// renderJSON assembles the result array. The decoder core deliberately has
// no encoder, so output encoding is done with sjson here in the glue.
func renderJSON(entries []rank.Entry) string {
	out := "[]"
	for _, e := range entries {
		item := "{}"
		item, _ = sjson.Set(item, "repo", e.Repo.FullName())
		if e.Err != nil {
			item, _ = sjson.Set(item, "error", e.Err.Error())
		} else {
			item, _ = sjson.Set(item, "stars", e.Stars)
		}
		out, _ = sjson.SetRaw(out, "-1", item)
	}
	return out
}

package njson

import (
	"testing"

	"github.com/tidwall/gjson"
)

// Differential tests against gjson. The decoder itself must not lean on any
// parsing library, but an independent implementation makes a good oracle for
// agreement on accept/reject decisions and extracted values.

// TestValidityAgainstOracle tests accept/reject agreement with gjson.Valid
func TestValidityAgainstOracle(t *testing.T) {
	docs := []string{
		`null`, `true`, `false`, `0`, `-0`, `0.5`, `1e3`, `-12.5e-2`,
		`""`, `"plain"`, `"esc \n \t \" \\ \/ A"`, `"😀"`,
		`[]`, `{}`, `[1,2,3]`, `{"a":1}`, `{"a":{"b":[true,null]}}`,
		`  [ 1 , { "k" : "v" } ]  `,
		// invalid
		``, `01`, `1.`, `.5`, `-`, `1e`, `[1,]`, `[,1]`, `{"a":}`,
		`{"a" 1}`, `{a:1}`, `"open`, `tru`, `nully`, `1 2`, `[1}`, `{"a":1]`,
	}
	for _, doc := range docs {
		_, err := ParseSafe([]byte(doc))
		ours := err == nil
		oracle := gjson.Valid(doc)
		if ours != oracle {
			t.Errorf("Validity disagreement on %q: njson=%v gjson=%v", doc, ours, oracle)
		}
	}
}

// TestValuesAgainstOracle tests extracted field agreement with gjson
func TestValuesAgainstOracle(t *testing.T) {
	doc := `{
		"full_name": "golang/go",
		"stargazers_count": 127345,
		"fork": false,
		"license": {"spdx_id": "BSD-3-Clause"},
		"topics": ["language", "compiler"],
		"score": 0.875
	}`

	v, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got, want := v.GetString("full_name"), gjson.Get(doc, "full_name").String(); got != want {
		t.Errorf("full_name: njson %q vs gjson %q", got, want)
	}
	if got, want := v.GetInt64("stargazers_count"), gjson.Get(doc, "stargazers_count").Int(); got != want {
		t.Errorf("stargazers_count: njson %d vs gjson %d", got, want)
	}
	if got, want := v.GetBool("fork"), gjson.Get(doc, "fork").Bool(); got != want {
		t.Errorf("fork: njson %v vs gjson %v", got, want)
	}
	if got, want := v.GetString("license", "spdx_id"), gjson.Get(doc, "license.spdx_id").String(); got != want {
		t.Errorf("license.spdx_id: njson %q vs gjson %q", got, want)
	}
	if got, want := v.GetString("topics", "1"), gjson.Get(doc, "topics.1").String(); got != want {
		t.Errorf("topics.1: njson %q vs gjson %q", got, want)
	}
	if got, want := v.GetFloat64("score"), gjson.Get(doc, "score").Float(); got != want {
		t.Errorf("score: njson %v vs gjson %v", got, want)
	}
}

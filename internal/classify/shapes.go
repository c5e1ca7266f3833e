package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Shape is a risky call form: a named function call known to fetch an external
// artifact by identifier.
type Shape struct {
	// ID is the stable short name used by `shapes show` and in explain output.
	ID string
	// Call is the literal call name as it appears in source, e.g. "load_dataset".
	Call        string
	Title       string
	Description string

	pattern *regexp.Regexp
}

// newShape compiles the call span matcher for call: the call name, optional
// whitespace, an opening parenthesis and the shortest run of any characters
// (newlines included) up to the first closing parenthesis. Nested parentheses in
// the argument list therefore truncate the span.
func newShape(id, call, title, description string) Shape {
	return Shape{
		ID:          id,
		Call:        call,
		Title:       title,
		Description: description,
		pattern:     regexp.MustCompile(regexp.QuoteMeta(call) + `\s*\((?s:.*?)\)`),
	}
}

// shapes is evaluated in this order; the order is part of the output contract
// for Sites.
var shapes = []Shape{
	newShape("auto-model", "AutoModel.from_pretrained",
		"Model load",
		"transformers AutoModel.from_pretrained resolves a hub model repository."),
	newShape("auto-tokenizer", "AutoTokenizer.from_pretrained",
		"Tokenizer load",
		"transformers AutoTokenizer.from_pretrained resolves a hub tokenizer repository."),
	newShape("load-dataset", "load_dataset",
		"Dataset load",
		"datasets.load_dataset resolves a hub dataset repository."),
	newShape("hf-hub-download", "hf_hub_download",
		"Hub file download",
		"huggingface_hub.hf_hub_download fetches a single file from a hub repository."),
	newShape("snapshot-download", "snapshot_download",
		"Hub snapshot download",
		"huggingface_hub.snapshot_download fetches a whole hub repository snapshot."),
}

// Shapes returns the call shapes in evaluation order.
func Shapes() []Shape {
	out := make([]Shape, len(shapes))
	copy(out, shapes)
	return out
}

// Lookup finds a shape by ID or by literal call name.
func Lookup(name string) (Shape, error) {
	name = strings.TrimSpace(name)
	for _, s := range shapes {
		if s.ID == name || s.Call == name {
			return s, nil
		}
	}
	return Shape{}, fmt.Errorf("call shape not found: %s", name)
}

package bridge

import (
	"fmt"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Namespace is the tool namespace of the learner API in the catalog.
const Namespace = "grid"

// Function describes one script-visible call.
type Function struct {
	// Name is the catalog name (letters, digits and underscores).
	Name string

	// Signature is how the call is written in a script.
	Signature string

	Description string
	Notes       string
	Params      map[string]any
	Required    []string
	Tags        []string

	// Example is a one-line script using the call.
	Example string
}

// ID returns the catalog identifier, e.g. "grid:move".
func (f Function) ID() string {
	return Namespace + ":" + f.Name
}

func (f Function) tool() model.Tool {
	props := f.Params
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(f.Required) > 0 {
		required := make([]any, len(f.Required))
		for i, r := range f.Required {
			required[i] = r
		}
		schema["required"] = required
	}
	return model.Tool{
		Tool: mcp.Tool{
			Name:        f.Name,
			Title:       f.Signature,
			Description: f.Description,
			InputSchema: schema,
			Annotations: &mcp.ToolAnnotations{Title: f.Signature},
		},
		Namespace: Namespace,
		Tags:      model.NormalizeTags(f.Tags),
	}
}

var (
	directionParam = map[string]any{
		"type":        "string",
		"enum":        []any{"up", "down", "left", "right"},
		"description": "Direction to move in",
	}
	stepsParam = map[string]any{
		"type":        "integer",
		"minimum":     0,
		"default":     1,
		"description": "Number of cells to move (default 1)",
	}
	textParam = map[string]any{
		"type":        "string",
		"description": "Text to add to the run log",
	}
)

const (
	moveNotes = "Every call counts toward the level's step limit, even when the move is blocked or steps is 0. " +
		"The player turns to face the direction before the move is checked. " +
		"Moving off the grid or into a wall leaves the player in place and logs \"Hit a wall!\"."
	logNotes = "Text is attached to the most recent move. " +
		"Several log calls after the same move are joined with newlines."
)

// Functions returns the learner API in presentation order.
func Functions() []Function {
	dirFn := func(name, dir string) Function {
		return Function{
			Name:        name,
			Signature:   name + "(steps = 1)",
			Description: fmt.Sprintf("Move the hero %s by steps cells. Same as move(%q, steps).", dir, dir),
			Notes:       moveNotes,
			Params:      map[string]any{"steps": stepsParam},
			Tags:        []string{"movement", dir},
			Example:     name + "(2)",
		}
	}
	return []Function{
		{
			Name:        "move",
			Signature:   "move(direction, steps = 1)",
			Description: "Move the hero in direction by steps cells.",
			Notes:       moveNotes,
			Params:      map[string]any{"direction": directionParam, "steps": stepsParam},
			Required:    []string{"direction"},
			Tags:        []string{"movement"},
			Example:     `move("right", 3)`,
		},
		dirFn("move_up", "up"),
		dirFn("move_down", "down"),
		dirFn("move_left", "left"),
		dirFn("move_right", "right"),
		{
			Name:        "log",
			Signature:   "log(text)",
			Description: "Write a line to the run log.",
			Notes:       logNotes,
			Params:      map[string]any{"text": textParam},
			Required:    []string{"text"},
			Tags:        []string{"output"},
			Example:     `log("hello")`,
		},
		{
			Name:        "speak",
			Signature:   "speak(text)",
			Description: "Make the hero say something. Same as log(text).",
			Notes:       logNotes,
			Params:      map[string]any{"text": textParam},
			Required:    []string{"text"},
			Tags:        []string{"output"},
			Example:     `speak("hi")`,
		},
		{
			Name:        "hero_move",
			Signature:   "hero.move(direction, steps = 1)",
			Description: "Object-style move. Same as move(direction, steps).",
			Notes:       moveNotes,
			Params:      map[string]any{"direction": directionParam, "steps": stepsParam},
			Required:    []string{"direction"},
			Tags:        []string{"movement", "hero"},
			Example:     `hero.move("down", 2)`,
		},
		{
			Name:        "hero_speak",
			Signature:   "hero.speak(text)",
			Description: "Object-style speak. Same as log(text).",
			Notes:       logNotes,
			Params:      map[string]any{"text": textParam},
			Required:    []string{"text"},
			Tags:        []string{"output", "hero"},
			Example:     `hero.speak("done")`,
		},
		{
			Name:        "print",
			Signature:   "print(...values)",
			Description: "Write values to standard output. Output that is not blank goes to the run log.",
			Notes:       logNotes,
			Params:      map[string]any{"values": map[string]any{"type": "array"}},
			Tags:        []string{"output", "stdout"},
			Example:     `print("x =", 3)`,
		},
		{
			Name:        "console_log",
			Signature:   "console.log(...values)",
			Description: "Standard console output. Output that is not blank goes to the run log.",
			Notes:       logNotes,
			Params:      map[string]any{"values": map[string]any{"type": "array"}},
			Tags:        []string{"output", "stdout"},
			Example:     `console.log("step", 1)`,
		},
	}
}

// docStore is the subset of the tooldoc in-memory store the catalog uses.
type docStore interface {
	RegisterDoc(id string, entry tooldoc.DocEntry) error
	DescribeTool(id string, level tooldoc.DetailLevel) (tooldoc.ToolDoc, error)
	ListExamples(id string, maxExamples int) ([]tooldoc.ToolExample, error)
}

// Catalog indexes the learner API for listing, search and documentation.
type Catalog struct {
	idx  index.Index
	docs docStore
	fns  []Function
}

// NewCatalog builds a Catalog holding every function from Functions.
func NewCatalog() (*Catalog, error) {
	idx := index.NewInMemoryIndex()
	docs := tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx})
	fns := Functions()

	for _, fn := range fns {
		if err := idx.RegisterTool(fn.tool(), model.NewLocalBackend(fn.Name)); err != nil {
			return nil, fmt.Errorf("catalog: register %s: %w", fn.ID(), err)
		}
		entry := tooldoc.DocEntry{
			Summary: fn.Description,
			Notes:   fn.Notes,
		}
		if fn.Example != "" {
			entry.Examples = []tooldoc.ToolExample{{
				Title:       fn.Signature,
				Description: fn.Example,
				Args:        map[string]any{"script": fn.Example},
			}}
		}
		if err := docs.RegisterDoc(fn.ID(), entry); err != nil {
			return nil, fmt.Errorf("catalog: document %s: %w", fn.ID(), err)
		}
	}

	return &Catalog{idx: idx, docs: docs, fns: fns}, nil
}

// Functions returns the catalog entries in presentation order.
func (c *Catalog) Functions() []Function {
	return append([]Function(nil), c.fns...)
}

// Search returns up to limit functions matching query.
func (c *Catalog) Search(query string, limit int) ([]index.Summary, error) {
	return c.idx.Search(query, limit)
}

// Describe returns the documentation of the named function. The name may be
// given with or without the namespace prefix.
func (c *Catalog) Describe(name string, level tooldoc.DetailLevel) (tooldoc.ToolDoc, error) {
	return c.docs.DescribeTool(c.qualify(name), level)
}

// Examples returns up to maxExamples usage examples for the named function.
func (c *Catalog) Examples(name string, maxExamples int) ([]tooldoc.ToolExample, error) {
	return c.docs.ListExamples(c.qualify(name), maxExamples)
}

func (c *Catalog) qualify(name string) string {
	for _, fn := range c.fns {
		if fn.Name == name {
			return fn.ID()
		}
	}
	return name
}

// Package mock provides a deterministic assistant client for offline use
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

var dishes = []string{"Skillet", "Traybake", "Stew", "Salad", "Pasta Bake"}

// Client answers every request with a recipe built from the prompt. The same
// request always produces the same text.
type Client struct{}

var _ outbound.AssistantClient = Client{}

// NewClient creates a new mock client
func NewClient() Client {
	return Client{}
}

// Complete returns a Title/Ingredients/Steps recipe
func (Client) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ingredients := ingredientsFrom(req.Prompt)
	h := fnv.New32a()
	_, _ = h.Write([]byte(req.Prompt))
	dish := dishes[h.Sum32()%uint32(len(dishes))]

	title := "Family " + dish
	if len(ingredients) > 0 {
		title = fmt.Sprintf("%s %s", capitalize(ingredients[0]), dish)
	}
	if len(ingredients) == 0 {
		ingredients = []string{"Potatoes", "Carrots", "Smoked paprika", "Olive oil"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", title)
	b.WriteString("Ingredients:\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	b.WriteString("- Salt\n- Pepper\n")
	b.WriteString("Steps:\n")
	b.WriteString("1. Prepare the ingredients.\n")
	fmt.Fprintf(&b, "2. Cook everything together as a %s.\n", strings.ToLower(dish))
	b.WriteString("3. Season to taste and serve.")

	return b.String(), nil
}

// Provider returns "mock"
func (Client) Provider() string {
	return "mock"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ingredientsFrom pulls the comma-separated list after "using:" out of a
// generate prompt
func ingredientsFrom(prompt string) []string {
	idx := strings.Index(strings.ToLower(prompt), "using:")
	if idx < 0 {
		return nil
	}
	rest := prompt[idx+len("using:"):]
	if end := strings.Index(rest, ". "); end >= 0 {
		rest = rest[:end]
	}

	var out []string
	for _, part := range strings.Split(rest, ",") {
		if part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), ".")); part != "" {
			out = append(out, part)
		}
	}
	return out
}

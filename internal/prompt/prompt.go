// Package prompt implements the interactive card entry flow.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/deppmann/biocards"
	"github.com/deppmann/biocards/pkg/cards"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/logging"
)

// CatalogWriter is the part of the client the flow needs.
type CatalogWriter interface {
	biocards.Catalog
	Upsert(ctx context.Context, sub biocards.Submission) (*cards.UpsertResult, error)
}

// Flow asks for each card field on a line-oriented terminal.
type Flow struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a flow reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Flow {
	return &Flow{in: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the trimmed answer. End of input counts as
// an empty answer.
func (f *Flow) Ask(label string) string {
	fmt.Fprint(f.out, label)
	line, err := f.in.ReadString('\n')
	if err != nil && err != io.EOF {
		logging.Debug().Err(err).Msg("Reading answer failed")
	}
	if err != nil && line == "" {
		// Keep the transcript on separate lines when input runs out.
		fmt.Fprintln(f.out)
	}
	return strings.TrimSpace(line)
}

// Collect asks for every field of a submission. The era menu lists the
// catalog vocabulary; an answer naming a menu number selects that era and
// anything else is taken as the era text.
func (f *Flow) Collect(catalog *cards.Catalog) biocards.Submission {
	var sub biocards.Submission

	sub.Name = f.Ask("Scientist's full name: ")
	sub.Years = f.Ask("Years (e.g., 1901-1994): ")

	fmt.Fprintln(f.out, "\nAvailable eras:")
	for i, era := range catalog.Eras {
		fmt.Fprintf(f.out, "  %d. %s\n", i+1, era)
	}
	sub.Era = catalog.ResolveEra(f.Ask("\nEnter era number or name: "))

	sub.Contribution = f.Ask("One-sentence contribution: ")

	id := sub.ID()
	defaultFront := cards.DefaultFrontFile(id)
	defaultBack := cards.DefaultBackFile(id)

	sub.FrontFile = f.Ask(fmt.Sprintf("Front image filename [%s]: ", defaultFront))
	if sub.FrontFile == "" {
		sub.FrontFile = defaultFront
	}
	sub.BackFile = f.Ask(fmt.Sprintf("Back image filename [%s]: ", defaultBack))
	if sub.BackFile == "" {
		sub.BackFile = defaultBack
	}

	sub.Student = f.Ask("Student name (optional): ")
	return sub
}

// Run collects a submission and upserts it. There is no way to abandon the
// flow once started: every run ends in exactly one upsert.
func (f *Flow) Run(ctx context.Context, client CatalogWriter) (*cards.UpsertResult, error) {
	fmt.Fprintln(f.out, "\n=== Add New Trading Card ===")
	fmt.Fprintln(f.out)

	catalog, err := client.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	sub := f.Collect(catalog)

	result, err := client.Upsert(ctx, sub)
	if err != nil {
		return nil, err
	}
	Report(f.out, result)

	fmt.Fprintf(f.out, "\nDone! Make sure %s and %s are in the %s folder.\n",
		sub.FrontFile, sub.BackFile, constants.ImageURLPrefix)
	fmt.Fprintln(f.out, "Then: git add . && git commit -m 'Add card' && git push")
	return result, nil
}

// Report prints the one-line outcome of an upsert.
func Report(w io.Writer, result *cards.UpsertResult) {
	if result.Created {
		fmt.Fprintf(w, "Added: %s (%s)\n", result.Card.ScientistName, result.Card.ID)
		return
	}
	fmt.Fprintf(w, "Updating existing card: %s\n", result.Card.ID)
}

package output

import (
	"io"
	"strconv"

	"github.com/deppmann/biocards/pkg/cards"
)

// CardsTable lays out cards one per row. The wide layout adds the
// contribution, the image files and the submission details.
func CardsTable(list []cards.Card, wide bool) Data {
	if !wide {
		data := Data{
			Headers:         []string{"ID", "Scientist", "Years", "Era"},
			ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft},
		}
		for _, c := range list {
			data.Rows = append(data.Rows, []string{c.ID, c.ScientistName, c.ScientistYears, c.Era})
		}
		return data
	}

	data := Data{
		Headers: []string{"ID", "Scientist", "Years", "Era", "Contribution", "Front", "Back", "Student", "Submitted", "Late"},
	}
	for _, c := range list {
		late := ""
		if c.LateSubmission {
			late = "yes"
		}
		data.Rows = append(data.Rows, []string{
			c.ID,
			c.ScientistName,
			c.ScientistYears,
			c.Era,
			c.Contribution,
			cards.ImageFile(c.FrontURL),
			cards.ImageFile(c.BackURL),
			c.StudentName,
			c.SubmittedDate,
			late,
		})
	}
	return data
}

// ErasTable numbers the era vocabulary the way the entry menu does and
// counts the cards filed under each era.
func ErasTable(catalog *cards.Catalog) Data {
	counts := make(map[string]int, len(catalog.Eras))
	for _, c := range catalog.Cards {
		counts[c.Era]++
	}

	data := Data{
		Headers:         []string{"#", "Era", "Cards"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight},
	}
	for i, era := range catalog.Eras {
		data.Rows = append(data.Rows, []string{strconv.Itoa(i + 1), era, strconv.Itoa(counts[era])})
	}
	return data
}

// WriteCards formats cards for w. Tables use CardsTable; other formats
// write the card records themselves.
func WriteCards(w io.Writer, format Format, list []cards.Card) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, CardsTable(list, format == FormatWide))
	}
	if list == nil {
		list = []cards.Card{}
	}
	return NewFormatter(format).Format(w, list)
}

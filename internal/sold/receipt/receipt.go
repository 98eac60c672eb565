package receipt

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	appconfig "github.com/smallbiznis/showroom/internal/config"
)

type Data struct {
	Number     string
	Date       string
	Customer   string
	Mobile     string
	Email      string
	Address    string
	SalesStaff string
	Items      []Item
	Total      string
}

// Item is one weight or detail line printed on the receipt.
type Item struct {
	Description string
	Value       string
}

type Generator struct {
	shop string
}

func New(cfg appconfig.Config) *Generator {
	return &Generator{shop: cfg.AppName}
}

// Render lays out a single-page sale receipt and returns the PDF bytes.
func (g *Generator) Render(ctx context.Context, data Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Sale receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, g.shop, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Receipt number: "+data.Number, props.Text{Top: 0}),
			text.New("Date: "+data.Date, props.Text{Top: 4}),
			text.New("Sales staff: "+data.SalesStaff, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Sold to", props.Text{Style: fontstyle.Bold}),
			text.New(data.Customer, props.Text{Top: 5}),
			text.New(data.Mobile, props.Text{Top: 9}),
			text.New(data.Email, props.Text{Top: 13}),
		),
	)
	if data.Address != "" {
		m.AddRow(12, text.NewCol(12, data.Address, props.Text{Size: 9}))
	}

	m.AddRow(10,
		text.NewCol(8, "Detail", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Value", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range data.Items {
		m.AddRow(8,
			text.NewCol(8, item.Description, props.Text{Size: 9}),
			text.NewCol(4, item.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
		text.NewCol(3, data.Total, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

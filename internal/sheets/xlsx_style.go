package sheets

import (
	"github.com/xuri/excelize/v2"
)

type paletteColors struct {
	title  string
	header string
}

var palettes = map[Palette]paletteColors{
	PaletteBlue:   {title: "#00008B", header: "#ADD8E6"},
	PaletteGreen:  {title: "#006400", header: "#90EE90"},
	PaletteOrange: {title: "#FF8C00", header: "#F08080"},
}

const (
	totalFill     = "#FFFF00"
	alternateFill = "#D3D3D3"
	kpiFontColor  = "#006400"
)

type styleKey struct {
	palette   Palette
	row       RowKind
	format    Format
	bold      bool
	alternate bool
	filled    bool
}

// styleCache registers each distinct style with the workbook once.
type styleCache struct {
	file *excelize.File
	ids  map[styleKey]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{file: f, ids: make(map[styleKey]int)}
}

func (c *styleCache) get(key styleKey) (int, error) {
	if id, ok := c.ids[key]; ok {
		return id, nil
	}

	style := buildStyle(key)
	if style == nil {
		c.ids[key] = 0
		return 0, nil
	}

	id, err := c.file.NewStyle(style)
	if err != nil {
		return 0, err
	}
	c.ids[key] = id
	return id, nil
}

func buildStyle(key styleKey) *excelize.Style {
	colors := palettes[key.palette]
	style := &excelize.Style{}
	plain := true

	if key.bold {
		style.Font = &excelize.Font{Bold: true}
		plain = false
	}

	switch key.row {
	case RowTitle:
		style.Font = &excelize.Font{Bold: true, Size: 16, Color: "#FFFFFF"}
		style.Fill = solidFill(colors.title)
		style.Alignment = &excelize.Alignment{Horizontal: "center"}
		plain = false
	case RowSubtitle:
		style.Font = &excelize.Font{Italic: true}
		style.Alignment = &excelize.Alignment{Horizontal: "center"}
		plain = false
	case RowSection:
		style.Font = &excelize.Font{Bold: true, Size: 14}
		plain = false
	case RowHeader:
		style.Fill = solidFill(colors.header)
		style.Alignment = &excelize.Alignment{Horizontal: "center"}
		plain = false
	case RowKPI:
		if !key.bold {
			style.Font = &excelize.Font{Size: 14, Color: kpiFontColor}
			plain = false
		}
	case RowTotal:
		if key.filled {
			style.Fill = solidFill(totalFill)
			plain = false
		}
	}

	if key.alternate {
		style.Fill = solidFill(alternateFill)
		plain = false
	}

	if numFmt := numberFormat(key.format); numFmt != "" {
		style.CustomNumFmt = &numFmt
		plain = false
	}

	if plain {
		return nil
	}
	return style
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func numberFormat(f Format) string {
	switch f {
	case FormatCurrency:
		return CurrencyNumFmt
	case FormatDate:
		return DateNumFmt
	case FormatDateTime:
		return DateTimeNumFmt
	default:
		return ""
	}
}

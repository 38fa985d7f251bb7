package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Layout names a starting position.
type Layout uint8

const (
	LayoutStandard Layout = iota
	LayoutGermanDaisy
	LayoutBelgianDaisy
	LayoutEmpty
)

var layoutNames = [...]string{
	LayoutStandard:     "standard",
	LayoutGermanDaisy:  "german_daisy",
	LayoutBelgianDaisy: "belgian_daisy",
	LayoutEmpty:        "empty",
}

const (
	o = CellOffBoard
	e = CellEmpty
	w = CellWhite
	k = CellBlack
)

var emptyGrid = Board{
	{o, o, o, o, e, e, e, e, e},
	{o, o, o, e, e, e, e, e, e},
	{o, o, e, e, e, e, e, e, e},
	{o, e, e, e, e, e, e, e, e},
	{e, e, e, e, e, e, e, e, e},
	{e, e, e, e, e, e, e, e, o},
	{e, e, e, e, e, e, e, o, o},
	{e, e, e, e, e, e, o, o, o},
	{e, e, e, e, e, o, o, o, o},
}

var layouts = [...]Board{
	LayoutStandard: {
		{o, o, o, o, w, w, w, w, w},
		{o, o, o, w, w, w, w, w, w},
		{o, o, e, e, w, w, w, e, e},
		{o, e, e, e, e, e, e, e, e},
		{e, e, e, e, e, e, e, e, e},
		{e, e, e, e, e, e, e, e, o},
		{e, e, k, k, k, e, e, o, o},
		{k, k, k, k, k, k, o, o, o},
		{k, k, k, k, k, o, o, o, o},
	},
	LayoutGermanDaisy: {
		{o, o, o, o, w, w, e, k, k},
		{o, o, o, w, w, w, k, k, k},
		{o, o, e, w, w, e, k, k, e},
		{o, e, e, e, e, e, e, e, e},
		{e, e, e, e, e, e, e, e, e},
		{e, e, e, e, e, e, e, e, o},
		{e, k, k, e, w, w, e, o, o},
		{k, k, k, w, w, w, o, o, o},
		{k, k, e, w, w, o, o, o, o},
	},
	LayoutBelgianDaisy: {
		{o, o, o, o, e, e, e, e, e},
		{o, o, o, w, w, e, e, k, k},
		{o, o, w, w, w, e, k, k, k},
		{o, e, w, w, e, e, k, k, e},
		{e, e, e, e, e, e, e, e, e},
		{e, k, k, e, e, w, w, e, o},
		{k, k, k, e, w, w, w, o, o},
		{k, k, e, e, w, w, o, o, o},
		{e, e, e, e, e, o, o, o, o},
	},
	LayoutEmpty: emptyGrid,
}

// NewBoard returns the starting position for layout. Unknown layouts give the
// empty hexagon.
func NewBoard(layout Layout) Board {
	if int(layout) < len(layouts) {
		return layouts[layout]
	}
	return emptyGrid
}

// Empty is the hexagon with no marbles.
func Empty() Board {
	return emptyGrid
}

func (l Layout) String() string {
	if int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return "unknown"
}

func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Layout) UnmarshalText(text []byte) error {
	parsed, err := ParseLayout(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func ParseLayout(name string) (Layout, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for i, candidate := range layoutNames {
		if candidate == normalized {
			return Layout(i), nil
		}
	}
	return LayoutStandard, errors.Errorf("unknown layout %q", name)
}

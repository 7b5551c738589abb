package xcursor

import (
	"sort"

	fontcursor "github.com/BurntSushi/xgbutil/xcursor"
)

// coreGlyphs maps the names of the X11 cursor font glyphs to their glyph
// index. The mask glyph is always the next index.
var coreGlyphs = map[string]uint16{
	"X_cursor":            fontcursor.XCursor,
	"arrow":               fontcursor.Arrow,
	"based_arrow_down":    fontcursor.BasedArrowDown,
	"based_arrow_up":      fontcursor.BasedArrowUp,
	"boat":                fontcursor.Boat,
	"bogosity":            fontcursor.Bogosity,
	"bottom_left_corner":  fontcursor.BottomLeftCorner,
	"bottom_right_corner": fontcursor.BottomRightCorner,
	"bottom_side":         fontcursor.BottomSide,
	"bottom_tee":          fontcursor.BottomTee,
	"box_spiral":          fontcursor.BoxSpiral,
	"center_ptr":          fontcursor.CenterPtr,
	"circle":              fontcursor.Circle,
	"clock":               fontcursor.Clock,
	"coffee_mug":          fontcursor.CoffeeMug,
	"cross":               fontcursor.Cross,
	"cross_reverse":       fontcursor.CrossReverse,
	"crosshair":           fontcursor.Crosshair,
	"diamond_cross":       fontcursor.DiamondCross,
	"dot":                 fontcursor.Dot,
	"dotbox":              fontcursor.DotBoxMask,
	"double_arrow":        fontcursor.DoubleArrow,
	"draft_large":         fontcursor.DraftLarge,
	"draft_small":         fontcursor.DraftSmall,
	"draped_box":          fontcursor.DrapedBox,
	"exchange":            fontcursor.Exchange,
	"fleur":               fontcursor.Fleur,
	"gobbler":             fontcursor.Gobbler,
	"gumby":               fontcursor.Gumby,
	"hand1":               fontcursor.Hand1,
	"hand2":               fontcursor.Hand2,
	"heart":               fontcursor.Heart,
	"icon":                fontcursor.Icon,
	"iron_cross":          fontcursor.IronCross,
	"left_ptr":            fontcursor.LeftPtr,
	"left_side":           fontcursor.LeftSide,
	"left_tee":            fontcursor.LeftTee,
	"leftbutton":          fontcursor.LeftButton,
	"ll_angle":            fontcursor.LLAngle,
	"lr_angle":            fontcursor.LRAngle,
	"man":                 fontcursor.Man,
	"middlebutton":        fontcursor.MiddleButton,
	"mouse":               fontcursor.Mouse,
	"pencil":              fontcursor.Pencil,
	"pirate":              fontcursor.Pirate,
	"plus":                fontcursor.Plus,
	"question_arrow":      fontcursor.QuestionArrow,
	"right_ptr":           fontcursor.RightPtr,
	"right_side":          fontcursor.RightSide,
	"right_tee":           fontcursor.RightTee,
	"rightbutton":         fontcursor.RightButton,
	"rtl_logo":            fontcursor.RtlLogo,
	"sailboat":            fontcursor.Sailboat,
	"sb_down_arrow":       fontcursor.SBDownArrow,
	"sb_h_double_arrow":   fontcursor.SBHDoubleArrow,
	"sb_left_arrow":       fontcursor.SBLeftArrow,
	"sb_right_arrow":      fontcursor.SBRightArrow,
	"sb_up_arrow":         fontcursor.SBUpArrow,
	"sb_v_double_arrow":   fontcursor.SBVDoubleArrow,
	"shuttle":             fontcursor.Shuttle,
	"sizing":              fontcursor.Sizing,
	"spider":              fontcursor.Spider,
	"spraycan":            fontcursor.Spraycan,
	"star":                fontcursor.Star,
	"target":              fontcursor.Target,
	"tcross":              fontcursor.TCross,
	"top_left_arrow":      fontcursor.TopLeftArrow,
	"top_left_corner":     fontcursor.TopLeftCorner,
	"top_right_corner":    fontcursor.TopRightCorner,
	"top_side":            fontcursor.TopSide,
	"top_tee":             fontcursor.TopTee,
	"trek":                fontcursor.Trek,
	"ul_angle":            fontcursor.ULAngle,
	"umbrella":            fontcursor.Umbrella,
	"ur_angle":            fontcursor.URAngle,
	"watch":               fontcursor.Watch,
	"xterm":               fontcursor.XTerm,
}

// CoreGlyph returns the cursor font glyph for a core cursor name.
func CoreGlyph(name string) (uint16, bool) {
	g, ok := coreGlyphs[name]
	return g, ok
}

// CoreNames lists the core cursor names in glyph order.
func CoreNames() []string {
	names := make([]string, 0, len(coreGlyphs))
	for name := range coreGlyphs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return coreGlyphs[names[i]] < coreGlyphs[names[j]]
	})
	return names
}

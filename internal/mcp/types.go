package mcp

// ResolveCursorInput is the input for the resolve_cursor tool.
type ResolveCursorInput struct {
	Name  string `json:"name" jsonschema:"Cursor name, e.g. left_ptr, xterm, watch"`
	Theme string `json:"theme,omitempty" jsonschema:"Theme to start in (default: the configured theme)"`
}

// ResolveCursorOutput is the output for the resolve_cursor tool.
type ResolveCursorOutput struct {
	Name       string   `json:"name"`
	Theme      string   `json:"theme"`
	Path       string   `json:"path,omitempty"`
	Glyph      *uint16  `json:"glyph,omitempty"`
	SearchPath []string `json:"search_path"`
}

// InspectCursorInput is the input for the inspect_cursor tool.
type InspectCursorInput struct {
	Path string `json:"path" jsonschema:"Absolute path of an Xcursor file"`
	Size uint32 `json:"size,omitempty" jsonschema:"Nominal size to select frames for (default: the configured size, else 24)"`
}

// ImageInfo describes one decoded frame.
type ImageInfo struct {
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
	XHot   uint16 `json:"xhot"`
	YHot   uint16 `json:"yhot"`
	Delay  uint32 `json:"delay_ms"`
}

// InspectCursorOutput is the output for the inspect_cursor tool.
type InspectCursorOutput struct {
	Path     string      `json:"path"`
	Entries  int         `json:"toc_entries"`
	Sizes    []uint32    `json:"sizes"`
	Selected uint32      `json:"selected_size"`
	Animated bool        `json:"animated"`
	Frames   []ImageInfo `json:"frames"`
}

// ListThemesInput is the input for the list_themes tool.
type ListThemesInput struct{}

// ThemeInfo describes one installed theme.
type ThemeInfo struct {
	Name     string   `json:"name"`
	Inherits []string `json:"inherits,omitempty"`
}

// ListThemesOutput is the output for the list_themes tool.
type ListThemesOutput struct {
	SearchPath []string    `json:"search_path"`
	Themes     []ThemeInfo `json:"themes"`
}

// ListCursorsInput is the input for the list_cursors tool.
type ListCursorsInput struct {
	Theme   string `json:"theme" jsonschema:"Theme name"`
	Pattern string `json:"pattern,omitempty" jsonschema:"Glob over cursor names, e.g. *_ptr or {xterm,text} (default: all)"`
}

// ListCursorsOutput is the output for the list_cursors tool.
type ListCursorsOutput struct {
	Theme   string   `json:"theme"`
	Cursors []string `json:"cursors"`
}

// ExtensionBase assigns an error base to an extension for offline
// classification.
type ExtensionBase struct {
	Name       string `json:"name" jsonschema:"Extension wire name, e.g. RENDER"`
	FirstError uint8  `json:"first_error" jsonschema:"First error code assigned to the extension"`
}

// ClassifyErrorInput is the input for the classify_error tool.
type ClassifyErrorInput struct {
	Packet     string          `json:"packet" jsonschema:"The 32-byte error packet as hex; spaces and colons are ignored"`
	Extensions []ExtensionBase `json:"extensions,omitempty" jsonschema:"Error bases to classify against instead of the live server"`
}

// ClassifyErrorOutput is the output for the classify_error tool.
type ClassifyErrorOutput struct {
	Source   string `json:"source"`
	Code     uint8  `json:"code"`
	Sequence uint16 `json:"sequence"`
	Major    uint8  `json:"major_opcode"`
	Minor    uint16 `json:"minor_opcode"`
	Value    uint32 `json:"value"`
	Range    string `json:"range,omitempty"`
	Message  string `json:"message"`
}

// ErrorRangesInput is the input for the error_ranges tool.
type ErrorRangesInput struct{}

// RangeInfo is one error code interval, inclusive.
type RangeInfo struct {
	Name  string `json:"name"`
	First int    `json:"first"`
	Last  int    `json:"last"`
}

// ErrorRangesOutput is the output for the error_ranges tool.
type ErrorRangesOutput struct {
	Ranges []RangeInfo `json:"ranges"`
}

// ApplyCursorInput is the input for the apply_cursor tool.
type ApplyCursorInput struct {
	Name    string `json:"name,omitempty" jsonschema:"Cursor name (default: the configured default_cursor)"`
	Theme   string `json:"theme,omitempty" jsonschema:"Theme override"`
	Size    uint32 `json:"size,omitempty" jsonschema:"Size override"`
	Replace bool   `json:"replace,omitempty" jsonschema:"Also replace every cursor with this name on existing windows"`
}

// ApplyCursorOutput is the output for the apply_cursor tool.
type ApplyCursorOutput struct {
	Name  string  `json:"name"`
	Theme string  `json:"theme"`
	Path  string  `json:"path,omitempty"`
	Glyph *uint16 `json:"glyph,omitempty"`
}

package xcursor

import "github.com/BurntSushi/xgb/render"

// StandardFormat names one of the picture formats every Render server is
// expected to provide.
type StandardFormat int

const (
	FormatARGB32 StandardFormat = iota
	FormatRGB24
	FormatA8
	FormatA4
	FormatA1
)

// FormatFeature selects which fields of a template take part in matching.
type FormatFeature uint16

const (
	FeatureID FormatFeature = 1 << iota
	FeatureType
	FeatureDepth
	FeatureRedShift
	FeatureRedMask
	FeatureGreenShift
	FeatureGreenMask
	FeatureBlueShift
	FeatureBlueMask
	FeatureAlphaShift
	FeatureAlphaMask
	FeatureColormap
)

const rgbFeatures = FeatureType | FeatureDepth |
	FeatureRedShift | FeatureRedMask |
	FeatureGreenShift | FeatureGreenMask |
	FeatureBlueShift | FeatureBlueMask

func (f StandardFormat) template() (render.Pictforminfo, FormatFeature) {
	switch f {
	case FormatARGB32:
		return render.Pictforminfo{
			Type:  render.PictTypeDirect,
			Depth: 32,
			Direct: render.Directformat{
				AlphaShift: 24, AlphaMask: 0xff,
				RedShift: 16, RedMask: 0xff,
				GreenShift: 8, GreenMask: 0xff,
				BlueShift: 0, BlueMask: 0xff,
			},
		}, rgbFeatures | FeatureAlphaShift | FeatureAlphaMask
	case FormatRGB24:
		return render.Pictforminfo{
			Type:  render.PictTypeDirect,
			Depth: 24,
			Direct: render.Directformat{
				RedShift: 16, RedMask: 0xff,
				GreenShift: 8, GreenMask: 0xff,
				BlueShift: 0, BlueMask: 0xff,
			},
		}, rgbFeatures | FeatureAlphaMask
	}

	var depth byte
	var mask uint16
	switch f {
	case FormatA8:
		depth, mask = 8, 0xff
	case FormatA4:
		depth, mask = 4, 0x0f
	default:
		depth, mask = 1, 0x01
	}
	info := render.Pictforminfo{
		Type:   render.PictTypeDirect,
		Depth:  depth,
		Direct: render.Directformat{AlphaMask: mask},
	}
	return info, FeatureType | FeatureDepth |
		FeatureRedMask | FeatureGreenMask | FeatureBlueMask |
		FeatureAlphaShift | FeatureAlphaMask
}

// FindFormat returns the first format that agrees with want on every
// field selected by features.
func FindFormat(formats []render.Pictforminfo, want render.Pictforminfo, features FormatFeature) (render.Pictforminfo, bool) {
	for _, got := range formats {
		if matchFormat(got, want, features) {
			return got, true
		}
	}
	return render.Pictforminfo{}, false
}

// FindStandardFormat looks up one of the standard formats.
func FindStandardFormat(formats []render.Pictforminfo, f StandardFormat) (render.Pictforminfo, bool) {
	want, features := f.template()
	return FindFormat(formats, want, features)
}

func matchFormat(got, want render.Pictforminfo, features FormatFeature) bool {
	checks := []struct {
		feature FormatFeature
		equal   bool
	}{
		{FeatureID, got.Id == want.Id},
		{FeatureType, got.Type == want.Type},
		{FeatureDepth, got.Depth == want.Depth},
		{FeatureRedShift, got.Direct.RedShift == want.Direct.RedShift},
		{FeatureRedMask, got.Direct.RedMask == want.Direct.RedMask},
		{FeatureGreenShift, got.Direct.GreenShift == want.Direct.GreenShift},
		{FeatureGreenMask, got.Direct.GreenMask == want.Direct.GreenMask},
		{FeatureBlueShift, got.Direct.BlueShift == want.Direct.BlueShift},
		{FeatureBlueMask, got.Direct.BlueMask == want.Direct.BlueMask},
		{FeatureAlphaShift, got.Direct.AlphaShift == want.Direct.AlphaShift},
		{FeatureAlphaMask, got.Direct.AlphaMask == want.Direct.AlphaMask},
		{FeatureColormap, got.Colormap == want.Colormap},
	}
	for _, c := range checks {
		if features&c.feature != 0 && !c.equal {
			return false
		}
	}
	return true
}

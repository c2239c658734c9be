package severity

// Level is the display classification for one severity code: a fixed
// label plus a style key the presentation layer maps to actual colors.
type Level struct {
	Label    string
	StyleKey string
}

// DefaultStyleKey is the style for codes outside the standard 0..7
// scale.
const DefaultStyleKey = "default"

var unknownLevel = Level{Label: "UNKNOWN", StyleKey: DefaultStyleKey}

// MAVLink severity scale, 0 most severe. Style keys are color names
// the UI theme maps to concrete styles.
var levels = map[uint8]Level{
	0: {Label: "EMERGENCY", StyleKey: "red"},
	1: {Label: "ALERT", StyleKey: "orange red"},
	2: {Label: "CRITICAL", StyleKey: "dark orange"},
	3: {Label: "ERROR", StyleKey: "red"},
	4: {Label: "WARNING", StyleKey: "orange"},
	5: {Label: "NOTICE", StyleKey: "green"},
	6: {Label: "INFO", StyleKey: "blue"},
	7: {Label: "DEBUG", StyleKey: "gray"},
}

// Catalog resolves severity codes to display levels. It is immutable
// and safe for concurrent use.
type Catalog struct{}

func NewCatalog() Catalog {
	return Catalog{}
}

// Resolve looks up one code. Codes outside 0..7 map to the UNKNOWN
// level with the default style.
func (Catalog) Resolve(code uint8) Level {
	if level, ok := levels[code]; ok {
		return level
	}
	return unknownLevel
}

// StyleKeys returns the full code-to-style mapping, used once at
// startup to configure the presentation sink.
func (Catalog) StyleKeys() map[uint8]string {
	keys := make(map[uint8]string, len(levels))
	for code, level := range levels {
		keys[code] = level.StyleKey
	}
	return keys
}

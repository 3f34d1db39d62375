package style

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Reserved colors never handed out to a sector
const (
	FallbackColor = "#808080"
	SourceColor   = "#008000"
	SinkColor     = "#ff0000"
)

// tab20 is matplotlib's qualitative 20-color map, used while sectors fit into it
var tab20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// viridis stops, interpolated when there are more sectors than tab20 colors
var viridis = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

var reserved = map[string]bool{
	FallbackColor: true,
	SourceColor:   true,
	SinkColor:     true,
}

// MinReservedDistance is the smallest CIE Lab distance a sector color keeps from
// every reserved color.
const MinReservedDistance = 0.1

// lightnessStep is the Lab lightness shift tried when a color must move
const lightnessStep = 0.005

var reservedColors = func() []colorful.Color {
	out := make([]colorful.Color, 0, len(reserved))
	for hex := range reserved {
		c, _ := colorful.Hex(hex)
		out = append(out, c)
	}
	return out
}()

// Palette returns n distinct hex colors: tab20 for up to 20 entries, a sampled
// viridis ramp beyond that. Every color keeps MinReservedDistance from the
// reserved colors; a color that would repeat an earlier one is shifted in
// lightness until it is unique.
func Palette(n int) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, 0, n)
	if n <= len(tab20) {
		out = append(out, tab20[:n]...)
	} else {
		for i := 0; i < n; i++ {
			out = append(out, sampleViridis(float64(i)/float64(n-1)))
		}
	}
	used := make(map[string]bool, n)
	for i, c := range out {
		out[i] = adjust(c, used)
		used[out[i]] = true
	}
	return out
}

func sampleViridis(t float64) string {
	if t <= 0 {
		return viridis[0]
	}
	if t >= 1 {
		return viridis[len(viridis)-1]
	}
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	lo, _ := colorful.Hex(viridis[i])
	hi, _ := colorful.Hex(viridis[i+1])
	return lo.BlendRgb(hi, pos-float64(i)).Clamped().Hex()
}

func nearReserved(c colorful.Color) bool {
	for _, r := range reservedColors {
		if c.DistanceLab(r) < MinReservedDistance {
			return true
		}
	}
	return false
}

// adjust returns hex unchanged when it is unused and clear of the reserved colors.
// Otherwise it walks lightness outwards, lighter first, until both hold.
func adjust(hex string, used map[string]bool) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	if !used[hex] && !nearReserved(c) {
		return hex
	}
	l, a, b := c.Lab()
	for k := 1; float64(k)*lightnessStep <= 1; k++ {
		for _, sign := range []float64{1, -1} {
			h := colorful.Lab(l+sign*float64(k)*lightnessStep, a, b).Clamped().Hex()
			if used[h] {
				continue
			}
			if cand, _ := colorful.Hex(h); !nearReserved(cand) {
				return h
			}
		}
	}
	return hex
}

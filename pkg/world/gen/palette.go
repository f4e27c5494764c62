package gen

import "github.com/go-gl/mathgl/mgl64"

// Block types emitted by structure and vegetation builders.
const (
	TypeBrick       = "brick"
	TypeMossyBrick  = "mossy_brick"
	TypePillar      = "pillar"
	TypeRubble      = "rubble"
	TypeGold        = "gold_trim"
	TypeSpireStone  = "spire_stone"
	TypeSpireMetal  = "spire_metal"
	TypeGlow        = "glow"
	TypeObelisk     = "obelisk"
	TypeCrystal     = "crystal"
	TypeCrystal2    = "crystal2"
	TypeCrystalCore = "crystal_core"
	TypeIce         = "ice"
	TypePackedIce   = "packed_ice"
	TypeIceSpire    = "ice_spire"
	TypeIceCore     = "ice_core"
	TypeTrunk       = "alien_trunk"
	TypeLeaf        = "alien_leaf"
	TypeShrub       = "shrub"
	TypeStem        = "mushroom_stem"
	TypeCap         = "mushroom_cap"
	TypeGlowFungus  = "glow_fungus"
	TypeMonolith    = "monolith"
)

// FallbackColor is returned for block types without a palette entry.
var FallbackColor = mgl64.Vec3{0.5, 0.5, 0.5}

func defaultPalette() map[string]mgl64.Vec3 {
	return map[string]mgl64.Vec3{
		TypeBrick:       {0.62, 0.58, 0.52},
		TypeMossyBrick:  {0.45, 0.53, 0.38},
		TypePillar:      {0.78, 0.75, 0.68},
		TypeRubble:      {0.50, 0.48, 0.45},
		TypeGold:        {0.86, 0.70, 0.28},
		TypeSpireStone:  {0.40, 0.38, 0.45},
		TypeSpireMetal:  {0.58, 0.62, 0.70},
		TypeGlow:        {0.45, 0.95, 0.90},
		TypeObelisk:     {0.12, 0.10, 0.16},
		TypeCrystal:     {0.62, 0.40, 0.92},
		TypeCrystal2:    {0.35, 0.75, 0.95},
		TypeCrystalCore: {0.95, 0.85, 1.00},
		TypeIce:         {0.72, 0.87, 0.97},
		TypePackedIce:   {0.55, 0.72, 0.90},
		TypeIceSpire:    {0.84, 0.93, 1.00},
		TypeIceCore:     {0.40, 0.78, 0.98},
		TypeTrunk:       {0.36, 0.24, 0.30},
		TypeLeaf:        {0.28, 0.72, 0.55},
		TypeShrub:       {0.40, 0.55, 0.25},
		TypeStem:        {0.85, 0.82, 0.74},
		TypeCap:         {0.72, 0.25, 0.45},
		TypeGlowFungus:  {0.55, 1.00, 0.45},
		TypeMonolith:    {0.22, 0.22, 0.26},
	}
}

// TreeColors returns a copy of the block type palette.
func (g *Generator) TreeColors() map[string]mgl64.Vec3 {
	out := make(map[string]mgl64.Vec3, len(g.palette))
	for k, v := range g.palette {
		out[k] = v
	}
	return out
}

// BlockColor returns the palette color of a block type, or FallbackColor.
func (g *Generator) BlockColor(typ string) mgl64.Vec3 {
	if c, ok := g.palette[typ]; ok {
		return c
	}
	return FallbackColor
}

package gamedata

type MaterialRegistry interface {
	ByID(id int) (Material, bool)
	ByName(name string) (Material, bool)
	All() []Material
}

// GameData bundles the lookup tables a world is generated against.
type GameData struct {
	Name      string
	Materials MaterialRegistry
}

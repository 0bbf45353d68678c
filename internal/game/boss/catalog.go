package boss

import "time"

// Region IDs of lairs that constrain an encounter.
const (
	RegionKrakenLair    = 9116
	RegionCerberusLair  = 4883
	RegionMoleLairNorth = 6993
	RegionMoleLairSouth = 6992
	RegionCorpLair      = 11844
	RegionDagannothLair = 11589
)

// Animation IDs used as spawn/despawn stand-ins.
const (
	AnimZulrahClouds    = 5068
	AnimVorkathAttack   = 7952
	AnimVorkathFireBomb = 7960
	AnimCerberusWakeUp  = 4486
	AnimCerberusSleep   = 4487
	AnimKrakenTentacle  = 3860
)

// Kraken spawns as a whirlpool; its tentacles are what the client sees first.
const krakenStandIn = "Enormous Tentacle"

var catalog = []*Boss{
	{Name: "General Graardor", RespawnDelay: 90 * time.Second, Icon: "pet_general_graardor"},
	{Name: "K'ril Tsutsaroth", RespawnDelay: 90 * time.Second, Icon: "pet_kril_tsutsaroth"},
	{Name: "Kree'arra", RespawnDelay: 90 * time.Second, Icon: "pet_kreearra"},
	{Name: "Commander Zilyana", RespawnDelay: 90 * time.Second, Icon: "pet_zilyana"},
	{Name: "Callisto", RespawnDelay: 30 * time.Second, Icon: "callisto_cub"},
	{Name: "Chaos Elemental", RespawnDelay: 150 * time.Second, Icon: "pet_chaos_elemental"},
	{Name: "Chaos Fanatic", RespawnDelay: 30 * time.Second, Icon: "ancient_staff"},
	{Name: "Crazy Archaeologist", RespawnDelay: 30 * time.Second, Icon: "fedora"},
	{Name: "King Black Dragon", RespawnDelay: 9 * time.Second, Icon: "prince_black_dragon"},
	{Name: "Scorpia", RespawnDelay: 10 * time.Second, Icon: "scorpias_offspring"},
	{Name: "Venenatis", RespawnDelay: 30 * time.Second, Icon: "venenatis_spiderling"},
	{Name: "Vet'ion", RespawnDelay: 30 * time.Second, Icon: "vetion_jr"},
	{
		Name: "Dagannoth Prime", RespawnDelay: 90 * time.Second, Icon: "pet_dagannoth_prime",
		Family: DagannothKings, Regions: []int{RegionDagannothLair}, DeathWithoutDespawn: true,
	},
	{
		Name: "Dagannoth Rex", RespawnDelay: 90 * time.Second, Icon: "pet_dagannoth_rex",
		Family: DagannothKings, Regions: []int{RegionDagannothLair}, DeathWithoutDespawn: true,
	},
	{
		Name: "Dagannoth Supreme", RespawnDelay: 90 * time.Second, Icon: "pet_dagannoth_supreme",
		Family: DagannothKings, Regions: []int{RegionDagannothLair}, DeathWithoutDespawn: true,
	},
	{
		Name: "Corporeal Beast", RespawnDelay: 30 * time.Second, Icon: "pet_dark_core",
		Regions: []int{RegionCorpLair}, InstanceExempt: true, DeathWithoutDespawn: true,
	},
	{
		Name: "Giant Mole", RespawnDelay: 9 * time.Second, Icon: "baby_mole",
		Regions: []int{RegionMoleLairNorth, RegionMoleLairSouth}, DeathWithoutDespawn: true,
	},
	{Name: "Deranged Archaeologist", RespawnDelay: 29400 * time.Millisecond, Icon: "unidentified_large_fossil"},
	{
		Name: "Cerberus", RespawnDelay: 8400 * time.Millisecond, Icon: "hellpuppy",
		Regions: []int{RegionCerberusLair}, SpawnByAnimation: true,
		StartAnimations: []int{AnimCerberusWakeUp}, EndAnimations: []int{AnimCerberusSleep},
	},
	{Name: "Thermonuclear Smoke Devil", RespawnDelay: 8400 * time.Millisecond, Icon: "pet_smoke_devil"},
	{
		Name: "Kraken", RespawnDelay: 8400 * time.Millisecond, Icon: "pet_kraken",
		Regions: []int{RegionKrakenLair}, SpawnByAnimation: true,
		StartAnimations: []int{AnimKrakenTentacle},
	},
	{Name: "Kalphite Queen", RespawnDelay: 30 * time.Second, Icon: "kalphite_princess"},
	{Name: "Dusk", RespawnDelay: 5 * time.Minute, Icon: "noon"},
	{
		Name: "Zulrah", Icon: "pet_snakeling", SpawnByAnimation: true, NoRespawnTimer: true,
		StartAnimations: []int{AnimZulrahClouds},
	},
	{
		Name: "Vorkath", Icon: "vorki", SpawnByAnimation: true, NoRespawnTimer: true,
		StartAnimations: []int{AnimVorkathAttack, AnimVorkathFireBomb},
	},
}

var byName = func() map[string]*Boss {
	m := make(map[string]*Boss, len(catalog))
	for _, b := range catalog {
		if _, dup := m[b.Name]; dup {
			panic("boss: duplicate catalog name " + b.Name)
		}
		m[b.Name] = b
	}
	return m
}()

// Find looks up a boss by its in-game name.
func Find(name string) (*Boss, bool) {
	b, ok := byName[name]
	return b, ok
}

// Resolve maps an actor name to the boss it represents, applying stand-in names.
func Resolve(actorName string) (*Boss, bool) {
	if actorName == krakenStandIn {
		return Find("Kraken")
	}
	return Find(actorName)
}

// All returns the catalog in declaration order. The slice is a copy.
func All() []*Boss {
	out := make([]*Boss, len(catalog))
	copy(out, catalog)
	return out
}

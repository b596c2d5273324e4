package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outfitting-go/internal/adapters/catalog"
	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/config"
)

func loadDefault(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)
	return c
}

func TestLoadDefault_ShipsAndLookups(t *testing.T) {
	// Act
	c := loadDefault(t)

	// Assert
	ships := c.Ships()
	require.Len(t, ships, 3)
	assert.Equal(t, "sidewinder", ships[0].ID)
	assert.Equal(t, "eagle", ships[1].ID)
	assert.Equal(t, "cobra_mk_iii", ships[2].ID)
	assert.Equal(t, []string{"cr"}, ships[2].Slots.Internal[7].Eligible)

	pp := c.Standard(outfitting.PowerPlant, "2A")
	require.NotNil(t, pp)
	assert.Equal(t, 9.6, pp.PowerGen)
	assert.Nil(t, c.Standard(outfitting.PowerPlant, "9A"))

	bh := c.Bulkhead("sidewinder", 1)
	require.NotNil(t, bh)
	assert.Equal(t, 2.0, bh.Mass)
	assert.Equal(t, outfitting.GroupBulkhead, bh.Group)
	assert.Nil(t, c.Bulkhead("sidewinder", 5))
	assert.Nil(t, c.Bulkhead("anaconda", 0))

	require.NotNil(t, c.CargoHatch())
	assert.Equal(t, 0.6, c.CargoHatch().Power)

	// 340 modules, the cargo hatch and five bulkheads for each of three ships
	assert.Equal(t, 356, c.Len())
}

func TestShip_UnknownID(t *testing.T) {
	c := loadDefault(t)

	_, err := c.Ship("anaconda")

	var notFound *shared.ShipNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "anaconda", notFound.ShipID)
}

func TestNewShip_FreshShipEncodesEmpty(t *testing.T) {
	// Arrange
	c := loadDefault(t)

	// Act
	ship, err := c.NewShip("sidewinder")
	require.NoError(t, err)
	code, err := ship.BuildCode()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "0"+strings.Repeat("-", 7+4+4)+"..", code)
	assert.Equal(t, 25.0, ship.Stats().UnladenMass)
	assert.Equal(t, int64(4070), ship.Stats().TotalCost)
}

func TestLightestPowerDistributor(t *testing.T) {
	c := loadDefault(t)

	t.Run("lightest able to boost", func(t *testing.T) {
		m, ok := c.LightestPowerDistributor(1, 7)

		require.True(t, ok)
		assert.Equal(t, "1D", m.StandardToken())
	})

	t.Run("best effort when nothing can boost", func(t *testing.T) {
		m, ok := c.LightestPowerDistributor(1, 10)

		assert.False(t, ok)
		require.NotNil(t, m)
		assert.Equal(t, "1A", m.StandardToken())
	})
}

func TestLightestThruster(t *testing.T) {
	c := loadDefault(t)

	tests := []struct {
		name     string
		mass     float64
		token    string
		feasible bool
	}{
		{"light ship takes the lightest rating", 60, "1D", true},
		{"only A rated thrusters move 80t", 80, "1A", true},
		{"too heavy falls back to the largest max mass", 100, "1A", false},
		{"max mass is exclusive", 90, "1A", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := c.LightestThruster(2, tt.mass)

			require.NotNil(t, m)
			assert.Equal(t, tt.token, m.StandardToken())
			assert.Equal(t, tt.feasible, ok)
		})
	}
}

func TestLightestPowerPlant(t *testing.T) {
	c := loadDefault(t)

	t.Run("lightest generating more than demand", func(t *testing.T) {
		m, ok := c.LightestPowerPlant(2, 7, "")

		require.True(t, ok)
		assert.Equal(t, "1A", m.StandardToken())
	})

	t.Run("output equal to demand is not enough", func(t *testing.T) {
		m, ok := c.LightestPowerPlant(2, 7.2, "")

		require.True(t, ok)
		assert.Equal(t, "2A", m.StandardToken())
	})

	t.Run("rating floor", func(t *testing.T) {
		m, ok := c.LightestPowerPlant(2, 5, "C")

		require.True(t, ok)
		assert.LessOrEqual(t, m.Rating, "C")
		assert.Greater(t, m.PowerGen, 5.0)
	})

	t.Run("class limit", func(t *testing.T) {
		m, ok := c.LightestPowerPlant(1, 8, "")

		assert.False(t, ok)
		assert.Equal(t, "1A", m.StandardToken())
	})
}

func TestLightestPowerPlant_FallbackRespectsRatingFloor(t *testing.T) {
	// Arrange: the strongest plant is rated below the floor
	raw := tomlCatalog + `
[[modules]]
group = "pp"
category = "standard"
class = 1
rating = "A"
mass = 1
power_gen = 3
`
	c, err := catalog.Parse([]byte(raw), catalog.FormatTOML)
	require.NoError(t, err)

	// Act
	floored, floorOK := c.LightestPowerPlant(1, 10, "A")
	unfloored, unflooredOK := c.LightestPowerPlant(1, 10, "")

	// Assert
	assert.False(t, floorOK)
	require.NotNil(t, floored)
	assert.Equal(t, "1A", floored.StandardToken())
	assert.False(t, unflooredOK)
	assert.Equal(t, "1E", unfloored.StandardToken())
}

func TestFindHardpoint(t *testing.T) {
	c := loadDefault(t)

	gimballed := c.FindHardpoint(outfitting.HardpointQuery{Group: "pl", Class: 2, Mount: "G"})
	require.NotNil(t, gimballed)
	assert.Equal(t, 2, gimballed.Class)
	assert.Equal(t, "G", gimballed.Mount)

	booster := c.FindHardpoint(outfitting.HardpointQuery{Group: outfitting.GroupShieldBooster, Class: 0})
	require.NotNil(t, booster)
	assert.Equal(t, "E", booster.Rating)

	best := c.FindHardpoint(outfitting.HardpointQuery{Group: outfitting.GroupShieldBooster, Rating: "A"})
	require.NotNil(t, best)
	assert.Equal(t, 0.2, best.ShieldMul)
	assert.Same(t, best, c.Hardpoint(best.ID))

	seeker := c.FindHardpoint(outfitting.HardpointQuery{Group: "mr", Class: 1, Missile: "S"})
	require.NotNil(t, seeker)
	assert.Equal(t, "Seeker Missile Rack", seeker.Name)

	assert.Nil(t, c.FindHardpoint(outfitting.HardpointQuery{Group: "pl", Class: 4}))
}

const tomlCatalog = `
[cargo_hatch]
group = "cargohatch"
category = "system"
class = 1
rating = "H"
power = 0.6

[[ships]]
id = "shuttle"
name = "Shuttle"
hull_mass = 10
speed = 100
boost = 150
boost_energy = 5
pip_speed = 0.1

[ships.slots]
standard = [1, 1, 1, 1, 1, 1, 1]
hardpoints = [0]
internal = [{ class = 1 }]

[[ships.bulkheads]]
name = "Lightweight Alloy"
mass = 0

[[modules]]
group = "pp"
category = "standard"
class = 1
rating = "E"
mass = 1.3
power_gen = 4.8

[[modules]]
id = "c1"
group = "cr"
category = "internal"
class = 1
rating = "E"
capacity = 2
`

func TestParse_TOML(t *testing.T) {
	// Act
	c, err := catalog.Parse([]byte(tomlCatalog), catalog.FormatTOML)

	// Assert
	require.NoError(t, err)
	def, err := c.Ship("shuttle")
	require.NoError(t, err)
	assert.Equal(t, 10.0, def.Properties.HullMass)
	assert.Equal(t, [outfitting.StandardSlotCount]int{1, 1, 1, 1, 1, 1, 1}, def.Slots.Standard)
	assert.Equal(t, 4.8, c.Standard(outfitting.PowerPlant, "1E").PowerGen)
	assert.Equal(t, 2.0, c.Internal("c1").Capacity)
	assert.Equal(t, 4, c.Len())
}

func TestLoad_FormatFromExtension(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlCatalog), 0o600))

	// Act
	c, err := catalog.FromConfig(context.Background(), config.CatalogConfig{Path: path})

	// Assert
	require.NoError(t, err)
	assert.Len(t, c.Ships(), 1)
}

func TestFromConfig_RemoteCatalog(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalogs/modules.toml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(tomlCatalog))
	}))
	defer srv.Close()
	fetch := config.FetchConfig{Timeout: 5 * time.Second, BackoffBase: time.Millisecond, RateLimit: 100}

	// Act
	c, err := catalog.FromConfig(context.Background(), config.CatalogConfig{
		Path:  srv.URL + "/catalogs/modules.toml",
		Fetch: fetch,
	})
	_, missingErr := catalog.FromConfig(context.Background(), config.CatalogConfig{
		Path:  srv.URL + "/missing.yaml",
		Fetch: fetch,
	})

	// Assert
	require.NoError(t, err)
	assert.Len(t, c.Ships(), 1)
	require.Error(t, missingErr)
	assert.Contains(t, missingErr.Error(), "failed to fetch catalog")
}

func TestParse_Rejects(t *testing.T) {
	hatch := "cargo_hatch: {group: cargohatch, category: system, class: 1, rating: H}\n"
	ship := "ships:\n- {id: s, name: S, hull_mass: 10, slots: {standard: [1,1,1,1,1,1,1]}, bulkheads: [{name: L}]}\n"

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", hatch + ship + "modules:\n- {group: pp, category: standard, class: 1, rating: E, pwer_gen: 3}\n"},
		{"no ships", hatch + "ships: []\n"},
		{"hardpoint without id", hatch + ship + "modules:\n- {group: pl, category: hardpoint, class: 1, rating: F}\n"},
		{"standard module without rating", hatch + ship + "modules:\n- {group: pp, category: standard, class: 1}\n"},
		{"bad rating", hatch + ship + "modules:\n- {group: pp, category: standard, class: 1, rating: Z}\n"},
		{"unknown category", hatch + ship + "modules:\n- {group: pp, category: weird, class: 1, rating: E}\n"},
		{"standard group without a slot", hatch + ship + "modules:\n- {group: cr, category: standard, class: 1, rating: E}\n"},
		{"duplicate id", hatch + ship + "modules:\n- {id: c1, group: cr, category: internal, class: 1}\n- {id: c1, group: cr, category: internal, class: 2}\n"},
		{"wrong cargo hatch group", "cargo_hatch: {group: cr, category: system, class: 1}\n" + ship},
		{"six standard slots", hatch + "ships:\n- {id: s, name: S, hull_mass: 10, slots: {standard: [1,1,1,1,1,1]}, bulkheads: [{name: L}]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.Parse([]byte(tt.yaml), catalog.FormatYAML)

			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := catalog.Parse([]byte("{}"), "json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog format")
}

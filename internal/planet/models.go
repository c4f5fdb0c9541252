package planet

type Type string

const (
	TypeMetalRich  Type = "metal_rich"
	TypeIcy        Type = "icy"
	TypeRocky      Type = "rocky"
	TypeGasGiant   Type = "gas_giant"
	TypeEarthLike  Type = "earth_like"
	TypeWater      Type = "water"
	TypeWaterGiant Type = "water_giant"
)

// Types lists every planet type in declaration order.
var Types = []Type{
	TypeMetalRich,
	TypeIcy,
	TypeRocky,
	TypeGasGiant,
	TypeEarthLike,
	TypeWater,
	TypeWaterGiant,
}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Planet masses are in Earth masses, gravity in g, orbit distance in
// light-seconds and surface temperature in kelvin.
type Planet struct {
	Name               string  `json:"name"`
	Mass               float64 `json:"mass"`
	Gravity            float64 `json:"gravity"`
	OrbitDistance      float64 `json:"orbit_distance"`
	SurfaceTemperature float64 `json:"surface_temperature"`
	Type               Type    `json:"type"`
}

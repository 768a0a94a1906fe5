package planner

// Config holds the scheduling thresholds. The defaults are empirically tuned;
// keep them as named values rather than deriving new ones.
type Config struct {
	UnitsPerTerm       float64 // per-term unit cap
	UpperDivisionUnits float64 // completed+scheduled units before 100-level courses
	FillTolerance      float64 // a term this close to the cap counts as full
	ElectiveFloor      float64 // minimum elective units offered to a term
	ReservePerBlocked  float64 // headroom kept per prerequisite-blocked course
	ReserveCap         float64 // upper bound on that headroom
	ReserveFloorLoad   float64 // elective target never drops below this load
	LightLoadUnits     float64 // consolidation floor, absolute
	LightLoadRatio     float64 // consolidation floor, fraction of the cap
}

func DefaultConfig() Config {
	return Config{
		UnitsPerTerm:       15,
		UpperDivisionUnits: 60,
		FillTolerance:      0.5,
		ElectiveFloor:      3,
		ReservePerBlocked:  3,
		ReserveCap:         6,
		ReserveFloorLoad:   12,
		LightLoadUnits:     12,
		LightLoadRatio:     0.75,
	}
}

// WithUnitsPerTerm returns a copy with the cap replaced when units is positive.
func (c Config) WithUnitsPerTerm(units float64) Config {
	if units > 0 {
		c.UnitsPerTerm = units
	}
	return c
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.UnitsPerTerm <= 0 {
		c.UnitsPerTerm = def.UnitsPerTerm
	}
	if c.UpperDivisionUnits <= 0 {
		c.UpperDivisionUnits = def.UpperDivisionUnits
	}
	if c.FillTolerance <= 0 {
		c.FillTolerance = def.FillTolerance
	}
	if c.ElectiveFloor <= 0 {
		c.ElectiveFloor = def.ElectiveFloor
	}
	if c.ReservePerBlocked <= 0 {
		c.ReservePerBlocked = def.ReservePerBlocked
	}
	if c.ReserveCap <= 0 {
		c.ReserveCap = def.ReserveCap
	}
	if c.ReserveFloorLoad <= 0 {
		c.ReserveFloorLoad = def.ReserveFloorLoad
	}
	if c.LightLoadUnits <= 0 {
		c.LightLoadUnits = def.LightLoadUnits
	}
	if c.LightLoadRatio <= 0 {
		c.LightLoadRatio = def.LightLoadRatio
	}
	return c
}

package main

import (
	json "github.com/KevinWang15/go-json5"

	"github.com/apex-photonics/crystalprop/crystal"
	"github.com/apex-photonics/crystalprop/pulse"
)

// RunConfig is everything one amplification run needs: the crystal,
// the seed pulse, and the propagation options.
type RunConfig struct {
	Crystal  crystal.Params
	Seed     pulse.GaussianSource
	Mode     crystal.PropMode
	CalcGain bool
	RadialN2 bool
	PlotDir  string
}

func parseConfig(data []byte) (*RunConfig, string, bool) {
	var jsonTable map[string]interface{}
	if err := json.Unmarshal(data, &jsonTable); err != nil {
		return nil, "parameter file is not valid json5: " + err.Error(), false
	}

	cfg := &RunConfig{
		Crystal:  crystal.DefaultParams(),
		Mode:     crystal.ModeN0N2LCT,
		CalcGain: true,
	}
	msg, ok := validateConfigAndFill(jsonTable, cfg)
	if !ok {
		return nil, msg, false
	}
	return cfg, msg, true
}

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asFloatArray(v interface{}) ([]float64, bool) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]float64, len(raw))
	for i, e := range raw {
		f, ok := e.(float64)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// fillFloat overwrites *dst when the field is present; a present
// field of the wrong type is an error.
func fillFloat(jsonTable map[string]interface{}, dst *float64, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return "", true // keep default
	}
	f, ok := v.(float64)
	if !ok {
		return joinPath(path) + ": is not a float64", false
	}
	*dst = f
	return "", true
}

func fillBool(jsonTable map[string]interface{}, dst *bool, path ...string) (string, bool) {
	v, ok := getLeafValue(jsonTable, path...)
	if !ok {
		return "", true
	}
	b, ok := v.(bool)
	if !ok {
		return joinPath(path) + ": is not a bool", false
	}
	*dst = b
	return "", true
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}

func validateConfigAndFill(jsonTable map[string]interface{}, cfg *RunConfig) (string, bool) {
	msg := "No problem found in parameter file" // Presumed success.

	// Crystal block.
	if v, ok := getLeafValue(jsonTable, "crystal", "n0"); ok {
		arr, ok := asFloatArray(v)
		if !ok {
			return "crystal.n0: is not an array of float64", false
		}
		cfg.Crystal.N0 = arr
	}
	if v, ok := getLeafValue(jsonTable, "crystal", "n2"); ok {
		arr, ok := asFloatArray(v)
		if !ok {
			return "crystal.n2: is not an array of float64", false
		}
		cfg.Crystal.N2 = arr
	}
	if v, ok := getLeafValue(jsonTable, "crystal", "nslice"); ok {
		f, ok := v.(float64)
		if !ok {
			return "crystal.nslice: is not a number", false
		}
		cfg.Crystal.NSlice = int(f)
	}
	scalarFields := []struct {
		dst  *float64
		path []string
	}{
		{&cfg.Crystal.Length, []string{"crystal", "length"}},
		{&cfg.Crystal.LScale, []string{"crystal", "l_scale"}},
		{&cfg.Crystal.A, []string{"crystal", "A"}},
		{&cfg.Crystal.B, []string{"crystal", "B"}},
		{&cfg.Crystal.C, []string{"crystal", "C"}},
		{&cfg.Crystal.D, []string{"crystal", "D"}},
		{&cfg.Crystal.RadialN2Factor, []string{"crystal", "radial_n2_factor"}},
		{&cfg.Crystal.Pump.MeshExtent, []string{"crystal", "population_inversion", "mesh_extent"}},
		{&cfg.Crystal.Pump.CrystalAlpha, []string{"crystal", "population_inversion", "crystal_alpha"}},
		{&cfg.Crystal.Pump.PumpWaist, []string{"crystal", "population_inversion", "pump_waist"}},
		{&cfg.Crystal.Pump.Wavelength, []string{"crystal", "population_inversion", "pump_wavelength"}},
		{&cfg.Crystal.Pump.Energy, []string{"crystal", "population_inversion", "pump_energy"}},
		{&cfg.Crystal.Pump.GaussianOrder, []string{"crystal", "population_inversion", "pump_gaussian_order"}},
		{&cfg.Crystal.Pump.OffsetX, []string{"crystal", "population_inversion", "pump_offset_x"}},
		{&cfg.Crystal.Pump.OffsetY, []string{"crystal", "population_inversion", "pump_offset_y"}},
		{&cfg.Crystal.Pump.RepRate, []string{"crystal", "population_inversion", "pump_rep_rate"}},
	}
	for _, f := range scalarFields {
		if m, ok := fillFloat(jsonTable, f.dst, f.path...); !ok {
			return m, false
		}
	}
	if v, ok := getLeafValue(jsonTable, "crystal", "population_inversion", "n_cells"); ok {
		f, ok := v.(float64)
		if !ok {
			return "crystal.population_inversion.n_cells: is not a number", false
		}
		cfg.Crystal.Pump.NCells = int(f)
	}
	if v, ok := getLeafValue(jsonTable, "crystal", "population_inversion", "pump_type"); ok {
		s, ok := v.(string)
		if !ok {
			return "crystal.population_inversion.pump_type: is not a string", false
		}
		t, err := crystal.ParsePumpType(s)
		if err != nil {
			return "crystal.population_inversion.pump_type: " + err.Error(), false
		}
		cfg.Crystal.Pump.Type = t
	}

	// Seed pulse block. Photon energy and pulse energy are required.
	v, ok := getLeafValue(jsonTable, "seed", "photon_energy_ev")
	if !ok {
		return "seed.photon_energy_ev: not found", false
	}
	if cfg.Seed.PhotonEnergyEV, ok = v.(float64); !ok {
		return "seed.photon_energy_ev: is not a float64", false
	}
	v, ok = getLeafValue(jsonTable, "seed", "pulse_energy")
	if !ok {
		return "seed.pulse_energy: not found", false
	}
	if cfg.Seed.PulseEnergy, ok = v.(float64); !ok {
		return "seed.pulse_energy: is not a float64", false
	}

	cfg.Seed.Waist = 0.001
	cfg.Seed.MeshExtent = cfg.Crystal.Pump.MeshExtent
	cfg.Seed.NCells = cfg.Crystal.Pump.NCells
	cfg.Seed.NSlices = 1
	seedFields := []struct {
		dst  *float64
		path []string
	}{
		{&cfg.Seed.Waist, []string{"seed", "waist"}},
		{&cfg.Seed.MeshExtent, []string{"seed", "mesh_extent"}},
		{&cfg.Seed.Direction, []string{"seed", "direction"}},
	}
	for _, f := range seedFields {
		if m, ok := fillFloat(jsonTable, f.dst, f.path...); !ok {
			return m, false
		}
	}
	if v, ok := getLeafValue(jsonTable, "seed", "n_cells"); ok {
		f, ok := v.(float64)
		if !ok {
			return "seed.n_cells: is not a number", false
		}
		cfg.Seed.NCells = int(f)
	}
	if v, ok := getLeafValue(jsonTable, "seed", "nslices"); ok {
		f, ok := v.(float64)
		if !ok {
			return "seed.nslices: is not a number", false
		}
		cfg.Seed.NSlices = int(f)
	}

	// Run block.
	if v, ok := getLeafValue(jsonTable, "prop_type"); ok {
		s, ok := v.(string)
		if !ok {
			return "prop_type: is not a string", false
		}
		mode, err := crystal.ParsePropMode(s)
		if err != nil {
			return "prop_type: " + err.Error(), false
		}
		cfg.Mode = mode
	}
	if m, ok := fillBool(jsonTable, &cfg.CalcGain, "calc_gain"); !ok {
		return m, false
	}
	if m, ok := fillBool(jsonTable, &cfg.RadialN2, "radial_n2"); !ok {
		return m, false
	}
	if v, ok := getLeafValue(jsonTable, "plot_dir"); ok {
		s, ok := v.(string)
		if !ok {
			return "plot_dir: is not a string", false
		}
		cfg.PlotDir = s
	}

	return msg, true
}
